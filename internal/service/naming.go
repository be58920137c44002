package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
)

// displayNameBytes is the amount of randomness in a generated display name.
const displayNameBytes = 16

// randomNamer builds display names as 32 hex chars plus the original extension.
type randomNamer struct {
	rand io.Reader
}

// NewRandomNamer returns a NameGenerator backed by crypto/rand.
func NewRandomNamer() NameGenerator {
	return &randomNamer{rand: rand.Reader}
}

func (n *randomNamer) Generate(originalName string) (string, error) {
	buf := make([]byte, displayNameBytes)
	if _, err := io.ReadFull(n.rand, buf); err != nil {
		return "", fmt.Errorf("failed to generate display name: %w", err)
	}
	return hex.EncodeToString(buf) + filepath.Ext(filepath.Base(originalName)), nil
}
