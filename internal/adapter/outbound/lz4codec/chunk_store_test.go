package lz4codec

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEncode_CompressibleShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("gridstore "), 4096)

	stored := Encode(data)
	assert.Equal(t, modeLZ4, stored[0])
	assert.Less(t, len(stored), len(data))

	decoded, err := Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncode_IncompressibleStaysRaw(t *testing.T) {
	data := make([]byte, 1024)
	rand.New(rand.NewSource(1)).Read(data)

	stored := Encode(data)
	assert.Equal(t, modeRaw, stored[0])
	assert.Len(t, stored, len(data)+1)

	decoded, err := Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncode_Empty(t *testing.T) {
	stored := Encode(nil)
	decoded, err := Decode(stored)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)

	_, err = Decode([]byte{0x07, 1, 2})
	assert.Error(t, err)

	_, err = Decode([]byte{modeLZ4, 0, 0})
	assert.Error(t, err)

	_, err = Decode([]byte{modeLZ4, 0xff, 0xff, 0xff, 0xff, 0})
	assert.Error(t, err)
}

func TestChunkStore_WrapsNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockChunkStore(ctrl)
	store := Wrap(next)
	ctx := context.Background()

	data := bytes.Repeat([]byte("a"), 2048)
	var stored []byte
	next.EXPECT().Put(ctx, "1", 0, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ int, payload []byte) error {
			stored = append([]byte(nil), payload...)
			return nil
		})
	require.NoError(t, store.Put(ctx, "1", 0, data))
	assert.Less(t, len(stored), len(data))

	next.EXPECT().Get(ctx, "1", 0).Return(stored, nil)
	got, err := store.Get(ctx, "1", 0)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	next.EXPECT().Get(ctx, "1", 1).Return(nil, domain.ErrNotFound)
	_, err = store.Get(ctx, "1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Listing and deletion pass straight through.
	next.EXPECT().DeleteFile(ctx, "1").Return(1, nil)
	n, err := store.DeleteFile(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
