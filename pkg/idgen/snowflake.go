package idgen

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	// 64-bit layout:
	// 1 bit unused (sign), 41 bits milliseconds since Epoch,
	// 10 bits node ID, 12 bits per-millisecond sequence.

	nodeBits     = 10
	sequenceBits = 12

	maxNodeID   = -1 ^ (-1 << nodeBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits

	// Epoch is 2024-01-01 00:00:00 UTC.
	Epoch = 1704067200000

	// maxBackwardSkew is in milliseconds. Small steps back happen when
	// RedisClock switches between server time and its local fallback.
	maxBackwardSkew = 5
)

var (
	ErrNodeIDTooLarge = errors.New("node ID too large")
	ErrClockMovedBack = errors.New("clock moved backwards")
	ErrMalformedID    = errors.New("malformed snowflake id")
)

// Snowflake generates unique, time-ordered 64-bit file IDs.
type Snowflake struct {
	mu       sync.Mutex
	clock    Clock
	nodeID   int64
	lastTime int64
	sequence int64
}

// New creates a Snowflake generator. A nil clock uses the system clock.
func New(nodeID int64, clock Clock) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, ErrNodeIDTooLarge
	}

	if clock == nil {
		clock = &SystemClock{}
	}

	return &Snowflake{
		clock:    clock,
		nodeID:   nodeID,
		lastTime: -1,
	}, nil
}

// Next generates the next unique ID. A clock that steps back by at most
// maxBackwardSkew keeps issuing IDs on the last timestamp.
func (s *Snowflake) Next() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if now < s.lastTime {
		if s.lastTime-now > maxBackwardSkew {
			return 0, ErrClockMovedBack
		}
		now = s.lastTime
	}

	if now > s.lastTime {
		s.sequence = 0
	} else {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			now = s.waitPast(s.lastTime)
		}
	}

	s.lastTime = now
	return compose(now, s.nodeID, s.sequence), nil
}

// waitPast spins until the clock reads later than ms.
func (s *Snowflake) waitPast(ms int64) int64 {
	now := s.clock.Now()
	for now <= ms {
		now = s.clock.Now()
	}
	return now
}

func compose(ms, nodeID, sequence int64) int64 {
	return (ms-Epoch)<<timestampShift | nodeID<<nodeShift | sequence
}

// NextString returns Next rendered in base 10, the form stored as a file ID.
func (s *Snowflake) NextString() (string, error) {
	id, err := s.Next()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Timestamp extracts the creation time encoded in a base-10 ID.
func Timestamp(id string) (time.Time, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil || v < 0 {
		return time.Time{}, ErrMalformedID
	}
	ms := (v >> timestampShift) + Epoch
	return time.UnixMilli(ms), nil
}
