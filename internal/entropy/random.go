// Package entropy supplies simulation seeds. A configured seed is used as
// is; otherwise one is drawn from crypto/rand so each run differs.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns configured when it is non-zero, and a fresh random seed
// otherwise. The returned seed is never zero so it can be recorded and
// replayed.
func Seed(configured int64) int64 {
	if configured != 0 {
		return configured
	}
	seed := CryptoSeed()
	slog.Debug("drew random seed", "seed", seed)
	return seed
}

// CryptoSeed returns a positive non-zero seed from crypto/rand, falling back
// to the clock if the system source fails.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Warn("crypto/rand unavailable, seeding from clock", "error", err)
		return clockSeed()
	}
	// Clear the sign bit so seeds print and store as positive integers.
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}

func clockSeed() int64 {
	seed := time.Now().UnixNano() & (1<<63 - 1)
	if seed == 0 {
		return 1
	}
	return seed
}
