package krypto

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"
)

// Random draws bytes and numbers from a cryptographically secure source.
// The zero value is not usable; use NewRandom or the package-level helpers.
type Random struct {
	reader io.Reader
}

var defaultRandom = NewRandom(rand.Reader)

// NewRandom returns a Random reading from r. Pass crypto/rand.Reader in
// production; other readers exist for tests.
func NewRandom(r io.Reader) *Random {
	return &Random{reader: r}
}

// DefaultRandom returns the Random backed by crypto/rand.
func DefaultRandom() *Random {
	return defaultRandom
}

// Bytes returns exactly n random bytes.
func (r *Random) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidArgument, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return b, nil
}

// Hex returns n random bytes as a 2n-character hex string.
func (r *Random) Hex(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// InRange returns an integer uniformly distributed over [lo, hi).
//
// Candidates are drawn using the fewest bytes that cover the span. Any
// candidate at or above the largest multiple of the span representable in
// that width is discarded and redrawn, so the final modulo is unbiased.
func (r *Random) InRange(lo, hi int64) (int64, error) {
	if hi <= lo {
		return 0, fmt.Errorf("%w: empty range [%d, %d)", ErrInvalidArgument, lo, hi)
	}

	span := uint64(hi) - uint64(lo)
	if span == 1 {
		return lo, nil
	}

	width := (bits.Len64(span-1) + 7) / 8

	// ceiling is 2^(8*width) - 1, the largest value a candidate can take.
	var ceiling uint64 = 1<<(8*uint(width)) - 1
	if width == 8 {
		ceiling = ^uint64(0)
	}
	// limit is the largest candidate that still lands inside a full
	// multiple of span.
	limit := ceiling - (ceiling%span+1)%span

	buf := make([]byte, 8)
	for {
		clear(buf)
		if _, err := io.ReadFull(r.reader, buf[8-width:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRandomSource, err)
		}
		candidate := binary.BigEndian.Uint64(buf)
		if candidate > limit {
			continue
		}
		return int64(uint64(lo) + candidate%span), nil
	}
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	return defaultRandom.Bytes(n)
}

// RandomHex returns n bytes from crypto/rand, hex encoded.
func RandomHex(n int) (string, error) {
	return defaultRandom.Hex(n)
}

// RandomInRange returns a uniform integer in [lo, hi) from crypto/rand.
func RandomInRange(lo, hi int64) (int64, error) {
	return defaultRandom.InRange(lo, hi)
}
