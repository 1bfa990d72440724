package krypto

import (
	mathrand "math/rand/v2"
)

const decimalDigits = "0123456789"

// Digits returns a string of length decimal digits, each drawn uniformly
// through InRange. Use it for one-time passwords and verification codes.
func (r *Random) Digits(length int) (string, error) {
	return r.String(length, decimalDigits)
}

// RandomDigits generates a security-grade One-Time Password (OTP) of the
// specified length from crypto/rand.
//
// Parameters:
//
//	length: The number of digits to generate.
//
// Returns:
//
//	string: The generated digits.
//	error: ErrRandomSource if the entropy source failed.
func RandomDigits(length int) (string, error) {
	return defaultRandom.Digits(length)
}

// CosmeticDigits returns length decimal digits from math/rand/v2. The
// output is predictable and must never be used for anything that grants
// access: placeholder order numbers, demo data, display jitter.
func CosmeticDigits(length int) string {
	if length <= 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = decimalDigits[mathrand.IntN(len(decimalDigits))] //nolint:gosec // not security relevant by contract
	}
	return string(out)
}
