package krypto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureToken generates a secure token of the specified length.
// It utilizes the cryptographic randomness provided by crypto/rand
// to ensure the security and unpredictability of the generated token.
//
// Parameters:
//
//	length: The number of random bytes in the token.
//
// Returns:
//
//	string: The randomly generated secure token in hexadecimal format (2*length characters).
//	error: An error, if any, encountered during the token generation process.
func GenerateSecureToken(length int) (string, error) {
	return defaultRandom.Hex(length)
}

// GenerateRandomString generates an alphanumeric string of the specified
// length using the secure source.
func GenerateRandomString(length int) (string, error) {
	return defaultRandom.String(length, alphanumeric)
}

// String returns length characters drawn uniformly from charset.
func (r *Random) String(length int, charset string) (string, error) {
	if charset == "" || length < 0 {
		return "", fmt.Errorf("%w: length %d, charset size %d", ErrInvalidArgument, length, len(charset))
	}

	out := make([]byte, length)
	for i := range out {
		n, err := r.InRange(0, int64(len(charset)))
		if err != nil {
			return "", err
		}
		out[i] = charset[n]
	}
	return string(out), nil
}

// GenerateToken64 returns a 64-character opaque identifier built from two
// random UUIDs. It is suitable as a token ID, not as a secret.
func GenerateToken64() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}
