package krypto

import (
	"crypto/md5" //nolint:gosec // checksums only, see Digest
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Algorithm names a non-keyed digest.
type Algorithm string

const (
	// AlgorithmMD5 is for checksums and cache keys only. It is not
	// collision resistant.
	AlgorithmMD5 Algorithm = "md5"
	// AlgorithmSHA256 is SHA-256.
	AlgorithmSHA256 Algorithm = "sha256"
)

// Digest returns the hex-encoded digest of text. The result is deterministic
// and unkeyed; use an Authenticator when integrity against an attacker
// matters.
func Digest(text string, algorithm Algorithm) (string, error) {
	var h hash.Hash
	switch Algorithm(strings.ToLower(string(algorithm))) {
	case AlgorithmMD5:
		h = md5.New() //nolint:gosec
	case AlgorithmSHA256:
		h = sha256.New()
	default:
		return "", fmt.Errorf("%w: unsupported digest algorithm %q", ErrInvalidArgument, algorithm)
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashSHA256 returns the hex SHA-256 digest of text.
func HashSHA256(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
