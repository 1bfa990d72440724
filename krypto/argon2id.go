package krypto

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory      = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLength  = 16
	argonKeyLength   = 32

	argon2idPrefix = "$argon2id$"

	// Upper bounds applied to parameters read from a stored hash.
	argonMaxMemory     = 1 << 20
	argonMaxIterations = 64
)

var argonEncoding = base64.RawStdEncoding

// Argon2idHashPassword generates an Argon2id hash from the provided password.
// It uses a cryptographically secure random salt and returns the hash in
// the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-hash>
//
// Parameters:
//
//	password: The plaintext password to be hashed.
//
// Returns:
//
//	string: The hashed password encoded in a string format containing hash parameters.
//	error: ErrRandomSource if no salt could be drawn.
func Argon2idHashPassword(password string) (string, error) {
	salt, err := defaultRandom.Bytes(argonSaltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, argonMemory, argonIterations, argonParallelism,
		argonEncoding.EncodeToString(salt), argonEncoding.EncodeToString(hash)), nil
}

// argon2Params is the parsed parameter section of a PHC string.
type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parseArgon2id(encodedHash string) (*argon2Params, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, fmt.Errorf("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var p argon2Params
	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &parallelism); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}
	if p.memory == 0 || p.memory > argonMaxMemory || p.iterations == 0 || p.iterations > argonMaxIterations {
		return nil, fmt.Errorf("cost parameters out of range: m=%d t=%d", p.memory, p.iterations)
	}
	// argon2 takes parallelism as uint8
	if parallelism == 0 || parallelism > 255 {
		return nil, fmt.Errorf("parallelism parameter out of range: %d", parallelism)
	}
	p.parallelism = uint8(parallelism)

	var err error
	if p.salt, err = argonEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	if p.hash, err = argonEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("failed to decode hash: %w", err)
	}
	if len(p.hash) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	return &p, nil
}

// Argon2idVerifyPassword verifies a password against an Argon2id PHC hash.
// It reads the parameters and salt embedded in encodedHash, recomputes the
// key and compares in constant time.
//
// Returns:
//
//	bool: True if the password matches the hash, false otherwise.
//	error: An error if the hash format is invalid or parameters couldn't be parsed.
func Argon2idVerifyPassword(password, encodedHash string) (bool, error) {
	p, err := parseArgon2id(encodedHash)
	if err != nil {
		return false, err
	}

	computedHash := argon2.IDKey([]byte(password), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(p.hash, computedHash) == 1, nil
}
