package krypto

import (
	"errors"
	"fmt"
)

// Errors returned by the package. Lower-level failures (hex decoding, PEM
// parsing, cipher construction) are wrapped into one of these before they
// leave the package, so callers only ever need errors.Is.
var (
	// ErrRandomSource indicates the entropy source could not be read.
	// Treat it as fatal; retrying will not help.
	ErrRandomSource = errors.New("secure random source unavailable")

	// ErrDecryption covers every symmetric decryption failure. It never
	// says which part of the envelope was wrong.
	ErrDecryption = errors.New("decryption failed")

	// ErrAsymmetric indicates an RSA operation was rejected: malformed key,
	// malformed ciphertext or key mismatch.
	ErrAsymmetric = errors.New("asymmetric operation failed")

	// ErrPlaintextTooLarge is returned when the plaintext does not fit in a
	// single OAEP block. It wraps ErrAsymmetric.
	ErrPlaintextTooLarge = fmt.Errorf("%w: plaintext exceeds RSA-OAEP capacity", ErrAsymmetric)

	// ErrTokenInvalid means the token is not currently valid. Bad signature,
	// wrong algorithm, malformed input and expiry all map here.
	ErrTokenInvalid = errors.New("token is not valid")

	// ErrConfiguration indicates a missing or malformed key or secret.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument indicates a caller supplied an unusable argument
	// such as a negative length or an empty range.
	ErrInvalidArgument = errors.New("invalid argument")
)
