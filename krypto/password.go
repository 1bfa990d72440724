package krypto

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = bcrypt.DefaultCost

// PasswordVault hashes and verifies passwords with bcrypt. Each increment
// of cost doubles the work per hash.
type PasswordVault struct {
	cost int
}

// NewPasswordVault returns a vault hashing at cost. The cost must be within
// bcrypt's supported range.
func NewPasswordVault(cost int) (*PasswordVault, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]", ErrConfiguration, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordVault{cost: cost}, nil
}

// Cost returns the configured work factor.
func (v *PasswordVault) Cost() int {
	return v.cost
}

// Hash returns a self-describing bcrypt hash with a fresh salt. bcrypt
// reads at most 72 bytes of password; longer input is rejected.
func (v *PasswordVault) Hash(password string) (string, error) {
	return HashPassword(password, v.cost)
}

// Verify reports whether password matches hash. Both bcrypt and Argon2id
// hashes are recognised. A malformed hash simply does not match.
func (v *PasswordVault) Verify(password, hash string) bool {
	return VerifyPassword(password, hash)
}

// NeedsRehash reports whether hash should be replaced by a fresh Hash at
// the vault's cost: it was produced by another algorithm, a lower cost, or
// cannot be parsed.
func (v *PasswordVault) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < v.cost
}

// HashPassword hashes password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: bcrypt cost %d outside [%d, %d]", ErrInvalidArgument, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password longer than 72 bytes", ErrInvalidArgument)
		}
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches a bcrypt or Argon2id
// hash. It never says why a check failed.
func VerifyPassword(password, hash string) bool {
	if strings.HasPrefix(hash, argon2idPrefix) {
		ok, err := Argon2idVerifyPassword(password, hash)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
