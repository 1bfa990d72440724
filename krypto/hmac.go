package krypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Authenticator produces and checks HMAC-SHA256 tags under one secret.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator returns an Authenticator bound to secret. An empty
// secret is a configuration error.
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: HMAC secret is empty", ErrConfiguration)
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Sign returns the hex-encoded 32-byte tag for message.
func (a *Authenticator) Sign(message string) string {
	return hex.EncodeToString(a.tag(message))
}

// Verify recomputes the tag for message and compares it with signature in
// constant time. A signature of the wrong length or encoding is rejected
// without an early return.
func (a *Authenticator) Verify(message, signature string) bool {
	expected := a.tag(message)

	given, err := hex.DecodeString(signature)
	if err != nil {
		given = nil
	}

	// Compare a fixed-size buffer so timing does not depend on the
	// supplied length.
	candidate := make([]byte, len(expected))
	copy(candidate, given)

	sameLength := subtle.ConstantTimeEq(int32(len(given)), int32(len(expected)))
	sameBytes := subtle.ConstantTimeCompare(candidate, expected)
	return sameLength&sameBytes == 1
}

func (a *Authenticator) tag(message string) []byte {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// SignHMAC signs message with secret. It fails only when secret is empty.
func SignHMAC(message, secret string) (string, error) {
	a, err := NewAuthenticator(secret)
	if err != nil {
		return "", err
	}
	return a.Sign(message), nil
}

// VerifyHMAC reports whether signature is the tag of message under secret.
// An empty secret never verifies.
func VerifyHMAC(message, signature, secret string) bool {
	a, err := NewAuthenticator(secret)
	if err != nil {
		return false
	}
	return a.Verify(message, signature)
}
