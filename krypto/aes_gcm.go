package krypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	// AESKeySize is the only accepted key length (AES-256).
	AESKeySize = 32
	// IVSize is the length of the per-message IV.
	IVSize = 16
	// TagSize is the length of the GCM authentication tag.
	TagSize = 16
)

// Envelope is the storage form of one encrypted message. All fields are hex
// encoded. The three fields must be kept and verified together.
type Envelope struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
	AuthTag string `json:"authTag"`
}

// Service defines the interface for symmetric encryption operations
type Service interface {
	Encrypt(data []byte) (*Envelope, error)
	Decrypt(envelope *Envelope) ([]byte, error)
	EncryptString(plaintext string) (*Envelope, error)
	DecryptString(envelope *Envelope) (string, error)
}

// aesGCMService implements the Service interface using AES-256-GCM
type aesGCMService struct {
	gcm    cipher.AEAD
	random *Random
}

// AESOption customises an AES-GCM service.
type AESOption func(*aesGCMService)

// WithRandom replaces the IV source.
func WithRandom(r *Random) AESOption {
	return func(s *aesGCMService) {
		s.random = r
	}
}

// NewAESGCMService creates a new AES-GCM encryption service bound to a
// 32-byte key.
func NewAESGCMService(key []byte, opts ...AESOption) (Service, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: AES key must be %d bytes, got %d", ErrConfiguration, AESKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher block: %v", ErrConfiguration, err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCM: %v", ErrConfiguration, err)
	}

	s := &aesGCMService{gcm: gcm, random: defaultRandom}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Encrypt encrypts byte data under a fresh IV.
func (s *aesGCMService) Encrypt(data []byte) (*Envelope, error) {
	iv, err := s.random.Bytes(IVSize)
	if err != nil {
		return nil, err
	}

	sealed := s.gcm.Seal(nil, iv, data, nil)
	split := len(sealed) - TagSize

	return &Envelope{
		IV:      hex.EncodeToString(iv),
		Content: hex.EncodeToString(sealed[:split]),
		AuthTag: hex.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt verifies the tag and returns the plaintext. Every failure is
// reported as ErrDecryption and no plaintext is returned.
func (s *aesGCMService) Decrypt(envelope *Envelope) ([]byte, error) {
	if envelope == nil {
		return nil, ErrDecryption
	}

	iv, ivErr := hex.DecodeString(envelope.IV)
	content, contentErr := hex.DecodeString(envelope.Content)
	tag, tagErr := hex.DecodeString(envelope.AuthTag)
	if ivErr != nil || contentErr != nil || tagErr != nil || len(iv) != IVSize || len(tag) != TagSize {
		return nil, ErrDecryption
	}

	sealed := make([]byte, 0, len(content)+len(tag))
	sealed = append(sealed, content...)
	sealed = append(sealed, tag...)

	plaintext, err := s.gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}

// EncryptString encrypts a UTF-8 string.
func (s *aesGCMService) EncryptString(plaintext string) (*Envelope, error) {
	return s.Encrypt([]byte(plaintext))
}

// DecryptString decrypts an envelope produced by EncryptString.
func (s *aesGCMService) DecryptString(envelope *Envelope) (string, error) {
	plaintext, err := s.Decrypt(envelope)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// GenerateAESKey returns a fresh AES-256 key, hex encoded for storage in
// configuration.
func GenerateAESKey() (string, error) {
	return defaultRandom.Hex(AESKeySize)
}

// DecodeKey parses a 32-byte key from its hex or standard base64 form.
func DecodeKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty key", ErrConfiguration)
	}
	if key, err := hex.DecodeString(encoded); err == nil && len(key) == AESKeySize {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(key) == AESKeySize {
		return key, nil
	}
	return nil, fmt.Errorf("%w: key must be %d bytes in hex or base64", ErrConfiguration, AESKeySize)
}
