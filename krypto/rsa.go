package krypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

const (
	// RSAKeyBits is the default modulus size.
	RSAKeyBits = 2048

	pemPublicKey     = "PUBLIC KEY"
	pemPrivateKey    = "PRIVATE KEY"
	pemRSAPublicKey  = "RSA PUBLIC KEY"
	pemRSAPrivateKey = "RSA PRIVATE KEY"
)

// KeyPair holds a PEM-encoded RSA key pair. The caller owns both keys and
// is responsible for storing PrivateKey securely.
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// GenerateRSAKeyPair generates a 2048-bit key pair. It takes tens to
// hundreds of milliseconds; keep it off latency-sensitive paths.
func GenerateRSAKeyPair() (*KeyPair, error) {
	return GenerateRSAKeyPairWithBits(RSAKeyBits)
}

// GenerateRSAKeyPairWithBits generates a key pair with the given modulus
// size. Sizes below 2048 are rejected.
func GenerateRSAKeyPairWithBits(bits int) (*KeyPair, error) {
	if bits < RSAKeyBits {
		return nil, fmt.Errorf("%w: RSA key size %d is below %d", ErrInvalidArgument, bits, RSAKeyBits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal private key: %v", ErrAsymmetric, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal public key: %v", ErrAsymmetric, err)
	}

	return &KeyPair{
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: pubDER})),
		PrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: privDER})),
	}, nil
}

// MaxOAEPPlaintext returns how many bytes a single RSA-OAEP SHA-256 block
// can carry for the given key.
func MaxOAEPPlaintext(pub *rsa.PublicKey) int {
	return pub.Size() - 2*sha256.Size - 2
}

// RSAEncrypt encrypts plaintext with RSA-OAEP (SHA-256) and returns the
// base64 ciphertext. Input longer than MaxOAEPPlaintext fails with
// ErrPlaintextTooLarge; there is no chunking.
func RSAEncrypt(plaintext []byte, publicKeyPEM string) (string, error) {
	pub, err := ParseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return "", err
	}

	if limit := MaxOAEPPlaintext(pub); len(plaintext) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrPlaintextTooLarge, len(plaintext), limit)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAsymmetric, err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// RSADecrypt reverses RSAEncrypt. Malformed base64, a ciphertext for a
// different key and padding errors all return ErrAsymmetric.
func RSADecrypt(ciphertextB64, privateKeyPEM string) ([]byte, error) {
	priv, err := ParseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not base64", ErrAsymmetric)
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return nil, ErrAsymmetric
	}
	return plaintext, nil
}

// ValidateRSAKeyPair reports whether the two PEM blocks form a matching
// pair.
func ValidateRSAKeyPair(privateKeyPEM, publicKeyPEM string) (bool, error) {
	priv, err := ParseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return false, err
	}
	pub, err := ParseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}
	return priv.PublicKey.Equal(pub), nil
}

// ParseRSAPublicKey accepts PKIX "PUBLIC KEY" and PKCS#1 "RSA PUBLIC KEY"
// PEM blocks.
func ParseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("%w: public key is not PEM", ErrAsymmetric)
	}

	switch block.Type {
	case pemPublicKey:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAsymmetric, err)
		}
		pub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: public key is not RSA", ErrAsymmetric)
		}
		return pub, nil
	case pemRSAPublicKey:
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAsymmetric, err)
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrAsymmetric, block.Type)
	}
}

// ParseRSAPrivateKey accepts PKCS#8 "PRIVATE KEY" and PKCS#1
// "RSA PRIVATE KEY" PEM blocks.
func ParseRSAPrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("%w: private key is not PEM", ErrAsymmetric)
	}

	switch block.Type {
	case pemPrivateKey:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAsymmetric, err)
		}
		priv, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is not RSA", ErrAsymmetric)
		}
		return priv, nil
	case pemRSAPrivateKey:
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAsymmetric, err)
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrAsymmetric, block.Type)
	}
}
