// Package krypto provides the security primitives of the kit: secure random
// generation, digests, authenticated symmetric encryption, RSA-OAEP,
// HMAC-SHA256 message authentication, adaptive password hashing and signed
// expiring tokens.
//
// Every operation is independent and safe for concurrent use. No component
// keeps state between calls beyond the key or secret it was constructed
// with, and none of them read secrets from the environment on their own;
// use GetConfig and New, or pass secrets to the constructors directly.
//
// # Secure Random Generation
//
//	b, err := krypto.RandomBytes(32)
//	token, err := krypto.RandomHex(16)     // 32 hex characters
//	otp, err := krypto.RandomDigits(6)     // e.g. "048213"
//	n, err := krypto.RandomInRange(1, 7)   // uniform in [1, 7)
//
// RandomInRange uses rejection sampling, so it carries no modulo bias.
// CosmeticDigits is the only generator backed by math/rand and must not be
// used for anything that grants access.
//
// # Digests
//
//	sum, err := krypto.Digest("payload", krypto.AlgorithmSHA256)
//
// MD5 is offered for checksums and cache keys only.
//
// # AES Encryption
//
// AES-256-GCM with a 16-byte IV per message and a 16-byte tag:
//
//	keyHex, _ := krypto.GenerateAESKey()
//	key, _ := krypto.DecodeKey(keyHex)
//	svc, err := krypto.NewAESGCMService(key)
//
//	env, err := svc.EncryptString("hello world")
//	// env is {"iv": "...", "content": "...", "authTag": "..."}
//	plain, err := svc.DecryptString(env)
//
// Any failure to decrypt, including a tampered field, returns ErrDecryption
// and no plaintext.
//
// # RSA
//
//	kp, err := krypto.GenerateRSAKeyPair() // 2048-bit, PEM
//	ct, err := krypto.RSAEncrypt([]byte("short secret"), kp.PublicKey)
//	pt, err := krypto.RSADecrypt(ct, kp.PrivateKey)
//
// RSAEncrypt uses OAEP with SHA-256 and refuses input longer than one block
// (190 bytes for 2048-bit keys) with ErrPlaintextTooLarge.
//
// # HMAC Operations
//
//	auth, err := krypto.NewAuthenticator(secret)
//	sig := auth.Sign("message")
//	ok := auth.Verify("message", sig)
//
// Verify compares in constant time, including the length check.
//
// # Password Hashing
//
//	vault, err := krypto.NewPasswordVault(12)
//	hash, err := vault.Hash("userPassword123")
//	if vault.Verify("userPassword123", hash) {
//	    // authenticated
//	}
//
// Verify also accepts Argon2id PHC hashes produced by Argon2idHashPassword.
// Hashing is deliberately slow; Suite.HashPassword runs it on a bounded
// worker pool.
//
// # Tokens
//
//	issuer, err := krypto.NewTokenIssuer(secret)
//	tok, err := issuer.Issue(map[string]any{"sub": "user-1"}, 15*time.Minute)
//	verified, err := issuer.Verify(tok)
//	if errors.Is(err, krypto.ErrTokenInvalid) {
//	    // bad signature or expired; the two are not distinguished
//	}
//
// # Configuration
//
//	cfg, err := krypto.GetConfig() // BEAVER_KRYPTO_* variables
//	suite, err := krypto.New(*cfg)
//	cipher, err := suite.Cipher() // ErrConfiguration if no key was set
//
// # Error Handling
//
// Errors are sentinels checked with errors.Is: ErrRandomSource,
// ErrDecryption, ErrAsymmetric, ErrPlaintextTooLarge, ErrTokenInvalid,
// ErrConfiguration and ErrInvalidArgument. Verification helpers that answer
// a yes/no question (Authenticator.Verify, PasswordVault.Verify) return a
// bool instead.
package krypto
