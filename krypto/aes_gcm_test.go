package krypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte("a"), AESKeySize)
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewAESGCMService(testKey())
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc
}

func TestNewAESGCMService(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		wantErr bool
	}{
		{
			name:    "valid key (32 bytes)",
			key:     testKey(),
			wantErr: false,
		},
		{
			name:    "AES-128 key rejected",
			key:     bytes.Repeat([]byte("a"), 16),
			wantErr: true,
		},
		{
			name:    "invalid key size",
			key:     []byte("too-short"),
			wantErr: true,
		},
		{
			name:    "empty key",
			key:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAESGCMService(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAESGCMService() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewAESGCMService() error = %v, want ErrConfiguration", err)
			}
			if !tt.wantErr && svc == nil {
				t.Error("NewAESGCMService() returned nil service with no error")
			}
		})
	}
}

func TestAESGCMService_Encrypt_Decrypt(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "encrypt/decrypt normal text",
			data: []byte("hello world"),
		},
		{
			name: "encrypt/decrypt empty data",
			data: []byte{},
		},
		{
			name: "encrypt/decrypt binary data",
			data: []byte{0xFF, 0x00, 0xFE, 0x01},
		},
		{
			name: "encrypt/decrypt large data",
			data: bytes.Repeat([]byte("0123456789"), 10000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := svc.Encrypt(tt.data)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			iv, _ := hex.DecodeString(env.IV)
			tag, _ := hex.DecodeString(env.AuthTag)
			content, _ := hex.DecodeString(env.Content)
			if len(iv) != IVSize {
				t.Errorf("IV length = %d, want %d", len(iv), IVSize)
			}
			if len(tag) != TagSize {
				t.Errorf("tag length = %d, want %d", len(tag), TagSize)
			}
			if len(content) != len(tt.data) {
				t.Errorf("content length = %d, want %d", len(content), len(tt.data))
			}
			if len(tt.data) > 0 && bytes.Equal(content, tt.data) {
				t.Error("Encrypt() ciphertext equals plaintext")
			}

			plaintext, err := svc.Decrypt(env)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(plaintext, tt.data) {
				t.Errorf("Decrypt() got = %v, want %v", plaintext, tt.data)
			}
		})
	}
}

func TestAESGCMService_EncryptString_DecryptString(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "normal string", plaintext: "hello world"},
		{name: "empty string", plaintext: ""},
		{name: "unicode string", plaintext: "こんにちは世界 🔐 émigré"},
		{name: "json payload", plaintext: `{"ssn":"123-45-6789"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := svc.EncryptString(tt.plaintext)
			if err != nil {
				t.Fatalf("EncryptString() error = %v", err)
			}
			got, err := svc.DecryptString(env)
			if err != nil {
				t.Fatalf("DecryptString() error = %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("DecryptString() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestAESGCMService_FreshIVPerCall(t *testing.T) {
	svc := newTestService(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		env, err := svc.EncryptString("same input")
		if err != nil {
			t.Fatalf("EncryptString() error = %v", err)
		}
		if seen[env.IV] {
			t.Fatalf("IV %s reused", env.IV)
		}
		seen[env.IV] = true
	}
}

func flipBit(t *testing.T, field string, bit int) string {
	t.Helper()
	raw, err := hex.DecodeString(field)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	raw[bit/8] ^= 1 << (bit % 8)
	return hex.EncodeToString(raw)
}

func TestAESGCMService_TamperDetection(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.EncryptString("attack at dawn")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}

	fields := []struct {
		name   string
		bits   int
		mutate func(e *Envelope, bit int)
	}{
		{"iv", IVSize * 8, func(e *Envelope, bit int) { e.IV = flipBit(t, e.IV, bit) }},
		{"content", len("attack at dawn") * 8, func(e *Envelope, bit int) { e.Content = flipBit(t, e.Content, bit) }},
		{"authTag", TagSize * 8, func(e *Envelope, bit int) { e.AuthTag = flipBit(t, e.AuthTag, bit) }},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			for bit := 0; bit < f.bits; bit++ {
				tampered := *env
				f.mutate(&tampered, bit)

				got, err := svc.Decrypt(&tampered)
				if !errors.Is(err, ErrDecryption) {
					t.Fatalf("bit %d: Decrypt() error = %v, want ErrDecryption", bit, err)
				}
				if got != nil {
					t.Fatalf("bit %d: Decrypt() returned plaintext %q", bit, got)
				}
			}
		})
	}
}

func TestAESGCMService_DecryptInvalidEnvelope(t *testing.T) {
	svc := newTestService(t)

	valid, err := svc.EncryptString("hello world")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}

	tests := []struct {
		name     string
		envelope *Envelope
	}{
		{name: "nil envelope", envelope: nil},
		{name: "empty envelope", envelope: &Envelope{}},
		{name: "missing tag", envelope: &Envelope{IV: valid.IV, Content: valid.Content}},
		{name: "non-hex iv", envelope: &Envelope{IV: "zz", Content: valid.Content, AuthTag: valid.AuthTag}},
		{name: "short iv", envelope: &Envelope{IV: valid.IV[:24], Content: valid.Content, AuthTag: valid.AuthTag}},
		{name: "non-hex content", envelope: &Envelope{IV: valid.IV, Content: "not hex!", AuthTag: valid.AuthTag}},
		{name: "truncated tag", envelope: &Envelope{IV: valid.IV, Content: valid.Content, AuthTag: valid.AuthTag[:30]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Decrypt(tt.envelope)
			if !errors.Is(err, ErrDecryption) {
				t.Errorf("Decrypt() error = %v, want ErrDecryption", err)
			}
			if err != nil && err.Error() != ErrDecryption.Error() {
				t.Errorf("Decrypt() error %q reveals detail", err)
			}
			if got != nil {
				t.Errorf("Decrypt() returned plaintext %q", got)
			}
		})
	}
}

func TestAESGCMService_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other, err := NewAESGCMService(bytes.Repeat([]byte("b"), AESKeySize))
	if err != nil {
		t.Fatalf("NewAESGCMService() error = %v", err)
	}

	env, err := svc.EncryptString("hello world")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if _, err := other.DecryptString(env); !errors.Is(err, ErrDecryption) {
		t.Errorf("DecryptString() with wrong key error = %v, want ErrDecryption", err)
	}
}

func TestAESGCMService_RandomSourceFailure(t *testing.T) {
	svc, err := NewAESGCMService(testKey(), WithRandom(NewRandom(failingReader{})))
	if err != nil {
		t.Fatalf("NewAESGCMService() error = %v", err)
	}
	if _, err := svc.EncryptString("hello"); !errors.Is(err, ErrRandomSource) {
		t.Errorf("EncryptString() error = %v, want ErrRandomSource", err)
	}
}

func TestEnvelopeJSON(t *testing.T) {
	svc := newTestService(t)
	env, err := svc.EncryptString("hello world")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"iv", "content", "authTag"} {
		if fields[key] == "" {
			t.Errorf("JSON field %q missing in %s", key, raw)
		}
	}

	var decoded Envelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	got, err := svc.DecryptString(&decoded)
	if err != nil || got != "hello world" {
		t.Errorf("DecryptString() = %q, %v", got, err)
	}
}

func TestGenerateAESKey(t *testing.T) {
	keyHex, err := GenerateAESKey()
	if err != nil {
		t.Fatalf("GenerateAESKey() error = %v", err)
	}
	if len(keyHex) != 2*AESKeySize {
		t.Errorf("GenerateAESKey() length = %d, want %d", len(keyHex), 2*AESKeySize)
	}

	key, err := DecodeKey(keyHex)
	if err != nil {
		t.Fatalf("DecodeKey() error = %v", err)
	}
	if _, err := NewAESGCMService(key); err != nil {
		t.Errorf("NewAESGCMService() with generated key error = %v", err)
	}
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr bool
	}{
		{name: "hex", encoded: hex.EncodeToString(testKey())},
		{name: "base64", encoded: "YWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWFhYWE="},
		{name: "empty", encoded: "", wantErr: true},
		{name: "short hex", encoded: "abcd", wantErr: true},
		{name: "raw text", encoded: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DecodeKey(tt.encoded)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("DecodeKey() error = %v, want ErrConfiguration", err)
				}
				return
			}
			if !bytes.Equal(key, testKey()) {
				t.Errorf("DecodeKey() = %x, want %x", key, testKey())
			}
		})
	}
}
