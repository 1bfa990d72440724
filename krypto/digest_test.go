package krypto_test

import (
	"errors"
	"testing"

	"github.com/gobeaver/krypto-kit/krypto"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		algorithm krypto.Algorithm
		want      string
		wantErr   bool
	}{
		{
			name:      "md5 empty",
			text:      "",
			algorithm: krypto.AlgorithmMD5,
			want:      "d41d8cd98f00b204e9800998ecf8427e",
		},
		{
			name:      "md5 hello world",
			text:      "hello world",
			algorithm: krypto.AlgorithmMD5,
			want:      "5eb63bbbe01eeed093cb22bb8f5acdc3",
		},
		{
			name:      "sha256 hello world",
			text:      "hello world",
			algorithm: krypto.AlgorithmSHA256,
			want:      "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
		{
			name:      "algorithm name is case insensitive",
			text:      "hello world",
			algorithm: "SHA256",
			want:      "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
		{
			name:      "unsupported algorithm",
			text:      "hello world",
			algorithm: "sha1",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := krypto.Digest(tt.text, tt.algorithm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Digest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, krypto.ErrInvalidArgument) {
					t.Errorf("Digest() error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Digest() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHashSHA256MatchesDigest(t *testing.T) {
	want, _ := krypto.Digest("payload", krypto.AlgorithmSHA256)
	if got := krypto.HashSHA256("payload"); got != want {
		t.Errorf("HashSHA256() = %s, want %s", got, want)
	}
}
