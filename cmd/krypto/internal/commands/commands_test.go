package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gobeaver/krypto-kit/krypto"
	"github.com/gobeaver/krypto-kit/urlsigner"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(stdout.String()), err
}

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("BEAVER_KRYPTO_ENCRYPTION_KEY", strings.Repeat("61", 32))
	t.Setenv("BEAVER_KRYPTO_HMAC_SECRET", "cli-hmac-secret")
	t.Setenv("BEAVER_KRYPTO_TOKEN_SECRET", "cli-token-secret")
	t.Setenv("BEAVER_KRYPTO_BCRYPT_COST", "4")
	t.Setenv("BEAVER_URLSIGNER_SECRET_KEY", "cli-url-secret")
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"BEAVER_KRYPTO_ENCRYPTION_KEY",
		"BEAVER_KRYPTO_HMAC_SECRET",
		"BEAVER_KRYPTO_TOKEN_SECRET",
		"BEAVER_URLSIGNER_SECRET_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestRandomCommands(t *testing.T) {
	out, err := execute(t, "", "random", "hex", "16")
	if err != nil || len(out) != 32 {
		t.Errorf("random hex 16 = %q, %v", out, err)
	}

	out, err = execute(t, "", "random", "bytes", "12", "--encoding", "base64")
	if err != nil || len(out) != 16 {
		t.Errorf("random bytes 12 --encoding base64 = %q, %v", out, err)
	}

	out, err = execute(t, "", "random", "digits", "6")
	if err != nil || len(out) != 6 || strings.Trim(out, "0123456789") != "" {
		t.Errorf("random digits 6 = %q, %v", out, err)
	}

	out, err = execute(t, "", "random", "digits", "6", "--cosmetic")
	if err != nil || len(out) != 6 {
		t.Errorf("random digits 6 --cosmetic = %q, %v", out, err)
	}

	out, err = execute(t, "", "random", "range", "10", "20")
	if err != nil {
		t.Fatalf("random range error = %v", err)
	}
	if n, _ := strconv.Atoi(out); n < 10 || n >= 20 {
		t.Errorf("random range 10 20 = %q", out)
	}

	if _, err := execute(t, "", "random", "range", "5", "5"); !errors.Is(err, krypto.ErrInvalidArgument) {
		t.Errorf("random range 5 5 error = %v, want ErrInvalidArgument", err)
	}
}

func TestDigestCommand(t *testing.T) {
	out, err := execute(t, "", "digest", "test")
	if err != nil {
		t.Fatalf("digest error = %v", err)
	}
	if out != "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08" {
		t.Errorf("digest test = %s", out)
	}

	out, err = execute(t, "test\n", "digest", "-a", "md5")
	if err != nil || out != "098f6bcd4621d373cade4e832627b4f6" {
		t.Errorf("digest -a md5 from stdin = %q, %v", out, err)
	}
}

func TestAESCommands(t *testing.T) {
	setSecrets(t)

	key, err := execute(t, "", "aes", "keygen")
	if err != nil || len(key) != 64 {
		t.Fatalf("aes keygen = %q, %v", key, err)
	}

	envelope, err := execute(t, "", "aes", "encrypt", "top secret")
	if err != nil {
		t.Fatalf("aes encrypt error = %v", err)
	}
	var env krypto.Envelope
	if err := json.Unmarshal([]byte(envelope), &env); err != nil || env.IV == "" || env.AuthTag == "" {
		t.Fatalf("aes encrypt output %q is not an envelope: %v", envelope, err)
	}

	out, err := execute(t, envelope, "aes", "decrypt")
	if err != nil || out != "top secret" {
		t.Errorf("aes decrypt = %q, %v", out, err)
	}

	if _, err := execute(t, "", "aes", "decrypt", `{"iv":"00","content":"","authTag":""}`); !errors.Is(err, krypto.ErrDecryption) {
		t.Errorf("aes decrypt bad envelope error = %v, want ErrDecryption", err)
	}
}

func TestAESCommandWithoutKey(t *testing.T) {
	clearSecrets(t)
	_, err := execute(t, "", "aes", "encrypt", "x")
	if !errors.Is(err, krypto.ErrConfiguration) {
		t.Fatalf("aes encrypt without key error = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), "BEAVER_KRYPTO_ENCRYPTION_KEY") {
		t.Errorf("error %q does not name the missing variable", err)
	}
}

func TestRSACommands(t *testing.T) {
	if testing.Short() {
		t.Skip("generates an RSA key")
	}
	setSecrets(t)
	dir := t.TempDir()

	id, err := execute(t, "", "rsa", "keygen", "--key-dir", dir)
	if err != nil {
		t.Fatalf("rsa keygen error = %v", err)
	}
	pub := filepath.Join(dir, id+"-public.pem")
	priv := filepath.Join(dir, id+"-private.pem")
	info, err := os.Stat(priv)
	if err != nil {
		t.Fatalf("private key not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("private key mode = %v, want 0600", info.Mode().Perm())
	}

	ct, err := execute(t, "", "rsa", "encrypt", "--public-key", pub, "short secret")
	if err != nil {
		t.Fatalf("rsa encrypt error = %v", err)
	}
	out, err := execute(t, ct, "rsa", "decrypt", "--private-key", priv)
	if err != nil || out != "short secret" {
		t.Errorf("rsa decrypt = %q, %v", out, err)
	}

	_, err = execute(t, strings.Repeat("x", 191), "rsa", "encrypt", "--public-key", pub)
	if !errors.Is(err, krypto.ErrPlaintextTooLarge) {
		t.Errorf("rsa encrypt 191 bytes error = %v, want ErrPlaintextTooLarge", err)
	}
}

func TestHMACCommands(t *testing.T) {
	setSecrets(t)

	sig, err := execute(t, "", "hmac", "sign", "message")
	if err != nil || len(sig) != 64 {
		t.Fatalf("hmac sign = %q, %v", sig, err)
	}
	if !krypto.VerifyHMAC("message", sig, "cli-hmac-secret") {
		t.Error("hmac sign did not use the configured secret")
	}

	if out, err := execute(t, "", "hmac", "verify", "--signature", sig, "message"); err != nil || out != "valid" {
		t.Errorf("hmac verify = %q, %v", out, err)
	}
	if _, err := execute(t, "", "hmac", "verify", "--signature", sig, "other"); !errors.Is(err, errRejected) {
		t.Errorf("hmac verify wrong message error = %v, want errRejected", err)
	}
}

func TestPasswordCommands(t *testing.T) {
	setSecrets(t)

	hash, err := execute(t, "secret123\n", "password", "hash")
	if err != nil || !strings.HasPrefix(hash, "$2a$04$") {
		t.Fatalf("password hash = %q, %v", hash, err)
	}
	if out, err := execute(t, "", "password", "verify", "--hash", hash, "secret123"); err != nil || out != "valid" {
		t.Errorf("password verify = %q, %v", out, err)
	}
	if _, err := execute(t, "", "password", "verify", "--hash", hash, "wrong"); !errors.Is(err, errRejected) {
		t.Errorf("password verify wrong error = %v, want errRejected", err)
	}
}

func TestTokenCommands(t *testing.T) {
	setSecrets(t)

	token, err := execute(t, "", "token", "issue", "--claims", `{"sub":"user-9"}`, "--expires-in", "15m")
	if err != nil {
		t.Fatalf("token issue error = %v", err)
	}

	out, err := execute(t, token, "token", "verify")
	if err != nil {
		t.Fatalf("token verify error = %v", err)
	}
	var view tokenView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("token verify output %q: %v", out, err)
	}
	if view.Payload["sub"] != "user-9" || view.ID == "" {
		t.Errorf("token verify = %+v", view)
	}

	if _, err := execute(t, "", "token", "verify", token+"x"); !errors.Is(err, krypto.ErrTokenInvalid) {
		t.Errorf("token verify tampered error = %v, want ErrTokenInvalid", err)
	}
	if _, err := execute(t, "", "token", "issue", "--claims", "[1,2]"); !errors.Is(err, krypto.ErrInvalidArgument) {
		t.Errorf("token issue with array claims error = %v, want ErrInvalidArgument", err)
	}
	if _, err := execute(t, "", "token", "issue", "--expires-in", "never"); !errors.Is(err, krypto.ErrInvalidArgument) {
		t.Errorf("token issue bad expiry error = %v, want ErrInvalidArgument", err)
	}
}

func TestURLCommands(t *testing.T) {
	setSecrets(t)

	signed, err := execute(t, "", "url", "sign", "--payload", "file=7", "--expires-in", "5m", "https://example.com/download")
	if err != nil {
		t.Fatalf("url sign error = %v", err)
	}
	if out, err := execute(t, "", "url", "verify", signed); err != nil || out != "file=7" {
		t.Errorf("url verify = %q, %v", out, err)
	}
	if _, err := execute(t, "", "url", "verify", signed+"&x=1"); !errors.Is(err, urlsigner.ErrInvalidSignature) {
		t.Errorf("url verify tampered error = %v, want ErrInvalidSignature", err)
	}
}

func TestLogFile(t *testing.T) {
	clearSecrets(t)
	path := filepath.Join(t.TempDir(), "krypto.log")

	if _, err := execute(t, "", "--log-file", path, "--log-level", "debug", "random", "digits", "4", "--cosmetic"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.SplitN(raw, []byte("\n"), 2)[0], &entry); err != nil {
		t.Fatalf("log line is not JSON: %s", raw)
	}
	if entry["level"] != "WARN" {
		t.Errorf("log entry = %v", entry)
	}

	if _, err := execute(t, "", "--log-level", "loud", "random", "hex", "1"); err == nil {
		t.Error("unknown log level accepted")
	}
}
