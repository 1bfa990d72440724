package urlsigner

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gobeaver/krypto-kit/krypto"
)

// Define standard errors for the package
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidURL    = errors.New("invalid URL")

	// ErrInvalidSignature is returned for every URL that does not verify:
	// missing or wrong signature, missing or passed expiry, tampered payload.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signer handles URL signing operations
type Signer struct {
	auth          *krypto.Authenticator
	defaultExpiry time.Duration
	queryParams   SignatureParams
	now           func() time.Time
}

// SignatureParams customizes how signature parameters appear in URLs
type SignatureParams struct {
	Signature string // query parameter name for signature
	Expires   string // query parameter name for expiration
	Payload   string // query parameter name for additional payload
}

// DefaultSignatureParams returns standard query parameter names
func DefaultSignatureParams() SignatureParams {
	return SignatureParams{
		Signature: "sig",
		Expires:   "expires",
		Payload:   "payload",
	}
}

// Option customises a Signer.
type Option func(*Signer)

// WithClock replaces time.Now for expiry stamping and checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// New creates a new instance with given config
func New(cfg Config, opts ...Option) (*Signer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	auth, err := krypto.NewAuthenticator(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := &Signer{
		auth:          auth,
		defaultExpiry: cfg.DefaultExpiry,
		queryParams:   cfg.params(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSigner creates a new URL signer with the given secret key and default options
func NewSigner(secretKey string, opts ...Option) (*Signer, error) {
	return New(Config{SecretKey: secretKey, DefaultExpiry: 30 * time.Minute}, opts...)
}

// SignURL signs a URL with an expiration time and optional payload. Any
// existing query parameters named like the signer's own are replaced.
func (s *Signer) SignURL(rawURL string, expiry time.Duration, payload string) (string, error) {
	parsedURL, err := parseAbsolute(rawURL)
	if err != nil {
		return "", err
	}

	if expiry <= 0 {
		expiry = s.defaultExpiry
	}
	// Round up so the URL stays valid for at least expiry.
	expiresAt := s.now().Add(expiry).Add(time.Second - 1).Truncate(time.Second).Unix()

	q := parsedURL.Query()
	q.Del(s.queryParams.Signature)
	q.Set(s.queryParams.Expires, strconv.FormatInt(expiresAt, 10))
	if payload != "" {
		q.Set(s.queryParams.Payload, base64.RawURLEncoding.EncodeToString([]byte(payload)))
	} else {
		q.Del(s.queryParams.Payload)
	}

	q.Set(s.queryParams.Signature, s.auth.Sign(canonical(parsedURL, q, s.queryParams.Signature)))
	parsedURL.RawQuery = q.Encode()

	return parsedURL.String(), nil
}

// SignURLWithDefaultExpiry signs a URL with the default expiration time
func (s *Signer) SignURLWithDefaultExpiry(rawURL string, payload string) (string, error) {
	return s.SignURL(rawURL, s.defaultExpiry, payload)
}

// VerifyURL checks that a signed URL carries a valid signature and has not
// expired, and returns its payload. All rejections are ErrInvalidSignature;
// only an unparsable URL is reported as ErrInvalidURL.
func (s *Signer) VerifyURL(signedURL string) (string, error) {
	parsedURL, err := parseAbsolute(signedURL)
	if err != nil {
		return "", err
	}

	q := parsedURL.Query()
	signature := q.Get(s.queryParams.Signature)
	if signature == "" || !s.auth.Verify(canonical(parsedURL, q, s.queryParams.Signature), signature) {
		return "", ErrInvalidSignature
	}

	expires, err := strconv.ParseInt(q.Get(s.queryParams.Expires), 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return "", ErrInvalidSignature
	}

	encodedPayload := q.Get(s.queryParams.Payload)
	if encodedPayload == "" {
		return "", nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return "", ErrInvalidSignature
	}
	return string(payload), nil
}

// GetExpirationTime returns the expiration time from a signed URL. The
// signature is not checked.
func (s *Signer) GetExpirationTime(signedURL string) (time.Time, error) {
	parsedURL, err := parseAbsolute(signedURL)
	if err != nil {
		return time.Time{}, err
	}

	expires, err := strconv.ParseInt(parsedURL.Query().Get(s.queryParams.Expires), 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidSignature
	}
	return time.Unix(expires, 0), nil
}

// RemainingValidity returns the remaining validity time of a signed URL,
// or zero once it has expired. The signature is not checked.
func (s *Signer) RemainingValidity(signedURL string) (time.Duration, error) {
	expirationTime, err := s.GetExpirationTime(signedURL)
	if err != nil {
		return 0, err
	}

	remaining := expirationTime.Sub(s.now())
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	return u, nil
}

// canonical is the signed form of u: scheme, host and path followed by the
// sorted query without the signature parameter. The fragment is never
// sent to servers and is not covered.
func canonical(u *url.URL, q url.Values, signatureParam string) string {
	unsigned := make(url.Values, len(q))
	for k, v := range q {
		if k != signatureParam {
			unsigned[k] = v
		}
	}
	c := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path, RawPath: u.RawPath, RawQuery: unsigned.Encode()}
	return c.String()
}
