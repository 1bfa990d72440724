package krypto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenExpiry is used when Issue is given a non-positive duration.
const DefaultTokenExpiry = time.Hour

// Token is a verified token.
type Token struct {
	Payload   map[string]any
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// TokenIssuer issues and verifies HS256-signed JWTs under one secret.
// Verification is stateless; there is no revocation list.
type TokenIssuer struct {
	secret        []byte
	now           func() time.Time
	defaultExpiry time.Duration
}

// TokenOption customises a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(i *TokenIssuer) {
		i.now = now
	}
}

// WithDefaultExpiry sets the lifetime used when Issue gets expiresIn <= 0.
func WithDefaultExpiry(d time.Duration) TokenOption {
	return func(i *TokenIssuer) {
		if d > 0 {
			i.defaultExpiry = d
		}
	}
}

// NewTokenIssuer returns an issuer bound to secret. An empty secret is a
// configuration error.
func NewTokenIssuer(secret string, opts ...TokenOption) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: token secret is empty", ErrConfiguration)
	}
	i := &TokenIssuer{
		secret:        []byte(secret),
		now:           time.Now,
		defaultExpiry: DefaultTokenExpiry,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs payload together with iat, exp and jti claims. The
// registered claims replace payload keys of the same name. A payload
// carrying "nbf" is rejected; the verifier enforces nbf on every token.
//
// exp is rounded up to the next whole second, so a token is valid for at
// least expiresIn.
func (i *TokenIssuer) Issue(payload map[string]any, expiresIn time.Duration) (string, error) {
	if _, ok := payload["nbf"]; ok {
		return "", fmt.Errorf("%w: payload must not set the nbf claim", ErrInvalidArgument)
	}
	if expiresIn <= 0 {
		expiresIn = i.defaultExpiry
	}

	now := i.now()
	claims := make(jwt.MapClaims, len(payload)+3)
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(ceilSecond(now.Add(expiresIn)))
	claims["jti"] = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: cannot sign payload: %v", ErrInvalidArgument, err)
	}
	return signed, nil
}

// ceilSecond rounds t up to a whole second, the precision of NumericDate.
func ceilSecond(t time.Time) time.Time {
	return t.Add(time.Second - 1).Truncate(time.Second)
}

// Verify checks the signature and expiry of token and returns its
// contents. Any rejection is reported as ErrTokenInvalid.
func (i *TokenIssuer) Verify(token string) (*Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrTokenInvalid
	}
	result := &Token{ExpiresAt: exp.Time, Payload: make(map[string]any, len(claims))}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if id, ok := claims["jti"].(string); ok {
		result.ID = id
	}
	for k, v := range claims {
		switch k {
		case "iat", "exp", "jti":
		default:
			result.Payload[k] = v
		}
	}
	return result, nil
}

// IssueToken signs payload with secret for expiresIn.
func IssueToken(payload map[string]any, secret string, expiresIn time.Duration) (string, error) {
	issuer, err := NewTokenIssuer(secret)
	if err != nil {
		return "", err
	}
	return issuer.Issue(payload, expiresIn)
}

// VerifyToken verifies token with secret. An empty secret returns
// ErrConfiguration; every other rejection is ErrTokenInvalid.
func VerifyToken(token, secret string) (*Token, error) {
	issuer, err := NewTokenIssuer(secret)
	if err != nil {
		return nil, err
	}
	return issuer.Verify(token)
}

var errBadExpiry = errors.New("invalid expiry")

// ParseExpiresIn parses a token lifetime. It accepts Go durations ("90s",
// "15m", "1h30m"), whole days ("7d") and bare seconds ("3600").
func ParseExpiresIn(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %w: empty", ErrInvalidArgument, errBadExpiry)
	}

	var d time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("%w: %w: %q", ErrInvalidArgument, errBadExpiry, s)
		}
		d = time.Duration(days) * 24 * time.Hour
	default:
		if secs, err := strconv.Atoi(s); err == nil {
			d = time.Duration(secs) * time.Second
			break
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %w: %q", ErrInvalidArgument, errBadExpiry, s)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %w: %q is not positive", ErrInvalidArgument, errBadExpiry, s)
	}
	return d, nil
}
