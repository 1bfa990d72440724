package krypto

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gobeaver/krypto-kit/config"
	"github.com/gobeaver/krypto-kit/workerpool"
)

// Config holds the externally supplied secrets and tuning knobs. Secrets
// have no defaults; a component whose secret is empty reports
// ErrConfiguration when it is requested.
type Config struct {
	// EncryptionKey is the 32-byte AES-256 key, hex or base64 encoded.
	EncryptionKey string `env:"KRYPTO_ENCRYPTION_KEY" validate:"omitempty,aeskey"`

	// HMACSecret signs message authentication tags.
	HMACSecret string `env:"KRYPTO_HMAC_SECRET"`

	// TokenSecret signs issued tokens.
	TokenSecret string `env:"KRYPTO_TOKEN_SECRET"`

	// TokenExpiry is the lifetime used when Issue is given none.
	TokenExpiry time.Duration `env:"KRYPTO_TOKEN_EXPIRY,default:1h" validate:"gt=0"`

	// BcryptCost is the password hashing work factor.
	BcryptCost int `env:"KRYPTO_BCRYPT_COST,default:10" validate:"min=4,max=31"`

	// Workers bounds concurrent password hashing and key generation.
	Workers int `env:"KRYPTO_WORKERS,default:4" validate:"min=1,max=256"`

	// envPrefix is the prefix GetConfig loaded with, used to name missing
	// variables in errors.
	envPrefix string
	loaded    bool
}

// GetConfig returns config loaded from environment
func GetConfig(opts ...config.LoadOptions) (*Config, error) {
	cfg := &Config{envPrefix: config.DefaultPrefix, loaded: true}
	if len(opts) > 0 {
		cfg.envPrefix = opts[0].Prefix
	}
	if err := config.Load(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return cfg, nil
}

// prefix returns the variable prefix used to load c. Configs not built by
// GetConfig assume the default.
func (c *Config) prefix() string {
	if !c.loaded {
		return config.DefaultPrefix
	}
	return c.envPrefix
}

// Validate checks field formats and ranges. It does not require secrets to
// be present.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("aeskey", func(fl validator.FieldLevel) bool {
		_, err := DecodeKey(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// Suite bundles the components built from one Config.
type Suite struct {
	cipher        Service
	authenticator *Authenticator
	tokens        *TokenIssuer
	vault         *PasswordVault
	pool          *workerpool.Pool
	logger        *slog.Logger
	envPrefix     string
}

// SuiteOption customises New.
type SuiteOption func(*suiteOptions)

type suiteOptions struct {
	logger *slog.Logger
	pool   *workerpool.Pool
	random *Random
	clock  func() time.Time
}

// WithLogger sets the logger for the suite and its worker pool.
func WithLogger(logger *slog.Logger) SuiteOption {
	return func(o *suiteOptions) {
		o.logger = logger
	}
}

// WithPool shares an existing worker pool instead of creating one.
func WithPool(pool *workerpool.Pool) SuiteOption {
	return func(o *suiteOptions) {
		o.pool = pool
	}
}

// WithSuiteRandom replaces the IV source of the suite's cipher.
func WithSuiteRandom(r *Random) SuiteOption {
	return func(o *suiteOptions) {
		o.random = r
	}
}

// WithSuiteClock replaces the token issuer's clock.
func WithSuiteClock(now func() time.Time) SuiteOption {
	return func(o *suiteOptions) {
		o.clock = now
	}
}

// New creates a Suite from cfg. Malformed values fail here; absent secrets
// fail later, when the component that needs them is requested.
func New(cfg Config, opts ...SuiteOption) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := suiteOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		random: defaultRandom,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Suite{logger: o.logger, pool: o.pool, envPrefix: cfg.prefix()}
	if s.pool == nil {
		s.pool = workerpool.New(cfg.Workers, workerpool.WithLogger(o.logger))
	}

	var err error
	if s.vault, err = NewPasswordVault(cfg.BcryptCost); err != nil {
		return nil, err
	}

	if cfg.EncryptionKey != "" {
		key, err := DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		if s.cipher, err = NewAESGCMService(key, WithRandom(o.random)); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("encryption key not configured; symmetric encryption disabled")
	}

	if cfg.HMACSecret != "" {
		if s.authenticator, err = NewAuthenticator(cfg.HMACSecret); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("HMAC secret not configured; message authentication disabled")
	}

	if cfg.TokenSecret != "" {
		s.tokens, err = NewTokenIssuer(cfg.TokenSecret, WithClock(o.clock), WithDefaultExpiry(cfg.TokenExpiry))
		if err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("token secret not configured; token issuance disabled")
	}

	return s, nil
}

// Cipher returns the symmetric cipher, or ErrConfiguration when no
// encryption key was supplied.
func (s *Suite) Cipher() (Service, error) {
	if s.cipher == nil {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfiguration, s.envPrefix+"KRYPTO_ENCRYPTION_KEY")
	}
	return s.cipher, nil
}

// Authenticator returns the HMAC authenticator, or ErrConfiguration when no
// secret was supplied.
func (s *Suite) Authenticator() (*Authenticator, error) {
	if s.authenticator == nil {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfiguration, s.envPrefix+"KRYPTO_HMAC_SECRET")
	}
	return s.authenticator, nil
}

// Tokens returns the token issuer, or ErrConfiguration when no secret was
// supplied.
func (s *Suite) Tokens() (*TokenIssuer, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfiguration, s.envPrefix+"KRYPTO_TOKEN_SECRET")
	}
	return s.tokens, nil
}

// Vault returns the password vault.
func (s *Suite) Vault() *PasswordVault {
	return s.vault
}

// Pool returns the worker pool used for expensive operations.
func (s *Suite) Pool() *workerpool.Pool {
	return s.pool
}

// HashPassword hashes password on the worker pool. If ctx ends first the
// hash is abandoned and ctx.Err() returned.
func (s *Suite) HashPassword(ctx context.Context, password string) (string, error) {
	return workerpool.Run(ctx, s.pool, func() (string, error) {
		return s.vault.Hash(password)
	})
}

// VerifyPassword checks password on the worker pool. A cancelled ctx
// reports false with ctx.Err().
func (s *Suite) VerifyPassword(ctx context.Context, password, hash string) (bool, error) {
	return workerpool.Run(ctx, s.pool, func() (bool, error) {
		return s.vault.Verify(password, hash), nil
	})
}

// GenerateKeyPair generates an RSA key pair on the worker pool.
func (s *Suite) GenerateKeyPair(ctx context.Context) (*KeyPair, error) {
	start := time.Now()
	kp, err := workerpool.Run(ctx, s.pool, GenerateRSAKeyPair)
	if err == nil {
		s.logger.Debug("generated RSA key pair", "bits", RSAKeyBits, "elapsed", time.Since(start))
	}
	return kp, err
}
