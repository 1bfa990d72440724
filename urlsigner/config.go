package urlsigner

import (
	"fmt"
	"time"

	"github.com/gobeaver/krypto-kit/config"
)

// Config defines the configuration for URL signer
type Config struct {
	// SecretKey is the HMAC secret key for signing URLs
	SecretKey string `env:"URLSIGNER_SECRET_KEY,required"`

	// DefaultExpiry is the default expiration duration for signed URLs
	DefaultExpiry time.Duration `env:"URLSIGNER_DEFAULT_EXPIRY,default:30m"`

	// SignatureParam is the query parameter name for signature
	SignatureParam string `env:"URLSIGNER_SIGNATURE_PARAM,default:sig"`

	// ExpiresParam is the query parameter name for expiration
	ExpiresParam string `env:"URLSIGNER_EXPIRES_PARAM,default:expires"`

	// PayloadParam is the query parameter name for payload
	PayloadParam string `env:"URLSIGNER_PAYLOAD_PARAM,default:payload"`
}

// GetConfig returns config loaded from environment
func GetConfig(opts ...config.LoadOptions) (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg Config) error {
	if cfg.SecretKey == "" {
		return fmt.Errorf("secret key required")
	}

	if cfg.DefaultExpiry <= 0 {
		return fmt.Errorf("default expiry must be positive")
	}

	params := cfg.params()
	if params.Signature == params.Expires || params.Signature == params.Payload || params.Expires == params.Payload {
		return fmt.Errorf("query parameter names must be distinct: %q, %q, %q",
			params.Signature, params.Expires, params.Payload)
	}

	return nil
}

// params fills unset parameter names with their defaults.
func (c Config) params() SignatureParams {
	p := DefaultSignatureParams()
	if c.SignatureParam != "" {
		p.Signature = c.SignatureParam
	}
	if c.ExpiresParam != "" {
		p.Expires = c.ExpiresParam
	}
	if c.PayloadParam != "" {
		p.Payload = c.PayloadParam
	}
	return p
}
