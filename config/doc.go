// Package config loads configuration structs from environment variables,
// following the twelve-factor approach used across the kit.
//
// # Basic Usage
//
// Define a configuration struct with environment variable tags:
//
//	type Config struct {
//	    EncryptionKey string        `env:"KRYPTO_ENCRYPTION_KEY,required"`
//	    BcryptCost    int           `env:"KRYPTO_BCRYPT_COST,default:10"`
//	    TokenExpiry   time.Duration `env:"KRYPTO_TOKEN_EXPIRY,default:1h"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Names are prefixed with BEAVER_ by default, so the example reads
// BEAVER_KRYPTO_ENCRYPTION_KEY. Use LoadOptions to change it:
//
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "MYAPP_"})
//
// # Supported Types
//
//   - string
//   - signed and unsigned integer kinds
//   - bool ("true", "false", "1", "0")
//   - time.Duration ("1h30m", "45s")
//
// # Environment File Support
//
// A .env file in the working directory is loaded with github.com/joho/godotenv
// before variables are read. Variables already set in the process environment
// take precedence over the file.
//
// # Debug Mode
//
// BEAVER_CONFIG_DEBUG=true, or LoadOptions.Debug, prints every resolved
// variable. Values of names containing SECRET, KEY, PASSWORD or TOKEN are
// printed as ****.
//
// # Secrets
//
// Secrets are never given defaults. Mark them required, or check them where
// they are used, so a missing value fails loudly instead of falling back to
// an empty or guessable string.
package config
