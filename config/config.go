package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPrefix is prepended to every variable name unless LoadOptions
// says otherwise.
const DefaultPrefix = "BEAVER_"

// ErrRequired is returned when a field tagged required resolves to an
// empty value.
var ErrRequired = errors.New("required configuration value missing")

// LoadOptions defines options for loading configuration from environment variables.
type LoadOptions struct {
	Prefix string    // Prefix to prepend to environment variable names (default: "BEAVER_")
	Debug  bool      // Print each resolved variable, with secrets masked
	Output io.Writer // Destination for debug output (default: os.Stderr)
}

// Load populates a struct from .env file and environment variables using reflection.
// This function loads a .env file from the current directory when one exists
// and then reads environment variables to populate the provided struct.
// Variables already present in the environment are never overwritten by .env.
//
// The function uses struct field tags to determine environment variable names:
//   - `env:"VAR_NAME"`: Maps the field to the specified environment variable
//   - `env:"VAR_NAME,default:value"`: Provides a default value if env var is not set
//   - `env:"VAR_NAME,required"`: Fails with ErrRequired if the value is empty
//
// Example:
//
//	type Config struct {
//	    SigningSecret string        `env:"SIGNING_SECRET,required"`
//	    TokenExpiry   time.Duration `env:"TOKEN_EXPIRY,default:1h"`
//	}
//
//	var cfg Config
//	err := config.Load(&cfg, config.LoadOptions{Prefix: "MYAPP_"})
//	// Will look for MYAPP_SIGNING_SECRET and MYAPP_TOKEN_EXPIRY
func Load(cfg interface{}, opts ...LoadOptions) error {
	options := LoadOptions{Prefix: DefaultPrefix}
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Output == nil {
		options.Output = os.Stderr
	}

	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: Load expects a non-nil pointer to a struct, got %T", cfg)
	}

	// Silently try to load .env file, ignore if not found
	_ = godotenv.Load()

	v := rv.Elem()
	t := v.Type()
	printDebug := options.Debug || os.Getenv(DefaultPrefix+"CONFIG_DEBUG") == "true"

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" || !field.IsExported() {
			continue
		}

		name, defaultValue, required := parseTag(envTag)

		// Apply prefix to environment variable name
		fullEnvName := options.Prefix + name
		value := os.Getenv(fullEnvName)
		if value == "" {
			value = defaultValue
		}
		if printDebug {
			fmt.Fprintf(options.Output, "[BEAVER] %s=%s\n", fullEnvName, mask(name, value))
		}

		if value == "" {
			if required {
				return fmt.Errorf("%w: %s", ErrRequired, fullEnvName)
			}
			continue
		}
		if err := setFieldValue(v.Field(i), value); err != nil {
			return fmt.Errorf("config: %s: %w", fullEnvName, err)
		}
	}

	return nil
}

func parseTag(tag string) (name, defaultValue string, required bool) {
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, part := range parts[1:] {
		switch {
		case strings.HasPrefix(part, "default:"):
			defaultValue = strings.TrimPrefix(part, "default:")
		case part == "required":
			required = true
		}
	}
	return name, defaultValue, required
}

var secretMarkers = []string{"SECRET", "KEY", "PASSWORD", "TOKEN"}

// mask hides values of variables that look like secrets.
func mask(name, value string) string {
	if value == "" {
		return value
	}
	upper := strings.ToUpper(name)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) && !strings.HasSuffix(upper, "_EXPIRY") {
			return "****"
		}
	}
	return value
}

// setFieldValue sets the value of a struct field using reflection and type conversion.
//
// Supported types:
//   - string: Direct assignment
//   - int kinds: Parsed using strconv.ParseInt with base 10
//   - uint kinds: Parsed using strconv.ParseUint with base 10
//   - bool: Parsed using strconv.ParseBool (supports "true", "false", "1", "0", etc.)
//   - time.Duration: Parsed using time.ParseDuration
//
// Unsupported kinds are skipped silently.
func setFieldValue(field reflect.Value, value string) error {
	// Check for time.Duration first
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	}
	return nil
}
