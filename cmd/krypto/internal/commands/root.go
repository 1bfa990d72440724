// Package commands implements the krypto CLI.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
	"github.com/gobeaver/krypto-kit/urlsigner"
)

// errRejected is returned by verify commands whose input did not verify, so
// the process exits non-zero.
var errRejected = errors.New("verification failed")

// app carries state shared by every subcommand of one invocation.
type app struct {
	logLevel string
	logFile  string
	timeout  time.Duration

	logger *slog.Logger
	closer io.Closer
	suite  *krypto.Suite
}

// NewRootCommand builds the krypto command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "krypto",
		Short: "Security primitives on the command line",
		Long: `krypto generates random values, digests, ciphertexts, MACs, password
hashes, tokens and signed URLs.

Secrets are taken from the environment (or .env):
- BEAVER_KRYPTO_ENCRYPTION_KEY  hex AES-256 key for "aes encrypt|decrypt"
- BEAVER_KRYPTO_HMAC_SECRET     for "hmac sign|verify"
- BEAVER_KRYPTO_TOKEN_SECRET    for "token issue|verify"
- BEAVER_URLSIGNER_SECRET_KEY   for "url sign|verify"
Commands whose secret is missing fail with a configuration error.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, closer, err := newLogger(a.logLevel, a.logFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger, a.closer = logger, closer
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFile, "log-file", "", "write JSON logs to this rotating file instead of stderr")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "deadline for pooled operations (password hashing, key generation)")

	root.AddCommand(
		newRandomCommand(a),
		newDigestCommand(),
		newAESCommand(a),
		newRSACommand(a),
		newHMACCommand(a),
		newPasswordCommand(a),
		newTokenCommand(a),
		newURLCommand(a),
	)
	return root
}

// loadSuite reads the configuration once per invocation.
func (a *app) loadSuite() (*krypto.Suite, error) {
	if a.suite != nil {
		return a.suite, nil
	}
	cfg, err := krypto.GetConfig()
	if err != nil {
		return nil, err
	}
	suite, err := krypto.New(*cfg, krypto.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.suite = suite
	return suite, nil
}

func (a *app) urlSigner() (*urlsigner.Signer, error) {
	cfg, err := urlsigner.GetConfig()
	if err != nil {
		return nil, err
	}
	return urlsigner.New(*cfg)
}

// input returns the first positional argument, or all of stdin when there
// is none or it is "-". A single trailing newline from stdin is dropped.
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	s := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func printLine(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}
