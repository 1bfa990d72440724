package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

// tokenView is the JSON printed by "token verify".
type tokenView struct {
	Payload   map[string]any `json:"payload"`
	IssuedAt  time.Time      `json:"issuedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
	ID        string         `json:"id"`
}

func newTokenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Signed expiring tokens with the configured secret",
	}

	var claims, expiresIn string
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token carrying --claims",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			issuer, err := a.tokens()
			if err != nil {
				return err
			}

			var payload map[string]any
			if err := json.Unmarshal([]byte(claims), &payload); err != nil {
				return fmt.Errorf("%w: claims must be a JSON object: %v", krypto.ErrInvalidArgument, err)
			}

			var ttl time.Duration
			if expiresIn != "" {
				if ttl, err = krypto.ParseExpiresIn(expiresIn); err != nil {
					return err
				}
			}

			token, err := issuer.Issue(payload, ttl)
			if err != nil {
				return err
			}
			return printLine(cmd, token)
		},
	}
	issueCmd.Flags().StringVar(&claims, "claims", "{}", "payload as a JSON object")
	issueCmd.Flags().StringVar(&expiresIn, "expires-in", "", `lifetime such as "15m", "7d" or "3600"; defaults to BEAVER_KRYPTO_TOKEN_EXPIRY`)

	verifyCmd := &cobra.Command{
		Use:   "verify [TOKEN]",
		Short: "Verify TOKEN or stdin and print its contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := a.tokens()
			if err != nil {
				return err
			}
			raw, err := input(cmd, args)
			if err != nil {
				return err
			}
			tok, err := issuer.Verify(raw)
			if err != nil {
				return err
			}
			out, err := json.Marshal(tokenView{
				Payload:   tok.Payload,
				IssuedAt:  tok.IssuedAt.UTC(),
				ExpiresAt: tok.ExpiresAt.UTC(),
				ID:        tok.ID,
			})
			if err != nil {
				return fmt.Errorf("encoding token: %w", err)
			}
			return printLine(cmd, string(out))
		},
	}

	cmd.AddCommand(issueCmd, verifyCmd)
	return cmd
}

func (a *app) tokens() (*krypto.TokenIssuer, error) {
	suite, err := a.loadSuite()
	if err != nil {
		return nil, err
	}
	return suite.Tokens()
}
