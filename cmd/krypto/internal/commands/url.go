package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newURLCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Expiring signed URLs",
	}

	var payload string
	var expiry string
	signCmd := &cobra.Command{
		Use:   "sign URL",
		Short: "Sign URL and print it with expiry and signature parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.urlSigner()
			if err != nil {
				return err
			}
			var ttl time.Duration
			if expiry != "" {
				if ttl, err = krypto.ParseExpiresIn(expiry); err != nil {
					return err
				}
			}
			signed, err := signer.SignURL(args[0], ttl, payload)
			if err != nil {
				return err
			}
			return printLine(cmd, signed)
		},
	}
	signCmd.Flags().StringVar(&payload, "payload", "", "opaque payload carried in the URL")
	signCmd.Flags().StringVar(&expiry, "expires-in", "", "lifetime; defaults to BEAVER_URLSIGNER_DEFAULT_EXPIRY")

	verifyCmd := &cobra.Command{
		Use:   "verify URL",
		Short: "Verify a signed URL and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.urlSigner()
			if err != nil {
				return err
			}
			payload, err := signer.VerifyURL(args[0])
			if err != nil {
				return err
			}
			return printLine(cmd, payload)
		},
	}

	cmd.AddCommand(signCmd, verifyCmd)
	return cmd
}
