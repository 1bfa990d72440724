package commands

import (
	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newHMACCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hmac",
		Short: "HMAC-SHA256 with the configured secret",
	}

	signCmd := &cobra.Command{
		Use:   "sign [MESSAGE]",
		Short: "Print the hex MAC of MESSAGE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			msg, err := input(cmd, args)
			if err != nil {
				return err
			}
			return printLine(cmd, auth.Sign(msg))
		},
	}

	var signature string
	verifyCmd := &cobra.Command{
		Use:   "verify [MESSAGE]",
		Short: "Check --signature against MESSAGE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			msg, err := input(cmd, args)
			if err != nil {
				return err
			}
			if !auth.Verify(msg, signature) {
				return errRejected
			}
			return printLine(cmd, "valid")
		},
	}
	verifyCmd.Flags().StringVar(&signature, "signature", "", "hex signature to check")
	_ = verifyCmd.MarkFlagRequired("signature")

	cmd.AddCommand(signCmd, verifyCmd)
	return cmd
}

func (a *app) authenticator() (*krypto.Authenticator, error) {
	suite, err := a.loadSuite()
	if err != nil {
		return nil, err
	}
	return suite.Authenticator()
}
