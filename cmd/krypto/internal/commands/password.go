package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func newPasswordCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Adaptive password hashing",
	}

	hashCmd := &cobra.Command{
		Use:   "hash [PASSWORD]",
		Short: "Hash PASSWORD or stdin at the configured cost",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite()
			if err != nil {
				return err
			}
			password, err := input(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			hash, err := suite.HashPassword(ctx, password)
			if err != nil {
				return err
			}
			return printLine(cmd, hash)
		},
	}

	var hash string
	verifyCmd := &cobra.Command{
		Use:   "verify [PASSWORD]",
		Short: "Check PASSWORD or stdin against --hash",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := a.loadSuite()
			if err != nil {
				return err
			}
			password, err := input(cmd, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			ok, err := suite.VerifyPassword(ctx, password, hash)
			if err != nil {
				return err
			}
			if !ok {
				return errRejected
			}
			if suite.Vault().NeedsRehash(hash) {
				a.logger.Info("hash should be upgraded", "cost", suite.Vault().Cost())
			}
			return printLine(cmd, "valid")
		},
	}
	verifyCmd.Flags().StringVar(&hash, "hash", "", "stored bcrypt or Argon2id hash")
	_ = verifyCmd.MarkFlagRequired("hash")

	cmd.AddCommand(hashCmd, verifyCmd)
	return cmd
}
