package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newAESCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aes",
		Short: "AES-256-GCM encryption with the configured key",
	}

	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh hex-encoded AES-256 key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := krypto.GenerateAESKey()
			if err != nil {
				return err
			}
			return printLine(cmd, key)
		},
	}

	encryptCmd := &cobra.Command{
		Use:   "encrypt [PLAINTEXT]",
		Short: "Encrypt PLAINTEXT or stdin and print the JSON envelope",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := a.cipher()
			if err != nil {
				return err
			}
			plaintext, err := input(cmd, args)
			if err != nil {
				return err
			}
			env, err := cipher.EncryptString(plaintext)
			if err != nil {
				return err
			}
			out, err := json.Marshal(env)
			if err != nil {
				return fmt.Errorf("encoding envelope: %w", err)
			}
			return printLine(cmd, string(out))
		},
	}

	decryptCmd := &cobra.Command{
		Use:   "decrypt [ENVELOPE]",
		Short: "Decrypt a JSON envelope given as argument or on stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := a.cipher()
			if err != nil {
				return err
			}
			raw, err := input(cmd, args)
			if err != nil {
				return err
			}
			var env krypto.Envelope
			if err := json.Unmarshal([]byte(raw), &env); err != nil {
				return krypto.ErrDecryption
			}
			plaintext, err := cipher.DecryptString(&env)
			if err != nil {
				return err
			}
			return printLine(cmd, plaintext)
		},
	}

	cmd.AddCommand(keygenCmd, encryptCmd, decryptCmd)
	return cmd
}

func (a *app) cipher() (krypto.Service, error) {
	suite, err := a.loadSuite()
	if err != nil {
		return nil, err
	}
	return suite.Cipher()
}
