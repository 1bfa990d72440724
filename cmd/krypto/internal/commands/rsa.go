package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newRSACommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsa",
		Short: "RSA-OAEP key generation and encryption",
	}

	var keyDir string
	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a 2048-bit key pair",
		Long: `Generate a 2048-bit RSA key pair. Without --key-dir the pair is printed
as JSON; with it, <uuid>-public.pem and <uuid>-private.pem are written there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			suite, err := a.loadSuite()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			kp, err := suite.GenerateKeyPair(ctx)
			if err != nil {
				return err
			}

			if keyDir == "" {
				out, err := json.Marshal(kp)
				if err != nil {
					return fmt.Errorf("encoding key pair: %w", err)
				}
				return printLine(cmd, string(out))
			}

			id := uuid.New()
			pubPath := filepath.Join(keyDir, fmt.Sprintf("%s-public.pem", id))
			privPath := filepath.Join(keyDir, fmt.Sprintf("%s-private.pem", id))
			if err := os.WriteFile(pubPath, []byte(kp.PublicKey), 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(privPath, []byte(kp.PrivateKey), 0o600); err != nil {
				return err
			}
			a.logger.Info("RSA key pair written", "public", pubPath, "private", privPath)
			return printLine(cmd, id.String())
		},
	}
	keygenCmd.Flags().StringVar(&keyDir, "key-dir", "", "directory to write PEM files to")

	var publicKey string
	encryptCmd := &cobra.Command{
		Use:   "encrypt [PLAINTEXT]",
		Short: "Encrypt up to 190 bytes and print base64 ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pem, err := os.ReadFile(filepath.Clean(publicKey))
			if err != nil {
				return err
			}
			plaintext, err := input(cmd, args)
			if err != nil {
				return err
			}
			ct, err := krypto.RSAEncrypt([]byte(plaintext), string(pem))
			if err != nil {
				return err
			}
			return printLine(cmd, ct)
		},
	}
	encryptCmd.Flags().StringVar(&publicKey, "public-key", "", "path to a PEM public key")
	_ = encryptCmd.MarkFlagRequired("public-key")

	var privateKey string
	decryptCmd := &cobra.Command{
		Use:   "decrypt [CIPHERTEXT]",
		Short: "Decrypt base64 ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pem, err := os.ReadFile(filepath.Clean(privateKey))
			if err != nil {
				return err
			}
			ct, err := input(cmd, args)
			if err != nil {
				return err
			}
			pt, err := krypto.RSADecrypt(ct, string(pem))
			if err != nil {
				return err
			}
			return printLine(cmd, string(pt))
		},
	}
	decryptCmd.Flags().StringVar(&privateKey, "private-key", "", "path to a PEM private key")
	_ = decryptCmd.MarkFlagRequired("private-key")

	cmd.AddCommand(keygenCmd, encryptCmd, decryptCmd)
	return cmd
}
