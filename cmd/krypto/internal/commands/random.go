package commands

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newRandomCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate secure random values",
	}

	var encoding string
	bytesCmd := &cobra.Command{
		Use:   "bytes N",
		Short: "Print N random bytes, hex or base64 encoded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("byte count: %w", err)
			}
			b, err := krypto.RandomBytes(n)
			if err != nil {
				return err
			}
			switch encoding {
			case "hex":
				return printLine(cmd, hex.EncodeToString(b))
			case "base64":
				return printLine(cmd, base64.StdEncoding.EncodeToString(b))
			default:
				return fmt.Errorf("unknown encoding %q", encoding)
			}
		},
	}
	bytesCmd.Flags().StringVar(&encoding, "encoding", "hex", "output encoding: hex or base64")

	hexCmd := &cobra.Command{
		Use:   "hex N",
		Short: "Print N random bytes as 2N hex characters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("byte count: %w", err)
			}
			s, err := krypto.RandomHex(n)
			if err != nil {
				return err
			}
			return printLine(cmd, s)
		},
	}

	var cosmetic bool
	digitsCmd := &cobra.Command{
		Use:   "digits LENGTH",
		Short: "Print a numeric code of LENGTH digits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("length: %w", err)
			}
			if cosmetic {
				a.logger.Warn("cosmetic digits are predictable; do not use them as access codes")
				return printLine(cmd, krypto.CosmeticDigits(n))
			}
			s, err := krypto.RandomDigits(n)
			if err != nil {
				return err
			}
			return printLine(cmd, s)
		},
	}
	digitsCmd.Flags().BoolVar(&cosmetic, "cosmetic", false, "use the fast non-secure generator")

	rangeCmd := &cobra.Command{
		Use:   "range MIN MAX",
		Short: "Print a uniform integer in [MIN, MAX)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("min: %w", err)
			}
			hi, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("max: %w", err)
			}
			n, err := krypto.RandomInRange(lo, hi)
			if err != nil {
				return err
			}
			return printLine(cmd, strconv.FormatInt(n, 10))
		},
	}

	cmd.AddCommand(bytesCmd, hexCmd, digitsCmd, rangeCmd)
	return cmd
}
