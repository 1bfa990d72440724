package commands

import (
	"github.com/spf13/cobra"

	"github.com/gobeaver/krypto-kit/krypto"
)

func newDigestCommand() *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "digest [TEXT]",
		Short: "Print the hex digest of TEXT or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}
			sum, err := krypto.Digest(text, krypto.Algorithm(algorithm))
			if err != nil {
				return err
			}
			return printLine(cmd, sum)
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(krypto.AlgorithmSHA256), "md5 or sha256")
	return cmd
}
