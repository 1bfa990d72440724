// Command krypto exposes the kit's security primitives on the command line.
// Secrets are read from BEAVER_KRYPTO_* and BEAVER_URLSIGNER_* environment
// variables or a .env file in the working directory, never from flags.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gobeaver/krypto-kit/cmd/krypto/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
