// Package cli contains all the command-line interface logic for the demo
// application, powered by the cobra library. It defines the root command,
// subcommands, and their respective flags.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point and parent for all other commands.
var rootCmd = &cobra.Command{
	Use:   "fluxion-demo",
	Short: "Runs small example pipelines built on the fluxion streaming library.",
	Long: `Runs small example pipelines built on the fluxion streaming library.
This CLI provides subcommands that wire together fluxion operators over
synthetic data and report per-stage timing.`,
}

// Execute is the primary entry point for the CLI application, called by main.go.
//
// It sets up a single, root cancellable context and wires it up to respond
// to OS interruption signals (like Ctrl+C or SIGTERM). This context is then passed down
// to all cobra commands, enabling graceful shutdown across the entire application.
func Execute() error {
	// Create a root context that can be canceled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel() // Ensure cancel is called on exit to clean up context resources.

	// Set up a channel to listen for specific OS signals.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	// Unregister the signal handler on exit. This is good hygiene and
	// prevents resource leaks in more complex application lifecycles.
	defer signal.Stop(signals)

	// Launch a goroutine to cancel the context upon receiving a signal.
	go func() {
		<-signals
		cancel()
	}()

	// Execute the root command with the cancellable context.
	return rootCmd.ExecuteContext(ctx)
}
