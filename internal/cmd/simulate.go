package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/d0wlet/sentinel/internal/simulator"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [path]",
	Short: "Write synthetic log traffic to a file",
	Long: `Generate a high-rate synthetic log stream: mostly healthy lines with
periodic panics and structured JSON errors. Useful for demoing the
monitor or load-testing rules.

Example:
  sentinel simulate test.log    # in one terminal
  sentinel watch test.log       # in another`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "🛡 Sentinel generating synthetic logs into %s (Ctrl-C to stop)\n", args[0])

	return simulator.New(args[0]).Run(ctx)
}
