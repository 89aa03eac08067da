// Package main is the slidegen command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/ai-slides/internal/client"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

var (
	apiURL   string
	logLevel string
	outDir   string
	jsonOut  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗")+" "+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slidegen",
		Short:         "Generate, preview and edit slide decks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("SLIDES_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "Base URL of the slides API")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for diagnostics on stderr")
	root.PersistentFlags().StringVarP(&outDir, "out", "o", ".", "Directory presentation files are written to")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON instead of text")

	root.AddCommand(
		newGenerateCmd(),
		newHistoryCmd(),
		newEditCmd(),
		newExportCmd(),
		newUploadCmd(),
	)
	return root
}

// isTTY reports whether stdout is an interactive terminal.
func isTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newClient() (*client.Client, *logger.Logger, error) {
	log, err := logger.NewCLI(logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !isTTY() {
		color.NoColor = true
	}
	return client.New(apiURL, client.WithLogger(log)), log, nil
}
