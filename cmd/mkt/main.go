// Package main is the entry point for the mkt CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jacksmith/mkt/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// DefaultBackendURL is the backend used until one is saved. Override at build
// time with -ldflags "-X main.DefaultBackendURL=https://api.example.com".
var DefaultBackendURL = "http://localhost:3000"

// Global flags
var (
	flagDir      string
	flagNoPrompt bool
	flagNoColor  bool
	flagVerbose  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mkt",
	Short: "mkt - marketplace dashboard client for suppliers and clients",
	Long: `mkt is a command-line client for the marketplace backend.

It keeps a configurable backend URL and your sign-in session on this machine
and uses them to browse products, services, orders, customers, collections,
inventory, taxes, checkout settings and your supplier profile.

Relative image paths in backend responses are shown as full URLs against the
current backend.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			cli.SetColorEnabled(false)
		}
	},
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "state directory (default $MKT_HOME or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagNoPrompt, "no-prompt", false, "never prompt for a backend URL")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("mkt version {{.Version}}\n")
}
