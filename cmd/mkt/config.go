package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit .mktconfig.yaml",
	Long: `Manage the user configuration in <dir>/.mktconfig.yaml.

Keys:
  store                sqlite or file (default file)
  default_backend_url  fallback backend before one is saved
  timeout              per-request timeout, e.g. 15s
  rate_limit           requests per second, 0 for no limit
  log_level            debug, info, warn or error
  prompt_for_backend   ask for a backend URL on first use

A .env file next to it is loaded into the environment; MKT_BACKEND_URL and
MKT_LOG_LEVEL override the file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the configuration in $EDITOR",
	Long: `Open .mktconfig.yaml in $VISUAL or $EDITOR. The file is validated before
it is saved; an invalid edit can be reopened or discarded.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

// newEditor is replaced in tests.
var newEditor = cli.NewEditor

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	dir, err := stateDir()
	if err != nil {
		return err
	}
	cfg, err := storage.LoadConfig(dir)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Printf("# %s\n", storage.ConfigPath(dir))
	fmt.Print(string(data))
	fmt.Printf("# fallback backend: %s\n", cfg.FallbackBackendURL(DefaultBackendURL))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	dir, err := stateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := storage.ConfigPath(dir)

	original, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		original, err = yaml.Marshal(storage.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	prompt := cli.NewPrompter(stdin, stderr)
	edited, err := newEditor().EditValid(original, ".yaml",
		func(b []byte) error {
			_, err := storage.ParseConfig(b)
			return err
		},
		func(err error) bool {
			fmt.Fprintln(stderr, cli.FormatError(err))
			return prompt.Confirm("Edit again?")
		})
	if err != nil {
		return err
	}

	if bytes.Equal(edited, original) {
		fmt.Println("No changes.")
		return nil
	}
	if err := os.WriteFile(path, edited, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}
