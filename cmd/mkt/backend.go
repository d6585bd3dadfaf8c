package main

import (
	"fmt"

	"github.com/jacksmith/mkt/internal/cli"
	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Show the backend URL",
	Long: `Show the backend URL requests are sent to and where it came from.

"persisted" means it was saved with "mkt backend set"; "default" means the
fallback is in use ($MKT_BACKEND_URL, default_backend_url in .mktconfig.yaml,
or the built-in URL).`,
	Args: cobra.NoArgs,
	RunE: runBackend,
}

var backendSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Save a new backend URL",
	Long: `Save a new backend URL. It is used immediately and survives restarts.

The URL is trimmed but otherwise stored as given; a wrong URL shows up as
"unable to load" errors on the next request.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackendSet,
}

var backendWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the backend URL whenever it changes",
	Long: `Print the backend URL, then print it again each time another mkt process
saves a new one. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runBackendWatch,
}

func init() {
	backendCmd.AddCommand(backendSetCmd)
	backendCmd.AddCommand(backendWatchCmd)
	rootCmd.AddCommand(backendCmd)
}

func runBackend(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("%s %s\n", a.backend.Get(), cli.Gray("("+string(a.backend.Source())+")"))
	return nil
}

func runBackendSet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.backend.Set(args[0]); err != nil {
		return err
	}
	fmt.Printf("Backend URL set to %s\n", a.backend.Get())
	return nil
}

func runBackendWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := a.storePath()
	if err != nil {
		return err
	}

	fmt.Println(a.backend.Get())
	cancel := a.backend.Subscribe(func(url string) {
		fmt.Println(url)
	})
	defer cancel()

	return a.backend.Watch(commandContext(cmd), path)
}
