package main

import (
	"fmt"

	"github.com/jacksmith/mkt/internal/cli"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend URL and who is signed in",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Backend: %s %s\n", a.backend.Get(), cli.Gray("("+string(a.backend.Source())+")"))

	s := a.session.Current()
	if s == nil {
		fmt.Printf("Session: %s\n", cli.Yellow("not signed in"))
		return nil
	}
	fmt.Printf("Session: %s\n", cli.Green("signed in as "+displayUser(s)))
	if role := s.User.Role(); role != "" {
		fmt.Printf("Role:    %s\n", role)
	}
	return nil
}
