package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/model"
	"github.com/jacksmith/mkt/internal/ops"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Show one record",
	Long: `Show a single record by resource and ID.

Examples:
  mkt show products 42
  mkt show ord A-1001`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeResources,
	RunE:              runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	resource, err := cli.MatchResource(args[0], api.ResourceNames())
	if err != nil {
		return err
	}
	id := args[1]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireSession(); err != nil {
		return err
	}

	rec, err := ops.ShowRecord(commandContext(cmd), a.client, a.images, resource, id)
	if err != nil {
		if api.IsNotFound(err) {
			return &cli.NotFoundError{Type: resource, ID: id}
		}
		return err
	}
	return printRecord(rec)
}

// printRecord prints the well-known fields followed by the full record.
func printRecord(rec model.Record) error {
	if id := rec.ID(); id != "" {
		fmt.Printf("ID:     %s\n", id)
	}
	if title := rec.Title(); title != "" {
		fmt.Printf("Title:  %s\n", title)
	}
	if status := rec.Status(); status != "" {
		fmt.Printf("Status: %s\n", cli.Status(status))
	}
	if img := rec.ImagePath(); img != "" {
		fmt.Printf("Image:  %s\n", img)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, rec.Raw(), "", "  "); err != nil {
		return fmt.Errorf("failed to format record: %w", err)
	}
	fmt.Println()
	fmt.Println(buf.String())
	return nil
}
