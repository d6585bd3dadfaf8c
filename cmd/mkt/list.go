package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/model"
	"github.com/jacksmith/mkt/internal/ops"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List records of a resource",
	Long: `List the records of one resource.

Resources: products, services, orders, customers, collections, inventory, taxes.
Any unambiguous prefix works ("prod", "cust"), as does the singular form.

Image paths are printed as full URLs against the current backend. Use --json
for the records as the backend sent them (with image paths resolved).`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeResources,
	RunE:              runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	resource, err := cli.MatchResource(args[0], api.ResourceNames())
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireSession(); err != nil {
		return err
	}

	records, err := ops.ListRecords(commandContext(cmd), a.client, a.images, resource)
	if err != nil {
		return err
	}

	if listJSON {
		return printRecordsJSON(records)
	}

	if len(records) == 0 {
		fmt.Printf("No %s found.\n", resource)
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxTitleWidth)
	table.AddRow("ID", "STATUS", "TITLE", "IMAGE")
	for _, r := range records {
		table.AddRow(
			orDash(r.ID()),
			orDash(cli.Status(r.Status())),
			orDash(r.Title()),
			r.ImagePath(),
		)
	}
	table.Render(os.Stdout)
	return nil
}

func printRecordsJSON(records []model.Record) error {
	raws := make([]json.RawMessage, len(records))
	for i, r := range records {
		raws[i] = r.Raw()
	}
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
