package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/cli"
	"github.com/jacksmith/mkt/internal/ops"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize every resource",
	Long: `Fetch all resources at once and print a count per resource, broken down
by status. A resource that fails to load is reported on its own row; the
others are still shown. Ctrl-C abandons requests still in flight.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireSession(); err != nil {
		return err
	}

	tiles := ops.Dashboard(commandContext(cmd), a.client, api.ResourceNames())

	table := cli.NewTable()
	for _, tile := range tiles {
		if tile.Err != nil {
			table.AddRow(tile.Resource, "-", cli.Red(tile.Err.Error()))
			continue
		}
		table.AddRow(tile.Resource, fmt.Sprintf("%d", tile.Count), formatStatusCounts(tile.ByStatus))
	}
	table.Render(os.Stdout)
	return nil
}

// formatStatusCounts renders "active 3, draft 1"; records without a status
// are left out.
func formatStatusCounts(counts map[string]int) string {
	var parts []string
	for _, k := range ops.StatusKeys(counts) {
		if k == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", cli.Status(k), counts[k]))
	}
	return strings.Join(parts, ", ")
}
