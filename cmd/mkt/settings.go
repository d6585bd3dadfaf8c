package main

import (
	"github.com/jacksmith/mkt/internal/ops"
	"github.com/spf13/cobra"
)

var checkoutSettingsCmd = &cobra.Command{
	Use:   "checkout-settings",
	Short: "Show the store's checkout settings",
	Args:  cobra.NoArgs,
	RunE:  runCheckoutSettings,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your supplier profile",
	Long: `Show the signed-in supplier's profile. The logo and banner are printed as
full URLs against the current backend.`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(checkoutSettingsCmd)
	rootCmd.AddCommand(profileCmd)
}

func runCheckoutSettings(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireSession(); err != nil {
		return err
	}

	rec, err := ops.CheckoutSettings(commandContext(cmd), a.client, a.images)
	if err != nil {
		return err
	}
	return printRecord(rec)
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireSession(); err != nil {
		return err
	}

	rec, err := ops.SupplierProfile(commandContext(cmd), a.client, a.images)
	if err != nil {
		return err
	}
	return printRecord(rec)
}
