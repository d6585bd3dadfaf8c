package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image <path>...",
	Short: "Resolve image paths against the backend URL",
	Long: `Print the full URL for each image path, one per line.

Absolute URLs (http, https, data, file and protocol-relative) are printed
unchanged. A blank path prints an empty line.

Example:
  mkt image /uploads/logo.png uploads/banner.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, p := range args {
		fmt.Println(a.images.Resolve(p))
	}
	return nil
}
