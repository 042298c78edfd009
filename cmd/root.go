/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "BookBlitz storefront client and tooling",
	Long: `storefront is the command-line client for the BookBlitz book store.

It covers the customer journey (browsing the catalog, ordering and
paying for books, wishlists), the librarian dashboard (publishing and
shipping) and the admin dashboard (catalog and role management), and it
runs the image upload proxy.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
