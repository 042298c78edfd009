/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/bookblitz/storefront/types"
	"github.com/spf13/cobra"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage your local wishlist",
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <isbn>",
	Short: "Bookmark a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			book, err := a.public.GetBook(ctx, args[0])
			if err != nil {
				return err
			}
			err = a.cache.AddWishlist(ctx, types.WishlistItem{ISBN: book.ISBN, Title: book.Title})
			if err != nil {
				return err
			}
			fmt.Printf("Added %q\n", book.Title)
			return nil
		})
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <isbn>",
	Short: "Drop a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cache.RemoveWishlist(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Removed")
			return nil
		})
	},
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your wishlist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			items, err := a.cache.Wishlist(ctx)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%-14s %s\n", item.ISBN, item.Title)
			}
			return nil
		})
	},
}

func init() {
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistRemoveCmd, wishlistListCmd)
	rootCmd.AddCommand(wishlistCmd)
}
