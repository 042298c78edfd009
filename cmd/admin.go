/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/bookblitz/storefront/internal/api"
	"github.com/bookblitz/storefront/internal/guard"
	"github.com/bookblitz/storefront/types"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin dashboard: manage users and the whole catalog",
}

var adminGuard = guard.Chain(
	guard.RequireAuth(),
	guard.RequireRole(types.RoleAdmin),
)

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, adminGuard); err != nil {
				return err
			}
			users, err := a.backend.Users(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%-26s %-24s %-32s %s\n", u.ID, u.Name, u.Email, u.Role)
			}
			return nil
		})
	},
}

var setRoleEmail string

var adminSetRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <role>",
	Short: "Change an account's role",
	Long: `Change an account's role to user, librarian or admin. Pass the
account email with --email so its cached role is dropped and the next
lookup sees the new role.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, adminGuard); err != nil {
				return err
			}
			role := args[1]
			if !types.ValidRole(role) {
				return fmt.Errorf("invalid role %q, pick user, librarian or admin", role)
			}
			ack, err := a.backend.SetUserRole(ctx, args[0], role)
			if err != nil {
				return err
			}
			if ack.ModifiedCount == 0 {
				return fmt.Errorf("user %s was not changed", args[0])
			}
			if setRoleEmail != "" {
				a.roles.Invalidate(setRoleEmail)
			}
			fmt.Printf("Role set to %s\n", role)
			return nil
		})
	},
}

var adminBooksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the whole catalog, published or not",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, adminGuard); err != nil {
				return err
			}
			page, err := a.backend.ListBooks(ctx, api.BookQuery{Limit: 100})
			if err != nil {
				return err
			}
			for _, b := range page.Books {
				fmt.Printf("%-26s %-14s %-40s %-12s %s\n", b.ID, b.ISBN, b.Title, b.Status, b.LibrarianEmail)
			}
			return nil
		})
	},
}

func adminSetStatusCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <book-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.authorize(ctx, adminGuard); err != nil {
					return err
				}
				ack, err := a.backend.SetBookStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				if ack.ModifiedCount == 0 {
					return fmt.Errorf("book %s was not changed", args[0])
				}
				fmt.Printf("Book is now %s\n", status)
				return nil
			})
		},
	}
}

var adminDeleteBookCmd = &cobra.Command{
	Use:   "delete-book <book-id>",
	Short: "Remove a listing entirely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.authorize(ctx, adminGuard); err != nil {
				return err
			}
			ack, err := a.backend.DeleteBook(ctx, args[0])
			if err != nil {
				return err
			}
			if ack.DeletedCount == 0 {
				return fmt.Errorf("book %s was not deleted", args[0])
			}
			fmt.Println("Book deleted")
			return nil
		})
	},
}

func init() {
	adminSetRoleCmd.Flags().StringVar(&setRoleEmail, "email", "", "account email, drops its cached role")

	adminCmd.AddCommand(
		adminUsersCmd,
		adminSetRoleCmd,
		adminBooksCmd,
		adminSetStatusCmd("publish", "Publish any listing", types.BookStatusPublished),
		adminSetStatusCmd("unpublish", "Unpublish any listing", types.BookStatusUnpublished),
		adminDeleteBookCmd,
	)
	rootCmd.AddCommand(adminCmd)
}
