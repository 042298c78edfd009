/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bookblitz/storefront/internal/flow"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in with email and password",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			} else {
				var err error
				if email, err = readLine("Email: "); err != nil {
					return err
				}
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			who, err := a.sessions.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			role, err := a.roles.Resolve(ctx, who.Email)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s <%s> (%s)\n", who.DisplayName, who.Email, role)
			return nil
		})
	},
}

var registerName, registerImage string

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create a new account",
	Long: `Create a new account. The avatar image is uploaded to the image
proxy and the resulting URL becomes the account photo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			} else {
				var err error
				if email, err = readLine("Email: "); err != nil {
					return err
				}
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			img, err := os.Open(registerImage)
			if err != nil {
				return fmt.Errorf("open avatar image: %w", err)
			}
			defer img.Close()

			journeys := flow.New(a.sessions, a.uploads, a.backend, a.log)
			who, err := journeys.Register(ctx, flow.RegisterInput{
				Name:      registerName,
				Email:     email,
				Password:  password,
				ImageName: filepath.Base(registerImage),
				Image:     img,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s <%s>\n", who.DisplayName, who.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the cached session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.sessions.SignOut(ctx); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Send a password-reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.sessions.ResetPassword(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Reset email sent to %s\n", args[0])
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and its role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			who, err := a.identity()
			if err != nil {
				return err
			}
			role, err := a.roles.Resolve(ctx, who.Email)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\nrole: %s\n", who.DisplayName, who.Email, role)
			return nil
		})
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name for the new account")
	registerCmd.Flags().StringVar(&registerImage, "image", "", "path to the avatar image")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("image")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, resetPasswordCmd, whoamiCmd)
}
