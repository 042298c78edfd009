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

var profileName, profileImage string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit your display name and avatar",
	Long: `Edit your display name and avatar. A new avatar is uploaded to the
image proxy first; omitted flags keep their current value.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if _, err := a.identity(); err != nil {
				return err
			}

			in := flow.ProfileInput{Name: profileName}
			if profileImage != "" {
				img, err := os.Open(profileImage)
				if err != nil {
					return fmt.Errorf("open avatar image: %w", err)
				}
				defer img.Close()
				in.ImageName = filepath.Base(profileImage)
				in.Image = img
			}

			journeys := flow.New(a.sessions, a.uploads, a.backend, a.log)
			photoURL, err := journeys.UpdateProfile(ctx, in)
			if err != nil {
				return err
			}

			who := a.sessions.Current().Identity
			fmt.Printf("Profile updated: %s", who.DisplayName)
			if photoURL != "" {
				fmt.Printf(" (avatar %s)", photoURL)
			}
			fmt.Println()
			return nil
		})
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileCmd.Flags().StringVar(&profileImage, "image", "", "path to a new avatar image")
	rootCmd.AddCommand(profileCmd)
}
