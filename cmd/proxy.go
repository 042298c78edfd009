/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookblitz/storefront/config"
	"github.com/bookblitz/storefront/internal/proxy"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// proxyCmd represents the proxy command
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Starts the image upload proxy",
	Long: `Starts the image upload proxy. Usage:

	storefront proxy
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := proxy.New(ctx, cfg.Proxy, log)
		if err != nil {
			return fmt.Errorf("failed to start proxy: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

// hashKeyCmd prints the bcrypt hash to store in PROXY_UPLOAD_KEY_HASH.
var hashKeyCmd = &cobra.Command{
	Use:   "hash-key",
	Short: "Hash an upload key for the proxy config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readPassword("Upload key: ")
		if err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fmt.Println(string(hash))
		return nil
	},
}

func init() {
	proxyCmd.AddCommand(hashKeyCmd)
	rootCmd.AddCommand(proxyCmd)
}
