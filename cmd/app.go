/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bookblitz/storefront/config"
	"github.com/bookblitz/storefront/internal/api"
	"github.com/bookblitz/storefront/internal/authz"
	"github.com/bookblitz/storefront/internal/cache"
	"github.com/bookblitz/storefront/internal/guard"
	"github.com/bookblitz/storefront/internal/identity"
	"github.com/bookblitz/storefront/internal/session"
	"github.com/bookblitz/storefront/internal/upload"
	"golang.org/x/term"
)

// app bundles the wired-up clients every subcommand shares.
type app struct {
	cfg      config.Config
	cache    *cache.Cache
	sessions *session.Store
	public   *api.Client
	backend  *api.Client
	roles    *authz.Resolver
	uploads  *upload.Client
	log      *slog.Logger
}

// newApp builds the client stack and restores any cached session.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.LoadConfig()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}

	provider := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey)
	sessions := session.NewStore(provider, store, log)
	sessions.Bootstrap(ctx)

	public := api.New(cfg.BackendBaseURL, api.WithLogger(log))
	backend := public.Secure(sessions)

	return &app{
		cfg:      cfg,
		cache:    store,
		sessions: sessions,
		public:   public,
		backend:  backend,
		roles:    authz.NewResolver(backend, log),
		uploads:  upload.NewClient(cfg.Upload.BaseURL, cfg.Upload.Key),
		log:      log,
	}, nil
}

func (a *app) Close() error {
	return a.cache.Close()
}

// identity returns the signed-in identity, or an error telling the
// user to log in first.
func (a *app) identity() (*identity.Identity, error) {
	snap := a.sessions.Current()
	if !snap.SignedIn() {
		return nil, errors.New("not signed in, run `storefront login` first")
	}
	return snap.Identity, nil
}

// authorize resolves the caller's role and evaluates the guard against
// it. Only Allowed proceeds.
func (a *app) authorize(ctx context.Context, g guard.Guard) error {
	snap := a.sessions.Current()
	email := ""
	if snap.Identity != nil {
		email = snap.Identity.Email
	}
	if _, err := a.roles.Resolve(ctx, email); err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}

	switch g(snap, a.roles.Peek(email)) {
	case guard.Allowed:
		return nil
	case guard.Pending:
		return errors.New("session is still resolving, try again")
	default:
		return errors.New("access denied for your role")
	}
}

// runApp wraps a subcommand body with app setup and teardown.
func runApp(ctx context.Context, body func(ctx context.Context, a *app) error) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return body(ctx, a)
}

// readLine prompts on stderr and reads one trimmed line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts on stderr and reads a password without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
