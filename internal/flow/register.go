// Package flow orchestrates the multi-step user journeys that span the
// identity provider, the upload proxy and the backend.
package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bookblitz/storefront/internal/identity"
	"github.com/bookblitz/storefront/types"
)

// Sessions is the slice of the session store the flows need.
type Sessions interface {
	CreateAccount(ctx context.Context, email, password string) (identity.Identity, error)
	UpdateProfile(ctx context.Context, displayName, photoURL string) error
}

// Uploader posts an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Backend is the slice of the API client the flows need.
type Backend interface {
	AddUser(ctx context.Context, user types.UserRecord) error
	PlaceOrder(ctx context.Context, order types.Order) error
}

// Flow wires the three collaborators together.
type Flow struct {
	sessions Sessions
	uploads  Uploader
	backend  Backend
	log      *slog.Logger
}

// New constructs a Flow.
func New(sessions Sessions, uploads Uploader, backend Backend, log *slog.Logger) *Flow {
	if log == nil {
		log = slog.Default()
	}
	return &Flow{
		sessions: sessions,
		uploads:  uploads,
		backend:  backend,
		log:      log.With("component", "flow"),
	}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	ImageName string
	Image     io.Reader
}

// Register runs the sign-up journey in its fixed order: account
// creation, avatar upload, profile update, backend mirror. The first
// failing step aborts everything after it and its error is returned
// as-is.
func (f *Flow) Register(ctx context.Context, in RegisterInput) (identity.Identity, error) {
	if err := ValidateRegistration(in); err != nil {
		return identity.Identity{}, err
	}

	who, err := f.sessions.CreateAccount(ctx, in.Email, in.Password)
	if err != nil {
		return identity.Identity{}, err
	}

	photoURL, err := f.uploads.Upload(ctx, in.ImageName, in.Image)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("upload profile image: %w", err)
	}

	if err := f.sessions.UpdateProfile(ctx, in.Name, photoURL); err != nil {
		return identity.Identity{}, err
	}

	record := types.UserRecord{
		Name:     in.Name,
		Email:    in.Email,
		PhotoURL: photoURL,
		Role:     types.RoleUser,
	}
	if err := f.backend.AddUser(ctx, record); err != nil {
		return identity.Identity{}, err
	}

	who.DisplayName = in.Name
	who.PhotoURL = photoURL
	f.log.Info("registered account", "email", in.Email)
	return who, nil
}
