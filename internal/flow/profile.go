package flow

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ProfileInput is the profile-editor payload. Empty fields keep their
// current value.
type ProfileInput struct {
	Name      string
	ImageName string
	Image     io.Reader
}

// UpdateProfile edits the signed-in account's display name and avatar.
// A new avatar is uploaded before the provider-side profile patch, the
// same ordering registration uses, so a failed upload leaves the
// profile untouched.
func (f *Flow) UpdateProfile(ctx context.Context, in ProfileInput) (string, error) {
	if in.Name == "" && in.Image == nil {
		return "", &ValidationError{Field: "profile", Reason: "nothing to change"}
	}
	if in.Name != "" && len(strings.TrimSpace(in.Name)) < 3 {
		return "", &ValidationError{Field: "name", Reason: "must be at least 3 characters"}
	}

	photoURL := ""
	if in.Image != nil {
		url, err := f.uploads.Upload(ctx, in.ImageName, in.Image)
		if err != nil {
			return "", fmt.Errorf("upload profile image: %w", err)
		}
		photoURL = url
	}

	if err := f.sessions.UpdateProfile(ctx, in.Name, photoURL); err != nil {
		return "", err
	}
	f.log.Info("updated profile", "name", in.Name, "newAvatar", photoURL != "")
	return photoURL, nil
}
