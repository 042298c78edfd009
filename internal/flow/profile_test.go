package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileUploadsBeforePatching(t *testing.T) {
	j := &journal{}
	f := New(j, j, j, nil)

	url, err := f.UpdateProfile(context.Background(), ProfileInput{
		Name:      "Ada Byron",
		ImageName: "new-avatar.png",
		Image:     strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"upload-image", "update-profile"}, j.steps)
	assert.Equal(t, "http://img.example/avatar.png", url)
	assert.Equal(t, "Ada Byron", j.profileName)
	assert.Equal(t, "http://img.example/avatar.png", j.profilePhoto)
}

func TestUpdateProfileNameOnlySkipsUpload(t *testing.T) {
	j := &journal{}
	f := New(j, j, j, nil)

	url, err := f.UpdateProfile(context.Background(), ProfileInput{Name: "Ada Byron"})
	require.NoError(t, err)

	assert.Equal(t, []string{"update-profile"}, j.steps)
	assert.Empty(t, url)
	assert.Equal(t, "Ada Byron", j.profileName)
	assert.Empty(t, j.profilePhoto)
}

func TestUpdateProfileFailedUploadLeavesProfileUntouched(t *testing.T) {
	j := &journal{uploadErr: errors.New("image host down")}
	f := New(j, j, j, nil)

	_, err := f.UpdateProfile(context.Background(), ProfileInput{
		Name:      "Ada Byron",
		ImageName: "new-avatar.png",
		Image:     strings.NewReader("png-bytes"),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"upload-image"}, j.steps, "provider patch never runs after a failed upload")
}

func TestUpdateProfileValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    ProfileInput
		field string
	}{
		{"nothing to change", ProfileInput{}, "profile"},
		{"short name", ProfileInput{Name: "Al"}, "name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := &journal{}
			f := New(j, j, j, nil)

			_, err := f.UpdateProfile(context.Background(), tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Empty(t, j.steps)
		})
	}
}
