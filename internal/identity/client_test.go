package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIDToken(t *testing.T, uid, email, name, picture string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     uid,
		"email":   email,
		"name":    name,
		"picture": picture,
	})
	signed, err := token.SignedString([]byte("provider-secret"))
	require.NoError(t, err)
	return signed
}

func providerStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "public-key")
}

func TestSignUpProjectsIdentityFromToken(t *testing.T) {
	idToken := signedIDToken(t, "uid-1", "a@b.com", "Ada", "http://img/ada.png")
	client := providerStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "public-key", r.URL.Query().Get("key"))
		json.NewEncoder(w).Encode(map[string]string{
			"idToken":      idToken,
			"refreshToken": "refresh-1",
			"expiresIn":    "3600",
			"localId":      "uid-1",
			"email":        "a@b.com",
		})
	})

	who, cred, err := client.SignUp(context.Background(), "a@b.com", "Aa1@aaaa")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", who.UID)
	assert.Equal(t, "a@b.com", who.Email)
	assert.Equal(t, "Ada", who.DisplayName, "display name backfilled from token claims")
	assert.Equal(t, "http://img/ada.png", who.PhotoURL)
	assert.Equal(t, idToken, cred.IDToken)
	assert.Equal(t, "refresh-1", cred.RefreshToken)
	assert.False(t, cred.ExpiresAt.IsZero())
}

func TestSignInWithIDPBuildsPostBody(t *testing.T) {
	idToken := signedIDToken(t, "uid-3", "c@d.com", "Grace", "")
	client := providerStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "accounts:signInWithIdp")

		var payload struct {
			PostBody          string `json:"postBody"`
			RequestURI        string `json:"requestUri"`
			ReturnSecureToken bool   `json:"returnSecureToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "id_token=provider-token&providerId=google.com", payload.PostBody)
		assert.NotEmpty(t, payload.RequestURI)
		assert.True(t, payload.ReturnSecureToken)

		json.NewEncoder(w).Encode(map[string]string{
			"idToken":      idToken,
			"refreshToken": "refresh-3",
			"expiresIn":    "3600",
			"localId":      "uid-3",
			"email":        "c@d.com",
		})
	})

	who, cred, err := client.SignInWithIDP(context.Background(), "google.com", "provider-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-3", who.UID)
	assert.Equal(t, "Grace", who.DisplayName)
	assert.Equal(t, "refresh-3", cred.RefreshToken)
}

func TestSignInWithIDPMapsProviderError(t *testing.T) {
	client := providerStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "INVALID_IDP_RESPONSE"},
		})
	})

	_, _, err := client.SignInWithIDP(context.Background(), "google.com", "bad-token")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, CodeProvider, authErr.Code)
}

func TestProviderErrorMapping(t *testing.T) {
	cases := []struct {
		provider string
		code     string
	}{
		{"EMAIL_EXISTS", CodeEmailInUse},
		{"EMAIL_NOT_FOUND", CodeUserNotFound},
		{"INVALID_PASSWORD", CodeInvalidCredential},
		{"INVALID_LOGIN_CREDENTIALS", CodeInvalidCredential},
		{"WEAK_PASSWORD : Password should be at least 6 characters", CodeWeakPassword},
		{"TOO_MANY_ATTEMPTS_TRY_LATER", CodeProvider},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			client := providerStub(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"message": tc.provider},
				})
			})

			_, _, err := client.SignInWithPassword(context.Background(), "a@b.com", "nope")
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tc.code, authErr.Code)
		})
	}
}

func TestRefreshCredentialUsesSnakeCaseResponse(t *testing.T) {
	idToken := signedIDToken(t, "uid-2", "b@c.com", "", "")
	client := providerStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id_token":      idToken,
			"refresh_token": "refresh-2",
			"expires_in":    "3600",
			"user_id":       "uid-2",
		})
	})

	who, cred, err := client.RefreshCredential(context.Background(), "refresh-old")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", who.UID)
	assert.Equal(t, "b@c.com", who.Email)
	assert.Equal(t, "refresh-2", cred.RefreshToken)
}

func TestIdentityFromIDTokenRejectsGarbage(t *testing.T) {
	_, err := identityFromIDToken("not-a-token")
	require.Error(t, err)
}
