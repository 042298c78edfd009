// Package identity talks to the external identity provider that owns
// account credentials and profiles. The backend never sees passwords;
// it only ever receives the provider's bearer tokens.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Identity is the client-side projection of a provider user record.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Credential is a provider-issued token pair. IDToken is the bearer
// credential for backend calls; RefreshToken outlives it.
type Credential struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Client is a REST client for the identity provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a provider client. The API key is a public
// project identifier, not a secret.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sessionResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
}

func (r sessionResponse) credential() Credential {
	ttl := 55 * time.Minute
	if d, err := time.ParseDuration(r.ExpiresIn + "s"); err == nil && d > 0 {
		ttl = d
	}
	return Credential{
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    time.Now().Add(ttl),
	}
}

// SignUp creates a provider account with email/password credentials.
func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, Credential, error) {
	return c.session(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithPassword exchanges email/password for a credential.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Identity, Credential, error) {
	return c.session(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithIDP completes a federated sign-in with the token the
// federated provider handed back.
func (c *Client) SignInWithIDP(ctx context.Context, providerID, providerToken string) (Identity, Credential, error) {
	return c.session(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":          fmt.Sprintf("id_token=%s&providerId=%s", providerToken, providerID),
		"requestUri":        "http://localhost",
		"returnSecureToken": true,
	})
}

// UpdateProfile patches the provider-side display name and photo URL.
// The change is provider-owned; callers needing immediate consistency
// merge the patch into their local state themselves.
func (c *Client) UpdateProfile(ctx context.Context, cred Credential, displayName, photoURL string) error {
	payload := map[string]any{
		"idToken":           cred.IDToken,
		"returnSecureToken": false,
	}
	if displayName != "" {
		payload["displayName"] = displayName
	}
	if photoURL != "" {
		payload["photoUrl"] = photoURL
	}
	var out sessionResponse
	return c.post(ctx, "accounts:update", payload, &out)
}

// SendPasswordReset asks the provider to email a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	var out struct {
		Email string `json:"email"`
	}
	return c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, &out)
}

// RefreshCredential exchanges a refresh token for a fresh ID token.
func (c *Client) RefreshCredential(ctx context.Context, refreshToken string) (Identity, Credential, error) {
	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	err := c.post(ctx, "token", map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &out)
	if err != nil {
		return Identity{}, Credential{}, err
	}

	cred := sessionResponse{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}.credential()

	who, err := identityFromIDToken(out.IDToken)
	if err != nil {
		return Identity{}, Credential{}, err
	}
	if who.UID == "" {
		who.UID = out.UserID
	}
	return who, cred, nil
}

func (c *Client) session(ctx context.Context, endpoint string, payload map[string]any) (Identity, Credential, error) {
	var out sessionResponse
	if err := c.post(ctx, endpoint, payload, &out); err != nil {
		return Identity{}, Credential{}, err
	}

	who := Identity{
		UID:         out.LocalID,
		Email:       out.Email,
		DisplayName: out.DisplayName,
		PhotoURL:    out.PhotoURL,
	}
	// Token claims carry profile fields the session response omits.
	if fromToken, err := identityFromIDToken(out.IDToken); err == nil {
		if who.Email == "" {
			who.Email = fromToken.Email
		}
		if who.DisplayName == "" {
			who.DisplayName = fromToken.DisplayName
		}
		if who.PhotoURL == "" {
			who.PhotoURL = fromToken.PhotoURL
		}
	}
	return who, out.credential(), nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", endpoint, err)
	}

	target := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if c.apiKey != "" {
		target += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &AuthError{Code: CodeProvider, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var provider struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&provider); decodeErr == nil && provider.Error.Message != "" {
			return mapProviderError(provider.Error.Message)
		}
		return &AuthError{Code: CodeProvider, Message: fmt.Sprintf("provider returned %d", resp.StatusCode)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
