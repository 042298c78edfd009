// Package upload is the client side of the image-upload proxy. The SPA
// used to post straight to the image host with an embedded key; the
// proxy owns the storage credentials instead.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// KeyHeader carries the shared upload key.
const KeyHeader = "X-Upload-Key"

// Client posts image files to the upload proxy.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// NewClient constructs an upload client. key may be empty when the
// proxy runs without key checking.
func NewClient(baseURL, key string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	Data struct {
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error string `json:"error"`
}

// Upload posts one image as multipart form data and returns its public
// display URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.key != "" {
		req.Header.Set(KeyHeader, c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if body.Error != "" {
			return "", fmt.Errorf("upload rejected: %s", body.Error)
		}
		return "", fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}
	if body.Data.DisplayURL == "" {
		return "", fmt.Errorf("upload response has no display URL")
	}
	return body.Data.DisplayURL, nil
}
