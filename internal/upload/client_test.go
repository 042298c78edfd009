package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPostsMultipartWithKey(t *testing.T) {
	var gotKey, gotName string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(KeyHeader)
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		gotBody, err = io.ReadAll(file)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"display_url":"http://host/i/abc.png"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	url, err := client.Upload(context.Background(), "cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "http://host/i/abc.png", url)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "cover.png", gotName)
	assert.Equal(t, "png-bytes", string(gotBody))
}

func TestUploadOmitsEmptyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[KeyHeader]
		assert.False(t, present)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"display_url":"http://host/i/x"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
}

func TestUploadSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"missing upload key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing upload key")
}

func TestUploadRejectsEmptyDisplayURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.Error(t, err)
}
