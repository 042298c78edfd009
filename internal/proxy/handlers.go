package proxy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bookblitz/storefront/internal/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 10 << 20
	formFieldImage     = "image"
	keyHeader          = "X-Upload-Key"
)

// Handler serves the upload proxy routes.
type Handler struct {
	store         storage.ImageStore
	publicBaseURL string
	uploadKeyHash string
	metrics       *Metrics
	log           *slog.Logger
}

// NewHandler constructs a Handler. An empty uploadKeyHash disables key
// checking; a nil metrics disables metrics collection.
func NewHandler(store storage.ImageStore, publicBaseURL, uploadKeyHash string, metrics *Metrics, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		uploadKeyHash: uploadKeyHash,
		metrics:       metrics,
		log:           log.With("component", "proxy"),
	}
}

// Routes registers the proxy routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.With(h.requireKey).Post("/upload", h.Upload)
	r.Get("/i/{key}", h.ServeImage)
}

func (h *Handler) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.uploadKeyHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get(keyHeader))
		if key == "" {
			writeError(w, http.StatusUnauthorized, "upload key required")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h.uploadKeyHash), []byte(key)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid upload key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload accepts one multipart image, stores it under a content-hash
// key and returns its public display URL.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.metrics.observeUpload("rejected", 0)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile(formFieldImage)
	if err != nil {
		h.metrics.observeUpload("rejected", 0)
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := readFileLimited(file, maxImageBytes)
	if err != nil {
		h.metrics.observeUpload("rejected", 0)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		h.metrics.observeUpload("rejected", 0)
		writeError(w, http.StatusUnsupportedMediaType, "only image uploads are accepted")
		return
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:]) + extensionFor(contentType)

	if err := h.store.Save(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		h.log.Error("failed to store image", "key", key, "error", err)
		h.metrics.observeUpload("failed", 0)
		writeError(w, http.StatusBadGateway, "failed to store image")
		return
	}

	h.metrics.observeUpload("accepted", int64(len(data)))
	h.log.Info("stored image", "key", key, "bytes", len(data))

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]string{
			"display_url": fmt.Sprintf("%s/i/%s", h.publicBaseURL, key),
		},
	})
}

// ServeImage streams a stored image back.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing image key")
		return
	}

	reader, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		h.log.Error("failed to open image", "key", key, "error", err)
		writeError(w, http.StatusBadGateway, "failed to load image")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentTypeFor(key))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = io.Copy(w, reader)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

func contentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".jpg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".gif"):
		return "image/gif"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	}
	return "application/octet-stream"
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
