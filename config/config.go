package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// BackendBaseURL is the base URL of the BookBlitz REST backend.
	BackendBaseURL string

	// Identity configures the external identity provider.
	Identity IdentityConfig

	// Proxy configures the image upload proxy server.
	Proxy ProxyConfig

	// Upload configures the client side of the upload proxy.
	Upload UploadConfig

	// CachePath is the SQLite file holding the local session and
	// wishlist cache.
	CachePath string
}

type IdentityConfig struct {
	// BaseURL is the identity provider's REST endpoint.
	BaseURL string

	// APIKey is the provider project key appended to every call.
	APIKey string
}

type ProxyConfig struct {
	Port int

	// PublicBaseURL is the externally reachable URL of the proxy,
	// used to build display URLs for stored images.
	PublicBaseURL string

	// UploadKeyHash is the bcrypt hash of the key clients must
	// present in X-Upload-Key. Empty disables key checking.
	UploadKeyHash string

	// StorageBackend selects the object store: "minio" or "gcs".
	StorageBackend string

	Minio MinioConfig
	GCS   GCSConfig
}

type UploadConfig struct {
	// BaseURL is the proxy endpoint uploads are posted to.
	BaseURL string

	// Key is the plaintext upload key presented in X-Upload-Key.
	Key string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	proxyPort := getEnvInt("PROXY_PORT", 8090)

	return Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3000"),
		Identity: IdentityConfig{
			BaseURL: getEnv("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
			APIKey:  getEnv("IDENTITY_API_KEY", ""),
		},
		Proxy: ProxyConfig{
			Port:           proxyPort,
			PublicBaseURL:  getEnv("PROXY_PUBLIC_URL", fmt.Sprintf("http://localhost:%d", proxyPort)),
			UploadKeyHash:  getEnv("PROXY_UPLOAD_KEY_HASH", ""),
			StorageBackend: getEnv("PROXY_STORAGE", "minio"),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "bookblitz-images"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", "bookblitz-images"),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		Upload: UploadConfig{
			BaseURL: getEnv("UPLOAD_BASE_URL", fmt.Sprintf("http://localhost:%d", proxyPort)),
			Key:     getEnv("UPLOAD_KEY", ""),
		},
		CachePath: getEnv("CACHE_PATH", defaultCachePath()),
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(home, ".bookblitz", "storefront.db")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return value == "1" || value == "true"
	}
	return defaultValue
}
