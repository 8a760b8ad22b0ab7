package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "WARLI_"

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig identifies the product document store.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
	Collection   string
}

// StorefrontConfig controls the storefront session runtime.
type StorefrontConfig struct {
	Port string
	// APIBaseURL is the base URL of the remote product service,
	// e.g. http://localhost:3000/api.
	APIBaseURL string
	// StatePath is the file backing the local persistent store
	// (cart, wishlist, custom-product mirror).
	StatePath      string
	RequestTimeout time.Duration
}

// Config aggregates every runtime setting of both binaries.
type Config struct {
	Server     ServerConfig
	Firestore  FirestoreConfig
	Storefront StorefrontConfig
}

// Load reads configuration from WARLI_-prefixed environment variables,
// applying defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:         lookup("SERVER_PORT", "3000"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Firestore: FirestoreConfig{
			ProjectID:    lookup("FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: lookup("FIRESTORE_EMULATOR_HOST", ""),
			Collection:   lookup("FIRESTORE_COLLECTION", "products"),
		},
		Storefront: StorefrontConfig{
			Port:           lookup("STOREFRONT_PORT", "8080"),
			APIBaseURL:     lookup("API_BASE_URL", "http://localhost:3000/api"),
			StatePath:      lookup("STATE_PATH", ".warli-state.json"),
			RequestTimeout: 10 * time.Second,
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = lookupDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Server.WriteTimeout, err = lookupDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Server.IdleTimeout, err = lookupDuration("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Storefront.RequestTimeout, err = lookupDuration("STOREFRONT_REQUEST_TIMEOUT", cfg.Storefront.RequestTimeout); err != nil {
		return Config{}, err
	}

	if err := validatePort(cfg.Server.Port); err != nil {
		return Config{}, fmt.Errorf("config: server port: %w", err)
	}
	if err := validatePort(cfg.Storefront.Port); err != nil {
		return Config{}, fmt.Errorf("config: storefront port: %w", err)
	}
	if strings.TrimSpace(cfg.Firestore.Collection) == "" {
		return Config{}, fmt.Errorf("config: firestore collection is required")
	}

	return cfg, nil
}

func lookup(key, fallback string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("config: %s%s must be positive", envPrefix, key)
	}
	return parsed, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%q is not numeric", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("%d out of range", n)
	}
	return nil
}
