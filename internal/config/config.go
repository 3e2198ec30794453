package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	APIBaseURL string
	OAuthURL   string
	AdminEmail string

	ShopName  string
	ShopPhone string

	Storage struct {
		Backend  string // file, redis or memory
		Dir      string
		RedisURL string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must be set")
	}

	oauthURL := os.Getenv("OAUTH_URL")
	if oauthURL == "" {
		return nil, fmt.Errorf("OAUTH_URL must be set")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL must be set")
	}

	shopName := os.Getenv("SHOP_NAME")
	if shopName == "" {
		shopName = "BAS Pet Shop"
	}

	shopPhone := os.Getenv("SHOP_PHONE")
	if shopPhone == "" {
		return nil, fmt.Errorf("SHOP_PHONE must be set")
	}

	cfg := &Config{
		Env:        env,
		ServerPort: serverPort,
		APIBaseURL: apiBaseURL,
		OAuthURL:   oauthURL,
		AdminEmail: adminEmail,
		ShopName:   shopName,
		ShopPhone:  shopPhone,
	}

	cfg.Storage.Backend = os.Getenv("STORAGE_BACKEND")
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}

	cfg.Storage.Dir = os.Getenv("STORAGE_DIR")
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = ".storefront"
	}

	cfg.Storage.RedisURL = os.Getenv("REDIS_URL")
	if cfg.Storage.Backend == "redis" && cfg.Storage.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL must be set when STORAGE_BACKEND is redis")
	}

	return cfg, nil
}
