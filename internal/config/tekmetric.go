package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTekmetricBaseURL is the production shop platform host.
const DefaultTekmetricBaseURL = "https://shop.tekmetric.com"

// Tekmetric holds the settings for both the captured-token API and the public API.
type Tekmetric struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ShopID       string
}

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadTekmetric loads Tekmetric configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or SHOPASSIST_ env vars)
// 2. Direct environment variables (TEKMETRIC_*)
// 3. Default values
func LoadTekmetric() Tekmetric {
	cfg := Tekmetric{
		BaseURL:      viper.GetString("tekmetric.base_url"),
		ClientID:     viper.GetString("tekmetric.client_id"),
		ClientSecret: viper.GetString("tekmetric.client_secret"),
		ShopID:       viper.GetString("tekmetric.shop_id"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("TEKMETRIC_BASE_URL")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("TEKMETRIC_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("TEKMETRIC_CLIENT_SECRET")
	}
	if cfg.ShopID == "" {
		cfg.ShopID = os.Getenv("TEKMETRIC_SHOP_ID")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTekmetricBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg
}

// ValidateForSync ensures the public API credentials needed by job sync are present.
func (c Tekmetric) ValidateForSync() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "tekmetric.client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "tekmetric.client_secret")
	}
	if c.ShopID == "" {
		missing = append(missing, "tekmetric.shop_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: tekmetric.base_url must be an http(s) URL", common.ErrInvalidConfig)
	}
	return nil
}
