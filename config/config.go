// config/config.go
package config

import (
	"log"
	"os"
)

const defaultCryptoAPIURL = "https://api.nowpayments.io/v1"

// CryptoConfig holds the payment provider credentials and the deployment
// base URL used to build the success/cancel callback URLs. Resolved from the
// environment once at startup and injected into the gateway client.
type CryptoConfig struct {
	APIKey  string
	APIURL  string
	SiteURL string
}

// LoadCryptoConfig reads the payment provider configuration from the
// environment. Missing credentials are logged but not fatal: the gateway
// client fails closed per request instead of crashing the process.
func LoadCryptoConfig() CryptoConfig {
	cfg := CryptoConfig{
		APIKey:  os.Getenv("CRYPTO_API_KEY"),
		APIURL:  os.Getenv("CRYPTO_API_URL"),
		SiteURL: os.Getenv("BASE_URL"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultCryptoAPIURL
	}

	if cfg.APIKey == "" || cfg.SiteURL == "" {
		log.Printf("WARNING: crypto payment provider not fully configured:")
		if cfg.APIKey == "" {
			log.Printf("  - CRYPTO_API_KEY is missing")
		}
		if cfg.SiteURL == "" {
			log.Printf("  - BASE_URL is missing")
		}
		log.Printf("Set these environment variables for crypto payments to work")
	} else {
		log.Printf("Crypto payment provider configuration:")
		log.Printf("  API URL: %s", cfg.APIURL)
		log.Printf("  Site URL: %s", cfg.SiteURL)
		log.Printf("  API Key: [CONFIGURED]")
	}

	return cfg
}

// StoreConfig selects the data store backend. UseFixtures is resolved here,
// once, so core logic never branches on the environment itself.
type StoreConfig struct {
	UseFixtures bool
	Database    string
}

// LoadStoreConfig reads the data store configuration from the environment.
func LoadStoreConfig() StoreConfig {
	cfg := StoreConfig{
		UseFixtures: os.Getenv("USE_FIXTURE_STORE") == "true",
		Database:    os.Getenv("DB_NAME"),
	}
	if cfg.Database == "" {
		cfg.Database = "casino"
	}
	if cfg.UseFixtures {
		log.Printf("Data store: using in-memory fixture store")
	}
	return cfg
}
