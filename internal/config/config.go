package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageGorm   = "gorm"
	StorageRedis  = "redis"
)

type Config struct {
	ServerPort int
	LogLevel   string

	StorageDriver string
	DatabaseURL   string
	RedisAddr     string
	RedisTTL      time.Duration

	CatalogAPIURL string
	ContactAPIURL string
	AssetBaseURL  string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string

	ClientTokenSecret []byte
	CookieSecure      bool
}

// Load reads .env when present and then the process environment. The client token
// secret is the only required key.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	cfg := Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(EnvDefault("STORAGE_DRIVER", StorageMemory)),
		DatabaseURL:   EnvDefault("DATABASE_URL", "storefront.db"),
		RedisAddr:     EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisTTL:      time.Duration(EnvIntDefault("REDIS_TTL_HOURS", 24*30)) * time.Hour,

		CatalogAPIURL: EnvDefault("CATALOG_API_URL", "https://kmd.cpsharetxt.com/api"),
		ContactAPIURL: EnvDefault("CONTACT_API_URL", "https://kmd.cpsharetxt.com/send_message.php"),
		AssetBaseURL:  EnvDefault("ASSET_BASE_URL", "https://kmd.cpsharetxt.com/"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ClientTokenSecret: []byte(os.Getenv("CLIENT_TOKEN_SECRET")),
		CookieSecure:      EnvBoolDefault("COOKIE_SECURE", false),
	}

	if err := must(string(cfg.ClientTokenSecret), "CLIENT_TOKEN_SECRET"); err != nil {
		return Config{}, err
	}
	switch cfg.StorageDriver {
	case StorageMemory, StorageGorm, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

func must(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
