package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Integrations  IntegrationsConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Redis         RedisConfig
	SentryDSN     string
	CompanyDomain string
	PhonePrefix   string
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// IntegrationsConfig holds the shared secrets, API keys and allowlists for
// every external platform the service talks to.
type IntegrationsConfig struct {
	SquareSignatureKey string
	LatepointAllowlist []string
	SquareAllowlist    []string
	APIKey             string

	CampfireWebhookToken string
	CampfireStudioURL    string
	CampfireAlertURL     string
	CampfireBotURL       string

	GenderAPIKey     string
	ConvertKitAPIKey string
	ConvertKitFormID string
}

type RateLimitConfig struct {
	Requests int
	Duration int // seconds
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RedisConfig struct {
	Addr     string
	Password string
}

// requiredKeys must all be present at startup. Missing keys are collected and
// reported together so a misconfigured deployment fails once with the full
// list, not key by key.
var requiredKeys = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"DB_USER",
	"DB_PASSWORD",
	"COMPANY_EMAIL_DOMAIN",
	"SQUARE_WEBHOOK_SIGNATURE_KEY",
	"LATEPOINT_IP_ALLOWLIST",
	"SQUARE_IP_ALLOWLIST",
	"STUDIO_API_KEY",
	"CAMPFIRE_WEBHOOK_TOKEN",
	"CAMPFIRE_STUDIO_URL",
	"CAMPFIRE_ALERT_URL",
	"CAMPFIRE_BOT_URL",
	"GENDER_API_KEY",
	"CONVERTKIT_API_KEY",
	"CONVERTKIT_FORM_ID",
}

// Load reads configuration from .env and the environment. It returns an
// error listing every missing required key rather than failing lazily on
// first use.
func Load() (*Config, error) {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "studio-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", false)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/London")
	viper.SetDefault("PHONE_COUNTRY_PREFIX", "+44")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	if missing := missingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		Integrations: IntegrationsConfig{
			SquareSignatureKey:   viper.GetString("SQUARE_WEBHOOK_SIGNATURE_KEY"),
			LatepointAllowlist:   splitList(viper.GetString("LATEPOINT_IP_ALLOWLIST")),
			SquareAllowlist:      splitList(viper.GetString("SQUARE_IP_ALLOWLIST")),
			APIKey:               viper.GetString("STUDIO_API_KEY"),
			CampfireWebhookToken: viper.GetString("CAMPFIRE_WEBHOOK_TOKEN"),
			CampfireStudioURL:    viper.GetString("CAMPFIRE_STUDIO_URL"),
			CampfireAlertURL:     viper.GetString("CAMPFIRE_ALERT_URL"),
			CampfireBotURL:       viper.GetString("CAMPFIRE_BOT_URL"),
			GenderAPIKey:         viper.GetString("GENDER_API_KEY"),
			ConvertKitAPIKey:     viper.GetString("CONVERTKIT_API_KEY"),
			ConvertKitFormID:     viper.GetString("CONVERTKIT_FORM_ID"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
		},
		SentryDSN:     viper.GetString("SENTRY_DSN"),
		CompanyDomain: strings.ToLower(viper.GetString("COMPANY_EMAIL_DOMAIN")),
		PhonePrefix:   viper.GetString("PHONE_COUNTRY_PREFIX"),
	}, nil
}

// IsProduction reports whether notifications and error relays should fire
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func missingRequired() []string {
	var missing []string
	for _, key := range requiredKeys {
		if viper.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
