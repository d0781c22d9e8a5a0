package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/mealpersona-backend/internal/data/db"
	"github.com/yungbote/mealpersona-backend/internal/modules/persona"
	"github.com/yungbote/mealpersona-backend/internal/observability"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

type Config struct {
	Port        string
	Environment string
	Timezone    *time.Location
	CORSOrigins []string
	// SecureCookies marks the admin cookie Secure; off for local http.
	SecureCookies bool

	Postgres db.PostgresConfig
	Otel     observability.OtelConfig

	Session services.SessionVerifierConfig
	// WebhookSecret is the svix signing secret for identity webhooks.
	WebhookSecret string

	NarrativeProvider string
	NarrativeTimeout  time.Duration
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string

	BlobProvider      string
	BlobBucket        string
	BlobPublicBaseURL string
	GCSCredentials    string
	GCSEmulatorHost   string
	S3Region          string

	RedisAddr string

	Rules persona.Rules
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Asia/Bangkok")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("ADMIN_SECURE_COOKIE", false)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_NAME", "mealpersona")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_MAX_OPEN_CONNS", 20)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	v.SetDefault("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "mealpersona-backend")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	v.SetDefault("NARRATIVE_PROVIDER", "gemini")
	v.SetDefault("NARRATIVE_TIMEOUT", services.DefaultNarrativeTimeout)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")

	v.SetDefault("BLOB_PROVIDER", "gcs")
	v.SetDefault("AWS_REGION", "ap-southeast-1")

	d := persona.DefaultRules()
	v.SetDefault("PERSONA_CHALLENGE_DAYS", d.ChallengeDays)
	v.SetDefault("PERSONA_MIN_TOTAL_MEALS", d.MinTotalMeals)
	v.SetDefault("PERSONA_MIN_ACTIVE_DAYS", d.MinActiveDays)
	v.SetDefault("PERSONA_MIN_UNIQUE_TAGS", d.MinUniqueTags)
	v.SetDefault("PERSONA_MIN_DISTINCT_CATEGORIES", d.MinDistinctCategories)
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded", "error", err)
	}
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	tz := strings.TrimSpace(v.GetString("APP_TIMEZONE"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	cfg := Config{
		Port:          v.GetString("PORT"),
		Environment:   v.GetString("APP_ENV"),
		Timezone:      loc,
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		SecureCookies: v.GetBool("ADMIN_SECURE_COOKIE"),

		Postgres: db.PostgresConfig{
			DSN:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			Name:            v.GetString("POSTGRES_NAME"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("POSTGRES_CONN_MAX_LIFETIME"),
		},
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("APP_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},

		Session: services.SessionVerifierConfig{
			PublicKeyPEM: v.GetString("CLERK_JWT_PUBLIC_KEY"),
			Secret:       v.GetString("SESSION_JWT_SECRET"),
			Issuer:       v.GetString("CLERK_ISSUER"),
		},
		WebhookSecret: v.GetString("CLERK_WEBHOOK_SECRET"),

		NarrativeProvider: strings.ToLower(strings.TrimSpace(v.GetString("NARRATIVE_PROVIDER"))),
		NarrativeTimeout:  v.GetDuration("NARRATIVE_TIMEOUT"),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIModel:       v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:     v.GetString("OPENAI_BASE_URL"),

		BlobProvider:      strings.ToLower(strings.TrimSpace(v.GetString("BLOB_PROVIDER"))),
		BlobBucket:        v.GetString("BLOB_BUCKET"),
		BlobPublicBaseURL: v.GetString("BLOB_PUBLIC_BASE_URL"),
		GCSCredentials:    v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		GCSEmulatorHost:   v.GetString("STORAGE_EMULATOR_HOST"),
		S3Region:          v.GetString("AWS_REGION"),

		RedisAddr: v.GetString("REDIS_ADDR"),

		Rules: persona.Rules{
			ChallengeDays:         v.GetInt("PERSONA_CHALLENGE_DAYS"),
			MinTotalMeals:         v.GetInt("PERSONA_MIN_TOTAL_MEALS"),
			MinActiveDays:         v.GetInt("PERSONA_MIN_ACTIVE_DAYS"),
			MinUniqueTags:         v.GetInt("PERSONA_MIN_UNIQUE_TAGS"),
			MinDistinctCategories: v.GetInt("PERSONA_MIN_DISTINCT_CATEGORIES"),
		}.WithDefaults(),
	}
	if cfg.NarrativeTimeout <= 0 {
		return Config{}, errors.New("NARRATIVE_TIMEOUT must be positive")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
