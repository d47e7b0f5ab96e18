package config

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	Port string

	// Reference documents
	ContentDir           string
	PDFFallbackPdftotext bool

	// Rendering
	CodeStyle    string
	HeaderOffset int

	// Contextual help
	HelpWebhookURL string
	HelpAPIKey     string
	HelpWorkers    int
	HelpQueueSize  int

	// Auth for operator endpoints; empty leaves them open.
	StatsAPIKey string

	// Scroll sync
	SessionTTL     time.Duration
	ScrollThrottle time.Duration
	FragmentDelay  time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ContentDir:           envOr("CONTENT_DIR", "./content"),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		CodeStyle:    envOr("CODE_STYLE", "github"),
		HeaderOffset: envInt("HEADER_OFFSET", 100),

		HelpWebhookURL: os.Getenv("HELP_WEBHOOK_URL"),
		HelpAPIKey:     os.Getenv("HELP_API_KEY"),
		HelpWorkers:    envInt("HELP_WORKERS", 2),
		HelpQueueSize:  envInt("HELP_QUEUE_SIZE", 100),

		StatsAPIKey: os.Getenv("STATS_API_KEY"),

		SessionTTL:     envDuration("SESSION_TTL", 30*time.Minute),
		ScrollThrottle: envDuration("SCROLL_THROTTLE", 100*time.Millisecond),
		FragmentDelay:  envDuration("FRAGMENT_DELAY", 500*time.Millisecond),
	}

	if cfg.HelpWorkers <= 0 {
		cfg.HelpWorkers = 2
	}
	if cfg.HelpQueueSize <= 0 {
		cfg.HelpQueueSize = 100
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.CodeStyle, validation.Required),
		validation.Field(&c.HeaderOffset, validation.Min(0)),
		validation.Field(&c.HelpWebhookURL, is.URL),
		validation.Field(&c.ScrollThrottle, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.FragmentDelay, validation.Required, validation.Min(time.Millisecond)),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
