package config

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the qualification engine.
type Config struct {
	Site     SiteConfig
	Analysis AnalysisConfig
	Timing   TimingConfig
	Server   ServerConfig
	Webhook  WebhookConfig
	Database DatabaseConfig

	LogDevelopment bool
}

// SiteConfig covers the target marketplace and the browser identity used to
// drive it.
type SiteConfig struct {
	BaseURL   string
	Username  string
	Password  string
	Headless  bool
	UserAgent string
}

// AnalysisConfig holds the classification heuristic parameters.
type AnalysisConfig struct {
	ThresholdPercent  float64
	MaxPagesPerBroker int
	MaxDealsToAnalyze int
	MinTitleLength    int
	GoodKeywords      []string
	BadKeywords       []string
}

// TimingConfig holds wait budgets and human-like pacing ranges. Waits gate
// correctness; pacing delays only shape the request pattern.
type TimingConfig struct {
	LoginWait       time.Duration
	PopupWait       time.Duration
	NavigateTimeout time.Duration
	MarkerWait      time.Duration
	PageControlWait time.Duration
	SocialWait      time.Duration

	PageDelayMin     time.Duration
	PageDelayMax     time.Duration
	AnalysisDelayMin time.Duration
	AnalysisDelayMax time.Duration
	ExtractDelayMin  time.Duration
	ExtractDelayMax  time.Duration

	GlobalTimeout time.Duration
}

type ServerConfig struct {
	Addr string
}

type WebhookConfig struct {
	URL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the connection string for the pgx stdlib driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// defaultGoodKeywords mark desirable (bridge/transitional) loan types.
var defaultGoodKeywords = []string{
	"bridge", "construction", "acquisition", "refinance", "refinances",
	"mezzanine", "mezz", "rehab", "rehabilitation", "development",
	"lease-up", "stabilization", "value-add", "repositioning",
	"transitional", "gap", "interim",
}

// defaultBadKeywords mark disqualifying (permanent/agency) loan types.
var defaultBadKeywords = []string{
	"permanent", "perm", "takeout", "fixed-rate", "amortizing", "agency",
	"conduit", "life company", "hud", "fannie", "freddie",
}

// Load reads configuration from the environment (plus an optional .env file)
// on top of built-in defaults.
func Load() Config {
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	return Config{
		Site: SiteConfig{
			BaseURL:   viper.GetString("SITE_BASE_URL"),
			Username:  viper.GetString("TRADED_USERNAME"),
			Password:  viper.GetString("TRADED_PASSWORD"),
			Headless:  viper.GetBool("HEADLESS"),
			UserAgent: viper.GetString("USER_AGENT"),
		},
		Analysis: AnalysisConfig{
			ThresholdPercent:  viper.GetFloat64("THRESHOLD_PERCENT"),
			MaxPagesPerBroker: viper.GetInt("MAX_PAGES_PER_BROKER"),
			MaxDealsToAnalyze: viper.GetInt("MAX_DEALS_TO_ANALYZE"),
			MinTitleLength:    viper.GetInt("MIN_TITLE_LENGTH"),
			GoodKeywords:      defaultGoodKeywords,
			BadKeywords:       defaultBadKeywords,
		},
		Timing: TimingConfig{
			LoginWait:       20 * time.Second,
			PopupWait:       7 * time.Second,
			NavigateTimeout: 30 * time.Second,
			MarkerWait:      10 * time.Second,
			PageControlWait: 5 * time.Second,
			SocialWait:      4 * time.Second,

			PageDelayMin:     2 * time.Second,
			PageDelayMax:     4 * time.Second,
			AnalysisDelayMin: 8 * time.Second,
			AnalysisDelayMax: 12 * time.Second,
			ExtractDelayMin:  1500 * time.Millisecond,
			ExtractDelayMax:  3 * time.Second,

			GlobalTimeout: viper.GetDuration("GLOBAL_TIMEOUT"),
		},
		Server: ServerConfig{
			Addr: viper.GetString("SERVER_ADDR"),
		},
		Webhook: WebhookConfig{
			URL: viper.GetString("WEBHOOK_URL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		LogDevelopment: viper.GetBool("LOG_DEVELOPMENT"),
	}
}

func setDefaults() {
	viper.SetDefault("SITE_BASE_URL", "https://traded.co")
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("USER_AGENT",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	viper.SetDefault("THRESHOLD_PERCENT", 40)
	viper.SetDefault("MAX_PAGES_PER_BROKER", 5)
	viper.SetDefault("MAX_DEALS_TO_ANALYZE", 100)
	viper.SetDefault("MIN_TITLE_LENGTH", 20)

	viper.SetDefault("GLOBAL_TIMEOUT", 90*time.Minute)
	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("WEBHOOK_URL", "")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "traded")
	viper.SetDefault("DB_PASSWORD", "traded")
	viper.SetDefault("DB_NAME", "broker_scout")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("LOG_DEVELOPMENT", false)
}

// Delay returns a random duration in [min, max) for human-like pacing.
func Delay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
