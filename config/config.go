package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Poll    PollConfig
	Overlay OverlayConfig
}

// ServerConfig holds configuration for the local API server
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BackendConfig holds configuration for the comparison backend upstream
type BackendConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	SearchesPerMinute int           `mapstructure:"searches_per_minute"`
}

// PollConfig holds configuration for the "more results" polling loop
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// OverlayConfig holds the stage durations of the splash overlay sequence.
// Stages fire at cumulative offsets, so the schedule is monotonic by
// construction as long as every duration is positive.
type OverlayConfig struct {
	FadeIn      time.Duration `mapstructure:"fade_in"`
	FadeInDelay time.Duration `mapstructure:"fade_in_delay"`
	Glow        time.Duration `mapstructure:"glow"`
	LogoHold    time.Duration `mapstructure:"logo_hold"`
	LogoUp      time.Duration `mapstructure:"logo_up"`
	MessageIn   time.Duration `mapstructure:"message_in"`
	MessageHold time.Duration `mapstructure:"message_hold"`
	MessageOut  time.Duration `mapstructure:"message_out"`
	Settle      time.Duration `mapstructure:"settle"`
	FadeOut     time.Duration `mapstructure:"fade_out"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/worthit/")

	// Environment variable settings
	v.SetEnvPrefix("WORTHIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Backend defaults
	v.SetDefault("backend.base_url", "http://127.0.0.1:8000")
	v.SetDefault("backend.request_timeout", "30s")
	v.SetDefault("backend.searches_per_minute", 30)

	// Poll defaults: the backend answers {"status":"loading"} while the
	// second scrape phase runs, so re-poll on a short fixed cadence. The
	// attempt ceiling keeps a wedged backend from being polled forever.
	v.SetDefault("poll.interval", "1500ms")
	v.SetDefault("poll.max_attempts", 40)

	// Overlay stage defaults, matching the splash choreography
	v.SetDefault("overlay.fade_in", "600ms")
	v.SetDefault("overlay.fade_in_delay", "100ms")
	v.SetDefault("overlay.glow", "2000ms")
	v.SetDefault("overlay.logo_hold", "1500ms")
	v.SetDefault("overlay.logo_up", "1000ms")
	v.SetDefault("overlay.message_in", "480ms")
	v.SetDefault("overlay.message_hold", "1200ms")
	v.SetDefault("overlay.message_out", "420ms")
	v.SetDefault("overlay.settle", "180ms")
	v.SetDefault("overlay.fade_out", "600ms")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set WORTHIT_BACKEND_BASE_URL)")
	}

	if config.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got: %s", config.Poll.Interval)
	}

	if config.Poll.MaxAttempts < 1 {
		return fmt.Errorf("poll max attempts must be at least 1, got: %d", config.Poll.MaxAttempts)
	}

	if config.Backend.SearchesPerMinute < 1 {
		return fmt.Errorf("searches per minute must be at least 1, got: %d", config.Backend.SearchesPerMinute)
	}

	for name, d := range map[string]time.Duration{
		"fade_in":      config.Overlay.FadeIn,
		"glow":         config.Overlay.Glow,
		"logo_hold":    config.Overlay.LogoHold,
		"logo_up":      config.Overlay.LogoUp,
		"message_in":   config.Overlay.MessageIn,
		"message_hold": config.Overlay.MessageHold,
		"message_out":  config.Overlay.MessageOut,
		"fade_out":     config.Overlay.FadeOut,
	} {
		if d <= 0 {
			return fmt.Errorf("overlay stage duration %s must be positive", name)
		}
	}

	return nil
}
