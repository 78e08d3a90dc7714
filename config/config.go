package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Auth     Auth     `mapstructure:"auth"`
	Model    Model    `mapstructure:"model"`
	Chat     Chat     `mapstructure:"chat"`
}

type Server struct {
	Addr         string        `mapstructure:"addr"`
	TimeoutRead  time.Duration `mapstructure:"timeout_read"`
	TimeoutWrite time.Duration `mapstructure:"timeout_write"`
	TimeoutIdle  time.Duration `mapstructure:"timeout_idle"`
	CorsOrigins  []string      `mapstructure:"cors_origins"`
}

type Database struct {
	DSN string `mapstructure:"dsn"`
}

type Auth struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type Model struct {
	Provider  string `mapstructure:"provider"`
	Name      string `mapstructure:"name"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type Chat struct {
	MaxTurns            int `mapstructure:"max_turns"`
	TimezoneOffsetHours int `mapstructure:"timezone_offset_hours"`
}

const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// SetDefaults registers every known key on v so that environment
// overrides work even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":9090")
	v.SetDefault("server.timeout_read", 30*time.Second)
	v.SetDefault("server.timeout_write", 5*time.Minute)
	v.SetDefault("server.timeout_idle", 60*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.dsn", "file:itemo.db")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)

	v.SetDefault("model.provider", ProviderClaude)
	v.SetDefault("model.name", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.max_tokens", 1024)

	v.SetDefault("chat.max_turns", 6)
	v.SetDefault("chat.timezone_offset_hours", 9)
}

// Init prepares v: defaults, .env, ITEMO_ environment overrides and the
// optional config file. A missing config file is not an error.
func Init(v *viper.Viper, file string) error {
	_ = godotenv.Load()

	SetDefaults(v)

	v.SetEnvPrefix("ITEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("itemo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load decodes v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderClaude, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Chat.MaxTurns <= 0 {
		return errors.New("chat.max_turns must be positive")
	}
	if c.Model.MaxTokens <= 0 {
		return errors.New("model.max_tokens must be positive")
	}
	return nil
}

// ValidateServe checks the settings that only matter for a running server.
func (c *Config) ValidateServe() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required (ITEMO_AUTH_SECRET)")
	}
	return nil
}

// Location returns the club's home time zone.
func (c *Config) Location() *time.Location {
	return HomeLocation(c.Chat.TimezoneOffsetHours)
}

func HomeLocation(offsetHours int) *time.Location {
	if offsetHours == 9 {
		return time.FixedZone("KST", 9*60*60)
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}
