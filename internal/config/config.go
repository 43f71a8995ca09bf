package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App       AppConfig
	Discord   DiscordConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Telemetry TelemetryConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// DiscordConfig pins the bot to one guild, one forum and one support role.
// It is fixed at start-up and handed to every component by value.
type DiscordConfig struct {
	Token            string
	ApplicationID    string
	GuildID          string
	ForumChannelID   string
	SupportRoleID    string
	RegisterCommands bool
}

// RedisConfig holds Redis connection values for the member role cache.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	RoleCacheEnable bool
	RoleCacheTTLSec int
	TimeoutMS       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TelemetryConfig configures OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	appName := getEnv("APP_NAME", "support-forum-bot")
	cfg := &Config{
		App: AppConfig{
			Name:    appName,
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Discord: DiscordConfig{
			Token:            strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
			ApplicationID:    strings.TrimSpace(os.Getenv("DISCORD_APPLICATION_ID")),
			GuildID:          strings.TrimSpace(os.Getenv("DISCORD_GUILD_ID")),
			ForumChannelID:   strings.TrimSpace(os.Getenv("DISCORD_FORUM_CHANNEL_ID")),
			SupportRoleID:    strings.TrimSpace(os.Getenv("DISCORD_SUPPORT_ROLE_ID")),
			RegisterCommands: getEnvAsBool("DISCORD_REGISTER_COMMANDS", true),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			RoleCacheEnable: getEnvAsBool("ROLE_CACHE_ENABLED", true),
			RoleCacheTTLSec: getEnvAsInt("ROLE_CACHE_TTL_SECONDS", 300),
			TimeoutMS:       getEnvAsInt("REDIS_TIMEOUT_MS", 250),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", appName),
		},
	}

	return cfg, nil
}

// Validate ensures the settings the bot cannot run without are present.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Discord.GuildID == "" {
		errs = append(errs, errors.New("DISCORD_GUILD_ID is required"))
	}
	if c.Discord.ForumChannelID == "" {
		errs = append(errs, errors.New("DISCORD_FORUM_CHANNEL_ID is required"))
	}
	if c.Discord.SupportRoleID == "" {
		errs = append(errs, errors.New("DISCORD_SUPPORT_ROLE_ID is required"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address of the health server.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RoleCacheTTL returns how long cached member roles stay valid.
func (r RedisConfig) RoleCacheTTL() time.Duration {
	if r.RoleCacheTTLSec <= 0 {
		return 0
	}
	return time.Duration(r.RoleCacheTTLSec) * time.Second
}

// Timeout bounds every Redis dial and command so an unreachable cache fails fast.
func (r RedisConfig) Timeout() time.Duration {
	if r.TimeoutMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
