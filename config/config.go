package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CorsOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
}

type AuthConfig struct {
	SecretKey     string        `yaml:"secret_key"`
	Algorithm     string        `yaml:"algorithm"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080", CorsOrigins: []string{"*"}},
		Database: DatabaseConfig{
			User: "root",
			Host: "127.0.0.1",
			Port: "3306",
			Name: "hotel_db",
		},
		Auth: AuthConfig{
			Algorithm:     "HS256",
			TokenTTL:      30 * time.Minute,
			AdminUsername: "admin",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables (a .env file is read first if present).
func Load() (*Config, []string, error) {
	var notes []string
	if err := godotenv.Load(); err != nil {
		notes = append(notes, ".env not found or couldn't load it; continuing with environment variables")
	}

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return nil, notes, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, notes, err
	}
	return &cfg, notes, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		cfg.Server.CorsOrigins = parseList(raw)
	}

	if raw := strings.TrimSpace(os.Getenv("MYSQL_URL")); raw != "" {
		cfg.Database.URL = raw
	} else {
		setString(&cfg.Database.URL, "DATABASE_URL")
	}
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASS")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Name, "DB_NAME")

	setString(&cfg.Auth.SecretKey, "SECRET_KEY")
	setString(&cfg.Auth.Algorithm, "ALGORITHM")
	if raw := strings.TrimSpace(os.Getenv("EXPIRATION_TIME")); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			cfg.Auth.TokenTTL = time.Duration(minutes) * time.Minute
		}
	}
	setString(&cfg.Auth.AdminUsername, "ADMIN_USERNAME")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")

	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return fmt.Errorf("SECRET_KEY is not set")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
