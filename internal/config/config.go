// Package config provides application configuration loaded from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const devSessionSecret = "devsessionsecret"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Model    ModelConfig    `mapstructure:"model"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // seconds
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	CORSOrigins  string `mapstructure:"cors_origins"` // comma separated
}

// DatabaseConfig holds connection settings for postgres or sqlite.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSNOverride string `mapstructure:"dsn"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	Migrations  bool   `mapstructure:"migrations"`
	Debug       bool   `mapstructure:"debug"`
}

// SessionConfig holds cookie and session store settings.
type SessionConfig struct {
	Backend       string `mapstructure:"backend"` // memory | redis
	CookieName    string `mapstructure:"cookie_name"`
	Secret        string `mapstructure:"secret"`
	TTL           int    `mapstructure:"ttl"` // seconds
	Secure        bool   `mapstructure:"secure"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// StorageConfig selects where avatars are kept.
type StorageConfig struct {
	Backend        string `mapstructure:"backend"` // local | minio | s3
	UploadDir      string `mapstructure:"upload_dir"`
	MaxAvatarBytes int64  `mapstructure:"max_avatar_bytes"`
	MinIOEndpoint  string `mapstructure:"minio_endpoint"`
	MinIOAccessKey string `mapstructure:"minio_access_key"`
	MinIOSecretKey string `mapstructure:"minio_secret_key"`
	MinIOBucket    string `mapstructure:"minio_bucket"`
	MinIOUseSSL    bool   `mapstructure:"minio_use_ssl"`
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Region       string `mapstructure:"s3_region"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`
}

// ModelConfig points at an external classifier artifact and knowledge directory.
// Empty values select the embedded copies.
type ModelConfig struct {
	Path    string `mapstructure:"path"`
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text
	Output string `mapstructure:"output"` // stdout or a file path
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev bool `mapstructure:"dev"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format, as golang-migrate expects.
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(d.DSNOverride, "postgres://") || strings.HasPrefix(d.DSNOverride, "postgresql://") {
		return d.DSNOverride
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Origins splits the configured CORS origins.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.max_body_bytes", 8<<20)
	v.SetDefault("server.cors_origins", "http://localhost:5173,http://127.0.0.1:5173")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "medicine")
	v.SetDefault("database.password", "medicine")
	v.SetDefault("database.name", "medicine")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "medicine.db")
	v.SetDefault("database.migrations", false)
	v.SetDefault("database.debug", false)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.cookie_name", "medicine_session")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 3600)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.max_avatar_bytes", 5<<20)
	v.SetDefault("storage.minio_endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "avatars")
	v.SetDefault("storage.minio_use_ssl", false)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_endpoint", "")

	v.SetDefault("model.path", "")
	v.SetDefault("model.data_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("app.dev", false)
}

// Load reads .env, then an optional config.toml, then environment variables.
// Environment keys are the config keys upper-cased with "." replaced by "_",
// e.g. SESSION_SECRET or DATABASE_DRIVER.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	configName := "config"
	if name := os.Getenv("CONFIG_NAME"); name != "" {
		configName = name
	}
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Session.Secret == "" && cfg.App.Dev {
		log.Warn("SESSION_SECRET is not set; signing cookies with the built-in development secret")
		cfg.Session.Secret = devSessionSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	switch c.Storage.Backend {
	case "local", "minio", "s3":
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required outside dev mode")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Storage.MaxAvatarBytes <= 0 {
		return errors.New("storage max_avatar_bytes must be positive")
	}
	if c.Storage.Backend == "s3" && c.Storage.S3Bucket == "" {
		return errors.New("storage s3_bucket is required for the s3 backend")
	}
	return nil
}

// Masked returns a copy safe to print.
func (c Config) Masked() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.Database.Password = mask(c.Database.Password)
	c.Database.DSNOverride = mask(c.Database.DSNOverride)
	c.Session.Secret = mask(c.Session.Secret)
	c.Session.RedisPassword = mask(c.Session.RedisPassword)
	c.Storage.MinIOSecretKey = mask(c.Storage.MinIOSecretKey)
	return c
}
