package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	OIDC      OIDCConfig      `mapstructure:"oidc"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Blog      BlogConfig      `mapstructure:"blog"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	CSRF    bool      `mapstructure:"csrf"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" or "mysql"
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds session cookie and store settings.
type SessionConfig struct {
	Lifetime        int           `mapstructure:"lifetime"` // hours
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// OIDCConfig holds OIDC client configuration. OIDC login is disabled when
// IssuerURL is empty.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether an identity provider has been configured.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds the lookup cache configuration.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig describes where uploaded post images go.
type StorageConfig struct {
	Driver         string   `mapstructure:"driver"` // "local" or "s3"
	UploadDir      string   `mapstructure:"upload_dir"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	MaxWidth       int      `mapstructure:"max_width"`
	MaxHeight      int      `mapstructure:"max_height"`
	S3             S3Config `mapstructure:"s3"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// RateLimitConfig configures the per-client POST limiter.
type RateLimitConfig struct {
	Every  time.Duration `mapstructure:"every"`
	Burst  int           `mapstructure:"burst"`
	Expire time.Duration `mapstructure:"expire"`
}

// BlogConfig holds settings for listings.
type BlogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/blogicum/")
	v.AddConfigPath("$HOME/.blogicum")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Every key needs a default, otherwise viper.Unmarshal never sees the
// matching environment variable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.csrf", true)
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")

	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:blogicum.db?_foreign_keys=on&_journal_mode=WAL")

	v.SetDefault("session.lifetime", 24*14)
	v.SetDefault("session.cleanup_interval", 5*time.Minute)

	v.SetDefault("oidc.issuer_url", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.redirect_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.upload_dir", "./media")
	v.SetDefault("storage.max_upload_bytes", 10<<20)
	v.SetDefault("storage.max_width", 8000)
	v.SetDefault("storage.max_height", 8000)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.public_url", "")
	v.SetDefault("storage.s3.use_ssl", true)

	v.SetDefault("ratelimit.every", 2*time.Second)
	v.SetDefault("ratelimit.burst", 10)
	v.SetDefault("ratelimit.expire", time.Hour)

	v.SetDefault("blog.page_size", 10)
}
