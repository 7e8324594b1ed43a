package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	Minio     MinioConfig
	Kafka     KafkaConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns the host:port pair expected by the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type CartConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	ContactRequests int
	ContactWindow   time.Duration
}

// MinioConfig is optional: an empty endpoint disables image uploads.
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PublicURL  string
	MaxUploadB int64
}

func (c MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

// KafkaConfig is optional: without brokers catalog events are dropped.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func Load() *Config {
	// Populate the process environment from .env when present; viper still
	// reads the same file so values are visible either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env into environment: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return fromViper()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CART_TTL_HOURS", 720)
	viper.SetDefault("CART_COOKIE_SECURE", false)
	viper.SetDefault("CATALOG_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("CONTACT_RATE_LIMIT", 5)
	viper.SetDefault("CONTACT_RATE_WINDOW_SECONDS", 600)
	viper.SetDefault("MINIO_BUCKET", "product-images")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_MAX_UPLOAD_BYTES", 5<<20)
	viper.SetDefault("KAFKA_TOPIC", "ecomarket.catalog")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cart: CartConfig{
			TTL:          time.Duration(viper.GetInt("CART_TTL_HOURS")) * time.Hour,
			CookieSecure: viper.GetBool("CART_COOKIE_SECURE"),
		},
		Catalog: CatalogConfig{
			CacheTTL: time.Duration(viper.GetInt("CATALOG_CACHE_TTL_SECONDS")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			ContactRequests: viper.GetInt("CONTACT_RATE_LIMIT"),
			ContactWindow:   time.Duration(viper.GetInt("CONTACT_RATE_WINDOW_SECONDS")) * time.Second,
		},
		Minio: MinioConfig{
			Endpoint:   viper.GetString("MINIO_ENDPOINT"),
			AccessKey:  viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:     viper.GetBool("MINIO_USE_SSL"),
			Bucket:     viper.GetString("MINIO_BUCKET"),
			PublicURL:  viper.GetString("MINIO_PUBLIC_URL"),
			MaxUploadB: viper.GetInt64("MINIO_MAX_UPLOAD_BYTES"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// splitList parses a comma separated env value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
