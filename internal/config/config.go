package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"5000"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	// DBDriver selects the document store: "sqlite" (DB_DSN) or "mongo" (MONGO_URI/MONGO_DB).
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"samtech.db"`
	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"MONGO_DB" default:"samtechdb"`

	// AssetStore selects where uploaded images and PDFs live: "local" or "s3".
	AssetStore  string `envconfig:"ASSET_STORE" default:"local"`
	MediaDir    string `envconfig:"MEDIA_DIR" default:"./public"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	JWTSecret      string        `envconfig:"JWT_SECRET"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	AdminUsername  string        `envconfig:"ADMIN_USERNAME"`
	AdminPassword  string        `envconfig:"ADMIN_PASSWORD"`
	CartTTL        time.Duration `envconfig:"CART_TTL" default:"720h"`
	SweepInterval  time.Duration `envconfig:"CART_SWEEP_INTERVAL" default:"24h"`
	StreamLifetime time.Duration `envconfig:"STREAM_LIFETIME" default:"30m"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	BodyLimit      int           `envconfig:"BODY_LIMIT" default:"67108864"`
}

// Production reports whether cookies should be marked Secure.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// devSecret signs tokens outside production when JWT_SECRET is unset.
const devSecret = "dev-only-secret"

// ErrWeakSecret is returned by Validate when production runs without a real JWT secret.
var ErrWeakSecret = errors.New("JWT_SECRET must be set in production")

// Validate fills the development secret and rejects a missing or
// well-known secret in production.
func (c *Config) Validate() error {
	if c.JWTSecret == "" || c.JWTSecret == devSecret || c.JWTSecret == "change-me" {
		if c.Production() {
			return ErrWeakSecret
		}
		c.JWTSecret = devSecret
	}
	return nil
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s APP_ENV=%s DB_DRIVER=%s ASSET_STORE=%s MEDIA_DIR=%s CART_TTL=%s CART_SWEEP_INTERVAL=%s REDIS=%t",
		cfg.Port, cfg.Env, cfg.DBDriver, cfg.AssetStore, cfg.MediaDir, cfg.CartTTL, cfg.SweepInterval, cfg.RedisAddr != "")
	return cfg
}
