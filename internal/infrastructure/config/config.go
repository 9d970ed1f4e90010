package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// EmailDomain is the institutional suffix registrations must carry.
	EmailDomain string `env:"EMAIL_DOMAIN, default=git.edu"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
	SMTP  SMTPConfig

	MailWorkers int `env:"MAIL_WORKERS, default=4"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=120h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=docuvault"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type S3Config struct {
	Region    string        `env:"S3_REGION,     default=us-east-1"`
	Endpoint  string        `env:"S3_ENDPOINT"`
	AccessKey string        `env:"S3_ACCESS_KEY"`
	SecretKey string        `env:"S3_SECRET_KEY"`
	Bucket    string        `env:"S3_BUCKET,     default=docuvault"`
	URLExpiry time.Duration `env:"S3_URL_EXPIRY, default=15m"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	From     string `env:"SMTP_FROM, default=no-reply@git.edu"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
