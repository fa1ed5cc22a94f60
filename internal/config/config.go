// Package config loads the process configuration once at startup. The resulting Config is
// passed explicitly to every constructor that needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
)

type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"10"`
	LedgerBackend string `env:"LEDGER_BACKEND" envDefault:"postgres"`
}

type HTTPConfig struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	MaxOpenConns int `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
}

func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB" envDefault:"0"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	KeyPrefix   string        `env:"REDIS_KEY_PREFIX" envDefault:"accounts:revoked"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"accounts"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

type EmailConfig struct {
	VerificationEnabled bool          `env:"EMAIL_VERIFICATION_ENABLED" envDefault:"false"`
	ZeroBounceAPIKey    string        `env:"ZERO_BOUNCE_API_KEY"`
	ZeroBounceBaseURL   string        `env:"ZERO_BOUNCE_BASE_URL" envDefault:"https://api.zerobounce.net"`
	Timeout             time.Duration `env:"ZERO_BOUNCE_TIMEOUT" envDefault:"5s"`
}

// Load reads an optional .env file and then the environment. Variables already set in the
// environment take precedence over the file.
func Load(envFiles ...string) (Config, error) {
	cfg, err := parse(envFiles...)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadPostgres is Load for the database-only jobs. Server settings such as the JWT secret
// are not required.
func LoadPostgres(envFiles ...string) (Config, error) {
	cfg, err := parse(envFiles...)
	if err != nil {
		return Config{}, err
	}
	if cfg.Postgres.DBName == "" || cfg.Postgres.User == "" {
		return Config{}, errors.New("POSTGRES_DB and POSTGRES_USER are required")
	}
	return cfg, nil
}

func parse(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET is required and must be at least 32 bytes")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("JWT_REFRESH_TTL must be longer than JWT_ACCESS_TTL")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be in [%d..%d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.LedgerBackend {
	case LedgerPostgres, LedgerRedis:
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q", LedgerPostgres, LedgerRedis)
	}
	if c.Email.VerificationEnabled && c.Email.ZeroBounceAPIKey == "" {
		return errors.New("ZERO_BOUNCE_API_KEY is required when EMAIL_VERIFICATION_ENABLED is set")
	}
	return nil
}
