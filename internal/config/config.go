package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Mail      MailConfig
	CORS      CORSConfig
}

type HTTPConfig struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	GinMode         string        `env:"GIN_MODE" env-default:"debug"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"mysql"`
	DSN             string        `env:"DB_DSN" env-default:""`
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"3306"`
	User            string        `env:"DB_USER" env-default:"taskuser"`
	Password        string        `env:"DB_PASSWORD" env-default:"taskpassword"`
	Name            string        `env:"DB_NAME" env-default:"gestao_tarefas"`
	SSLMode         string        `env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" env-default:"30m"`
	LogLevel        string        `env:"DB_LOG_LEVEL" env-default:"warn"`
}

type RedisConfig struct {
	// Addr is "host:port". Empty keeps reset tokens in process memory.
	Addr     string `env:"REDIS_ADDR" env-default:""`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" env-default:"default-secret-key-change-me"`
	Issuer        string        `env:"JWT_ISSUER" env-default:"http://localhost"`
	Audience      string        `env:"JWT_AUDIENCE" env-default:"http://localhost"`
	TokenTTL      time.Duration `env:"JWT_TTL" env-default:"1440h"`
	BcryptCost    int           `env:"BCRYPT_COST" env-default:"10"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" env-default:"1h"`
}

type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_RPM" env-default:"20"`
	Burst             int  `env:"RATE_LIMIT_BURST" env-default:"5"`
}

type MailConfig struct {
	SMTPHost     string `env:"SMTP_HOST" env-default:""`
	SMTPPort     string `env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `env:"SMTP_USER" env-default:""`
	SMTPPassword string `env:"SMTP_PASSWORD" env-default:""`
	From         string `env:"MAIL_FROM" env-default:"no-reply@localhost"`
	ResetURL     string `env:"RESET_URL" env-default:"http://localhost:3000/redefinir-senha"`
}

type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Origins splits the comma separated origin list. An empty list allows all.
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DB.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive when rate limiting is enabled")
	}
	return nil
}
