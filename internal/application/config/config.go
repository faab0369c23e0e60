package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug       bool     `env:"DEBUG" envDefault:"false"`
	Port        string   `env:"PORT" envDefault:"3000"`
	MetricPort  string   `env:"METRIC_PORT" envDefault:"9090"`
	Domain      string   `env:"DOMAIN" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	Postgres PostgresConfig
	Versus   VersusConfig
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"memstudy"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

// VersusConfig - настройки комнат мультиплеерной викторины
type VersusConfig struct {
	// CommandRate - сколько команд в секунду принимается от одного соединения
	CommandRate  float64 `env:"VERSUS_COMMAND_RATE" envDefault:"20"`
	CommandBurst int     `env:"VERSUS_COMMAND_BURST" envDefault:"40"`

	SendBuffer   int           `env:"VERSUS_SEND_BUFFER" envDefault:"256"`
	CodeAttempts int           `env:"VERSUS_CODE_ATTEMPTS" envDefault:"32"`
	DeckTimeout  time.Duration `env:"VERSUS_DECK_TIMEOUT" envDefault:"10s"`
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &c, nil
}
