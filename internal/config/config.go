package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Database DatabaseConfig `env:",prefix=DB_"`
	App      AppConfig      `env:",prefix=APP_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	AMQP     AMQPConfig     `env:",prefix=AMQP_"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string  `env:"PORT,default=8080"`
	Host         string  `env:"HOST,default=0.0.0.0"`
	ReadTimeout  int     `env:"READ_TIMEOUT,default=30"`  // seconds
	WriteTimeout int     `env:"WRITE_TIMEOUT,default=30"` // seconds
	RateLimit    float64 `env:"RATE_LIMIT,default=50"`    // requests per second, 0 disables
	RateBurst    int     `env:"RATE_BURST,default=100"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=postgres"`
	Password string `env:"PASSWORD,default=postgres"`
	Name     string `env:"NAME,default=smsleopard"`
	SSLMode  string `env:"SSL_MODE,default=disable"`
	MaxConns int    `env:"MAX_CONNS,default=25"`
	MinConns int    `env:"MIN_CONNS,default=5"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	OTPTemplate string `env:"OTP_TEMPLATE,default=Your verification code for {campaign} is {otp}"`
}

// JWTConfig holds the bearer token settings used to resolve the operator.
type JWTConfig struct {
	Secret string `env:"SECRET"`
	Issuer string `env:"ISSUER,default=smsleopard"`
}

// AMQPConfig selects the OTP delivery queue. An empty URL keeps delivery in process.
type AMQPConfig struct {
	URL   string `env:"URL"`
	Queue string `env:"QUEUE,default=otp_deliveries"`
}

// Load reads an optional .env file and then processes environment variables.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// GetDatabaseURL returns the PostgreSQL connection URL
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
