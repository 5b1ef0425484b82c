package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Annany2002/nebula-gateway/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig holds the connection settings of the backing relational database.
type DBConfig struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       int    `env:"PORT" envDefault:"5432"`
	User       string `env:"USER" envDefault:"postgres"`
	Password   string `env:"PASSWORD"`
	Name       string `env:"NAME" envDefault:"postgres"`
	SSLMode    string `env:"SSLMODE" envDefault:"disable"`
	Schema     string `env:"SCHEMA" envDefault:"public"`
	PoolSize   int    `env:"POOL_SIZE" envDefault:"10"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/gateway.db"`
}

// Config holds application configuration values
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`

	JWTSecret          string `env:"JWT_SECRET"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`
	JWTExpiration      time.Duration
	BcryptCost         int `env:"BCRYPT_COST" envDefault:"10"`

	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitRPS       float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Database DBConfig `envPrefix:"DB_"`
}

// LoadConfig loads configuration from environment variables.
// Outside production a .env file in the working directory is loaded first;
// variables already present in the environment win.
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment configuration: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, DB driver: %s, JWT Exp: %v",
		cfg.ServerPort, cfg.Database.Driver, cfg.JWTExpiration)
	return cfg, nil
}

// normalize validates parsed values and fills derived fields.
func (c *Config) normalize() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable must be set")
	}
	if c.JWTSecret == "!!replace_this_with_a_real_secret_key!!" {
		customLog.Warnln("WARNING: JWT_SECRET is set to the default placeholder!")
	}

	if c.JWTExpirationHours < 0 {
		customLog.Warnf("Invalid JWT_EXPIRATION_HOURS '%d'. Using default 24h.", c.JWTExpirationHours)
		c.JWTExpirationHours = 24
	}
	// Zero hours means tokens are issued without an exp claim.
	c.JWTExpiration = time.Hour * time.Duration(c.JWTExpirationHours)

	c.ServerPort = strings.TrimPrefix(c.ServerPort, ":")
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT '%s': must be numeric", c.ServerPort)
	}

	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "postgresql", "pgx":
		c.Database.Driver = DriverPostgres
	case "sqlite", "sqlite3":
		c.Database.Driver = DriverSQLite
	default:
		return fmt.Errorf("unsupported DB_DRIVER '%s': must be 'postgres' or 'sqlite'", c.Database.Driver)
	}

	if c.Database.PoolSize <= 0 {
		customLog.Warnf("Invalid DB_POOL_SIZE '%d'. Using default 10.", c.Database.PoolSize)
		c.Database.PoolSize = 10
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT '%v': must not be negative", c.RequestTimeout)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	return nil
}

// DSN builds the driver data source name for the configured database.
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.SQLitePath + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}

	params := url.Values{}
	params.Set("sslmode", c.Database.SSLMode)
	// Path and query-string values arrive as text; the simple protocol lets
	// the server coerce them to the column type.
	params.Set("default_query_exec_mode", "simple_protocol")
	if c.Database.Schema != "" {
		params.Set("search_path", c.Database.Schema)
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: params.Encode(),
	}
	if c.Database.Password != "" {
		u.User = url.UserPassword(c.Database.User, c.Database.Password)
	} else {
		u.User = url.User(c.Database.User)
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
