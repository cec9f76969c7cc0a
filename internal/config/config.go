package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// Storage backend selectors. sqlite is the zero-setup default; mysql and
// redis are the deployment options.
const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

type Config struct {
	AppPort string

	StorageBackend string
	SQLitePath     string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort: getenv("APP_PORT", "8080"),

		StorageBackend: getenv("STORAGE_BACKEND", BackendSQLite),
		SQLitePath:     getenv("SQLITE_PATH", "loanverse.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanverse"),
		MySQLUser: getenv("MYSQL_USER", "loanverse"),
		MySQLPass: getenv("MYSQL_PASS", "loanverse"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		JWTSecret: getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer: getenv("JWT_ISSUER", "loanverse"),
		JWTTTL:    12 * time.Hour,

		IdempTTLSecs: 300,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.JWTTTL = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case BackendMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("missing REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
