package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()

	if c.AppPort != "8080" {
		t.Fatalf("AppPort = %s", c.AppPort)
	}
	if c.StorageBackend != BackendSQLite {
		t.Fatalf("StorageBackend = %s, want sqlite", c.StorageBackend)
	}
	if c.JWTTTL != 12*time.Hour {
		t.Fatalf("JWTTTL = %s", c.JWTTTL)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendRedis)
	t.Setenv("REDIS_ADDR", "localhost:6390")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_TTL_MINUTES", "30")

	c := Load()
	if c.StorageBackend != BackendRedis || c.RedisAddr != "localhost:6390" || c.RedisDB != 3 {
		t.Fatalf("config = %+v", c)
	}
	if c.JWTTTL != 30*time.Minute {
		t.Fatalf("JWTTTL = %s", c.JWTTTL)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"unknown backend", func(c *Config) { c.StorageBackend = "mongo" }, "STORAGE_BACKEND"},
		{"empty port", func(c *Config) { c.AppPort = "" }, "APP_PORT"},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"bad mysql port", func(c *Config) { c.StorageBackend = BackendMySQL; c.MySQLPort = "not-a-port" }, "MYSQL_PORT"},
		{"missing sqlite path", func(c *Config) { c.SQLitePath = "" }, "SQLITE_PATH"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Load()
			tc.mut(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := Load()
	dsn := c.MySQLDSN()
	if !strings.Contains(dsn, "@tcp(mysql:3306)/loanverse") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("dsn = %s", dsn)
	}
}
