package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the complete service configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Leads     LeadsConfig     `toml:"leads"`
	Policy    PolicyConfig    `toml:"policy"`
	Solver    SolverConfig    `toml:"solver"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// StorageConfig selects the store: "sqlite" or "postgres" through database/sql,
// or "memory" for a process-local store that ignores DSN.
type StorageConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// CacheConfig selects the quote cache: "memory" or "redis".
type CacheConfig struct {
	Driver    string   `toml:"driver"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// RateLimitConfig sizes the per-client token bucket. Forwarded headers only
// identify the client when the connection comes from a TrustedProxies entry
// (CIDR or single IP).
type RateLimitConfig struct {
	Capacity       int      `toml:"capacity"`
	Window         Duration `toml:"window"`
	TrustedProxies []string `toml:"trusted_proxies"`
}

// LeadsConfig points at the external endpoint that receives rental inquiries.
type LeadsConfig struct {
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

type PolicyConfig struct {
	Path string `toml:"path"`
}

type SolverConfig struct {
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max_iterations"`
	ShrinkFactor  float64 `toml:"shrink_factor"`
	PaymentSlack  float64 `toml:"payment_slack"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(toml.MetaData{})
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults(md)
	return &cfg, nil
}

// LoadFromEnv loads a .env file if present, then the TOML file named by
// MORTGAGE_CONFIG (or a default location), then applies env overrides.
// Without any config file the defaults are used.
func LoadFromEnv() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	path := os.Getenv("MORTGAGE_CONFIG")
	if path == "" {
		for _, p := range []string{
			"./configs/config.toml",
			"./config.toml",
			filepath.Join(os.Getenv("HOME"), ".config/mortgage-engine/config.toml"),
		} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// applyDefaults fills unset fields. md tells keys written as zero apart from
// missing ones where zero is a meaningful setting.
func (c *Config) applyDefaults(md toml.MetaData) {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}
	if c.Server.IdleTimeout.Duration == 0 {
		c.Server.IdleTimeout.Duration = 60 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}

	// Storage
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.DSN == "" && c.Storage.Driver == "sqlite" {
		c.Storage.DSN = "./data/mortgage.db"
	}

	// Cache
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 15 * time.Minute
	}

	// Rate limit
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 5
	}
	if c.RateLimit.Window.Duration == 0 {
		c.RateLimit.Window.Duration = time.Minute
	}

	// Leads
	if c.Leads.Timeout.Duration == 0 {
		c.Leads.Timeout.Duration = 10 * time.Second
	}
	// the 502 for a slow lead endpoint must be written before the server
	// drops the connection
	if c.Leads.Timeout.Duration >= c.Server.WriteTimeout.Duration {
		c.Leads.Timeout.Duration = c.Server.WriteTimeout.Duration * 2 / 3
	}

	// Solver
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = 100
	}
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = 10
	}
	if c.Solver.ShrinkFactor == 0 {
		c.Solver.ShrinkFactor = 0.95
	}
	if c.Solver.PaymentSlack < 0 || (c.Solver.PaymentSlack == 0 && !md.IsDefined("solver", "payment_slack")) {
		c.Solver.PaymentSlack = 1
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT env variable: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Driver = "redis"
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("LEAD_ENDPOINT"); v != "" {
		c.Leads.Endpoint = v
	}
	if v := os.Getenv("POLICY_PATH"); v != "" {
		c.Policy.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}
