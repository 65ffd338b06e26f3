// Package config loads the server configuration from a YAML file, then
// applies environment overrides. Flags parsed in main win over both.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds listen and storage settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	DBPath  string    `yaml:"db_path"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// SecurityConfig holds the token signing secret and rate limits. The
// secret is supplied once per process and never persisted or logged.
type SecurityConfig struct {
	Secret    string `yaml:"secret"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// Load reads and parses the YAML config at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses command-line flags and returns
// their values along with a map of which flags were explicitly set.
func ParseCommandFlags() (addr string, dbPath string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dbPtr, *cfgPtr, setFlags
}

// ResolveConfigPath decides the config file path using the flag-provided
// value and COUNCILD_CONFIG when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("COUNCILD_CONFIG"); p != "" {
		return p
	}
	return flagPath
}

// LoadEnvOverrides applies environment overrides onto cfg and reports
// whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	if v := os.Getenv("COUNCILD_ADDR"); v != "" {
		envUsed = true
		if i := strings.LastIndex(v, ":"); i >= 0 {
			cfg.Server.Address = v[:i]
			if pi, err := strconv.Atoi(v[i+1:]); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	} else {
		if host := os.Getenv("COUNCILD_ADDRESS"); host != "" {
			envUsed = true
			cfg.Server.Address = host
		}
		if port := os.Getenv("COUNCILD_PORT"); port != "" {
			envUsed = true
			if pi, err := strconv.Atoi(port); err == nil {
				cfg.Server.Port = pi
			}
		}
	}
	if v := os.Getenv("COUNCILD_DB_PATH"); v != "" {
		envUsed = true
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("COUNCILD_SECRET"); v != "" {
		envUsed = true
		cfg.Security.Secret = v
	}
	if v := os.Getenv("COUNCILD_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("COUNCILD_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("COUNCILD_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if c := os.Getenv("COUNCILD_TLS_CERT"); c != "" {
		envUsed = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("COUNCILD_TLS_KEY"); k != "" {
		envUsed = true
		cfg.Server.TLS.KeyFile = k
	}
	return envUsed
}

// LoadEffective loads config from path and applies environment
// overrides. A missing file is not fatal; env and flags can fully
// configure the server.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}
