package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        // web UI bind address
	LogDir         string        // logs directory
	EngineURL      string        // monitoring engine base URL
	PollInterval   time.Duration // dashboard poll cadence
	HTTPTimeout    time.Duration // per-request timeout against the engine
	SessionStore   string        // "bolt", "redis" or "memory"
	SessionPath    string        // bolt file path
	RedisAddr      string        // redis session store address
	AllowedOrigins []string      // CORS allow-list for the web UI
}

// fileConfig mirrors Config for the optional YAML file named by
// SITEWATCH_CONFIG. Environment variables win over file values.
type fileConfig struct {
	Addr           string   `yaml:"addr"`
	LogDir         string   `yaml:"log_dir"`
	EngineURL      string   `yaml:"engine_url"`
	PollIntervalMS int      `yaml:"poll_interval_ms"`
	HTTPTimeoutMS  int      `yaml:"http_timeout_ms"`
	SessionStore   string   `yaml:"session_store"`
	SessionPath    string   `yaml:"session_path"`
	RedisAddr      string   `yaml:"redis_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaults() Config {
	return Config{
		Addr:         "127.0.0.1:8090",
		LogDir:       "logs",
		EngineURL:    "http://localhost:8000",
		PollInterval: 30 * time.Second,
		HTTPTimeout:  10 * time.Second,
		SessionStore: "bolt",
		SessionPath:  "sitewatch-session.db",
	}
}

// Load resolves configuration: defaults, then the optional YAML file,
// then environment variables.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv("SITEWATCH_CONFIG"); path != "" {
		applyFile(&cfg, path)
	}
	applyEnv(&cfg)
	return cfg
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}
	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if fc.EngineURL != "" {
		cfg.EngineURL = fc.EngineURL
	}
	if fc.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(fc.PollIntervalMS) * time.Millisecond
	}
	if fc.HTTPTimeoutMS > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutMS) * time.Millisecond
	}
	if fc.SessionStore != "" {
		cfg.SessionStore = fc.SessionStore
	}
	if fc.SessionPath != "" {
		cfg.SessionPath = fc.SessionPath
	}
	if fc.RedisAddr != "" {
		cfg.RedisAddr = fc.RedisAddr
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("ENGINE_URL"); v != "" {
		cfg.EngineURL = v
	}
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.HTTPTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		cfg.SessionStore = v
	}
	if v := os.Getenv("SESSION_PATH"); v != "" {
		cfg.SessionPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}
