// Package config loads settings from .env, an optional YAML file and the
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "configs/config.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	AI      AIConfig      `yaml:"ai"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type StorageConfig struct {
	Backend     string      `yaml:"backend"`
	SQLitePath  string      `yaml:"sqlite_path"`
	Redis       RedisConfig `yaml:"redis"`
	PostgresURL string      `yaml:"postgres_url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	SocialEmail   string        `yaml:"social_email"`
}

// AI providers. An empty provider picks Gemini when a key is present and the
// mock otherwise.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

type AIConfig struct {
	Provider     string        `yaml:"provider"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	OllamaHost   string        `yaml:"ollama_host"`
	OllamaModel  string        `yaml:"ollama_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Load reads .env (if any), the YAML file named by CONFIG_FILE (default
// configs/config.yaml, optional) and then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.readFile(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// ${VAR} references are expanded before parsing
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = append(c.Server.CORSOrigins, splitCSV(v)...)
	}

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Development = getEnvBool("LOG_DEV", c.Log.Development)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.SQLitePath = getEnv("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.Redis.Addr = getEnv("REDIS_ADDR", c.Storage.Redis.Addr)
	c.Storage.Redis.Password = getEnv("REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.Redis.DB = getEnvInt("REDIS_DB", c.Storage.Redis.DB)
	c.Storage.PostgresURL = getEnv("DATABASE_URL", c.Storage.PostgresURL)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = getEnvDuration("TOKEN_TTL", c.Auth.TokenTTL)
	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Auth.SocialEmail = getEnv("SOCIAL_EMAIL", c.Auth.SocialEmail)

	c.AI.Provider = getEnv("AI_PROVIDER", c.AI.Provider)
	c.AI.GeminiAPIKey = getEnv("GEMINI_API_KEY", getEnv("API_KEY", c.AI.GeminiAPIKey))
	c.AI.GeminiModel = getEnv("GEMINI_MODEL", c.AI.GeminiModel)
	c.AI.OllamaHost = getEnv("OLLAMA_HOST", c.AI.OllamaHost)
	c.AI.OllamaModel = getEnv("OLLAMA_MODEL", c.AI.OllamaModel)
	c.AI.Timeout = getEnvDuration("AI_TIMEOUT", c.AI.Timeout)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Port, "8081")
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:4200"}
	}
	setDefault(&c.Log.Level, "info")

	setDefault(&c.Storage.Backend, BackendSQLite)
	setDefault(&c.Storage.SQLitePath, "data/hub.db")
	setDefault(&c.Storage.Redis.Addr, "localhost:6379")

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	setDefault(&c.Auth.AdminEmail, "admin@au.org")
	setDefault(&c.Auth.AdminPassword, "admin123")
	setDefault(&c.Auth.SocialEmail, "social-user@example.com")

	if c.AI.Provider == "" {
		c.AI.Provider = ProviderMock
		if c.AI.GeminiAPIKey != "" {
			c.AI.Provider = ProviderGemini
		}
	}
	setDefault(&c.AI.GeminiModel, "gemini-2.5-flash")
	setDefault(&c.AI.OllamaHost, "http://localhost:11434")
	setDefault(&c.AI.OllamaModel, "llama3.2:latest")
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 30 * time.Second
	}
}

func (c *Config) Validate() error {
	var problems []string
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendPostgres:
	default:
		problems = append(problems, fmt.Sprintf("unknown storage backend %q", c.Storage.Backend))
	}
	switch c.AI.Provider {
	case ProviderMock, ProviderOllama:
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown AI provider %q", c.AI.Provider))
	}
	if c.Auth.TokenTTL < 0 {
		problems = append(problems, "token TTL must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func setDefault(field *string, val string) {
	if *field == "" {
		*field = val
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
