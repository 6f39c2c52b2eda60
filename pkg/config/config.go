package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Service names used to pick defaults
const (
	ServiceSubmission = "claim-submission"
	ServiceMessaging  = "messaging"
	ServicePolicy     = "policy-administration"
	ServiceManagement = "claim-management"
)

var defaultPorts = map[string]int{
	ServiceSubmission: 3000,
	ServiceMessaging:  3001,
	ServicePolicy:     3002,
	ServiceManagement: 3003,
}

// Store kinds
const (
	StoreMemory   = "memory"
	StoreCSV      = "csv"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	Service  string
	Env      string
	Server   ServerConfig
	Upstream UpstreamConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// UpstreamConfig holds the addresses of the other services
type UpstreamConfig struct {
	MessagingURL         string
	ManagementWebhookURL string
	PolicyURL            string
	NotifyTimeout        time.Duration
}

// StorageConfig selects and locates the stores
type StorageConfig struct {
	ClaimStore   string
	ClaimsCSV    string
	MessageStore string
	PoliciesFile string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           int
	Password       string
	DB             int
	PolicyCacheTTL int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration for the named service. A .env file in the working
// directory is loaded first when present; CLAIMS_CONFIG_FILE may name a YAML
// file of KEY: value defaults. Environment variables always win.
func Load(service string) (*Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	src := &source{}
	if path := os.Getenv("CLAIMS_CONFIG_FILE"); path != "" {
		if err := src.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Service: service,
		Env:     src.getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Host: src.getEnv("SERVER_HOST", "0.0.0.0"),
			Port: src.getEnvAsInt("PORT", defaultPorts[service]),
		},
		Upstream: UpstreamConfig{
			MessagingURL:         src.getEnv("MESSAGING_URL", src.getEnv("EMAIL_SERVICE_URL", "http://localhost:3001")),
			ManagementWebhookURL: src.getEnv("MANAGEMENT_WEBHOOK_URL", ""),
			PolicyURL:            src.getEnv("POLICY_SERVICE_URL", "http://localhost:3002"),
			NotifyTimeout:        src.getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		},
		Storage: StorageConfig{
			ClaimStore:   strings.ToLower(src.getEnv("CLAIM_STORE", StoreMemory)),
			ClaimsCSV:    src.getEnv("CLAIMS_CSV", "claims.csv"),
			MessageStore: strings.ToLower(src.getEnv("MESSAGE_STORE", StoreMemory)),
			PoliciesFile: src.getEnv("POLICIES_FILE", "policies.csv"),
		},
		Database: DatabaseConfig{
			Host:     src.getEnv("DB_HOST", "localhost"),
			Port:     src.getEnvAsInt("DB_PORT", 5432),
			User:     src.getEnv("DB_USER", "postgres"),
			Password: src.getEnv("DB_PASSWORD", ""),
			Database: src.getEnv("DB_NAME", "claims"),
			SSLMode:  src.getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:        src.getEnvAsBool("REDIS_ENABLED", false),
			Host:           src.getEnv("REDIS_HOST", "localhost"),
			Port:           src.getEnvAsInt("REDIS_PORT", 6379),
			Password:       src.getEnv("REDIS_PASSWORD", ""),
			DB:             src.getEnvAsInt("REDIS_DB", 0),
			PolicyCacheTTL: src.getEnvAsInt("POLICY_CACHE_TTL", 300),
		},
		OTEL: OTELConfig{
			ServiceName:    src.getEnv("OTEL_SERVICE_NAME", service),
			ServiceVersion: src.getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       src.getEnv("OTEL_ENDPOINT", ""),
			Enabled:        src.getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.ClaimStore {
	case StoreMemory, StoreCSV, StorePostgres:
	default:
		return fmt.Errorf("unsupported CLAIM_STORE %q", c.Storage.ClaimStore)
	}
	switch c.Storage.MessageStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unsupported MESSAGE_STORE %q", c.Storage.MessageStore)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT must be set for service %q", c.Service)
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// source resolves keys from the environment, then from the YAML overlay.
type source struct {
	file map[string]string
}

func (s *source) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	s.file = make(map[string]string, len(raw))
	for key, value := range raw {
		s.file[strings.ToUpper(key)] = fmt.Sprint(value)
	}
	return nil
}

func (s *source) lookup(key string) (string, bool) {
	if value := os.Getenv(key); value != "" {
		return value, true
	}
	if value, ok := s.file[key]; ok && value != "" {
		return value, true
	}
	return "", false
}

func (s *source) getEnv(key, defaultValue string) string {
	if value, ok := s.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (s *source) getEnvAsInt(key string, defaultValue int) int {
	if value, ok := s.lookup(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func (s *source) getEnvAsBool(key string, defaultValue bool) bool {
	if value, ok := s.lookup(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("5s") or a bare number of seconds.
// Values that are not positive fall back to the default.
func (s *source) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := s.lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return defaultValue
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return defaultValue
	}
	return d
}
