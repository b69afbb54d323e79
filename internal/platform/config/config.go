package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures everything the controller process needs to start.
type Server struct {
	Addr           string        `yaml:"addr"`
	Environment    string        `yaml:"environment"`
	LogLevel       string        `yaml:"log_level"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Agent    AgentConfig    `yaml:"agent"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

// AgentConfig points the controller at the ACA-Py admin API.
type AgentConfig struct {
	URL                    string        `yaml:"api_url"`
	APIKey                 string        `yaml:"api_key"`
	CredentialDefinitionID string        `yaml:"credential_definition_id"`
	ImageURL               string        `yaml:"image_url"`
	Timeout                time.Duration `yaml:"timeout"`
	BreakerFailures        int           `yaml:"breaker_failures"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig enables the distributed per-employee lock when URL is set.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	LockTTL      time.Duration `yaml:"lock_ttl"`
}

// KafkaConfig enables lifecycle event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

// Default returns the development configuration.
func Default() Server {
	return Server{
		Addr:           ":8080",
		Environment:    "development",
		LogLevel:       "info",
		RequestTimeout: 30 * time.Second,
		Agent: AgentConfig{
			URL:             "http://localhost:11000",
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			LockTTL:      30 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "credential-lifecycle",
		},
	}
}

// FromEnv builds the config from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
func FromEnv() (Server, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Server{}, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c *Server) loadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Server) applyEnv(getenv func(string) string) error {
	setString(getenv, "CONTROLLER_ADDR", &c.Addr)
	setString(getenv, "ENVIRONMENT", &c.Environment)
	setString(getenv, "LOG_LEVEL", &c.LogLevel)
	setString(getenv, "CONTROLLER_API_KEY", &c.APIKey)

	setString(getenv, "AGENT_API_URL", &c.Agent.URL)
	setString(getenv, "AGENT_API_KEY", &c.Agent.APIKey)
	setString(getenv, "AGENT_CREDENTIAL_DEFINITION_ID", &c.Agent.CredentialDefinitionID)
	setString(getenv, "AGENT_IMAGE_URL", &c.Agent.ImageURL)

	setString(getenv, "DATABASE_URL", &c.Database.URL)
	setString(getenv, "REDIS_URL", &c.Redis.URL)
	setString(getenv, "KAFKA_BROKERS", &c.Kafka.Brokers)
	setString(getenv, "KAFKA_TOPIC", &c.Kafka.Topic)

	var errs []error
	errs = append(errs,
		setDuration(getenv, "REQUEST_TIMEOUT", &c.RequestTimeout),
		setDuration(getenv, "AGENT_TIMEOUT", &c.Agent.Timeout),
		setDuration(getenv, "REDIS_LOCK_TTL", &c.Redis.LockTTL),
		setInt(getenv, "AGENT_BREAKER_FAILURES", &c.Agent.BreakerFailures),
	)
	return errors.Join(errs...)
}

// Validate reports every missing or inconsistent setting at once.
func (c Server) Validate() error {
	var missing []string
	if c.Agent.URL == "" {
		missing = append(missing, "AGENT_API_URL")
	}
	if c.Agent.CredentialDefinitionID == "" {
		missing = append(missing, "AGENT_CREDENTIAL_DEFINITION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("agent timeout must be positive, got %s", c.Agent.Timeout)
	}
	if c.IsProduction() && c.APIKey == "" {
		return errors.New("CONTROLLER_API_KEY is required in production")
	}
	return nil
}

func (c Server) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(getenv func(string) string, key string, dst *int) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
