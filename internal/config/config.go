// Package config provides configuration loading and validation for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration constants.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultMongoDBTimeout     = 10 * time.Second
	DefaultMongoDBMaxPoolSize = 100

	DefaultRedisPoolSize = 10

	DefaultJWTLeeway          = 30 * time.Second
	DefaultJWTRefreshInterval = 1 * time.Hour

	DefaultMonitorTimeout      = 5 * time.Second
	DefaultMonitorDrainTimeout = 10 * time.Second

	DefaultConseillerCacheTTL = 5 * time.Minute

	DefaultMiloTimeout          = 10 * time.Second
	DefaultMiloFailureThreshold = 5
	DefaultMiloMaxRequests      = 1
	DefaultMiloOpenTimeout      = 30 * time.Second

	DefaultEventsMaxRetries     = 3
	DefaultEventsMaxDeadLetters = 1000
	DefaultEventsWorkerPort     = 9091
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AuthMode selects how access tokens are validated.
type AuthMode string

const (
	// AuthModeKeycloak validates signed tokens against the identity provider's JWKS.
	AuthModeKeycloak AuthMode = "keycloak"

	// AuthModeDev accepts "dev:<TYPE>:<STRUCTURE>:<ID>" tokens. Refused in production.
	AuthModeDev AuthMode = "dev"
)

// Config holds the complete application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	Redis    RedisConfig    `yaml:"redis"`
	Keycloak KeycloakConfig `yaml:"keycloak"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Cache    CacheConfig    `yaml:"cache"`
	Milo     MiloConfig     `yaml:"milo"`
	Events   EventsConfig   `yaml:"events"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	// Name is the application name used in logs.
	Name string `yaml:"name" env:"APP_NAME"`

	// Environment is "development" or "production".
	Environment string `yaml:"environment" env:"APP_ENV"`
}

// ServerConfig holds HTTP server configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// Address returns the full server address (host:port).
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoDBConfig holds MongoDB connection configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type MongoDBConfig struct {
	URI         string        `yaml:"uri" env:"MONGODB_URI"`
	Database    string        `yaml:"database" env:"MONGODB_DATABASE"`
	Timeout     time.Duration `yaml:"timeout" env:"MONGODB_TIMEOUT"`
	MaxPoolSize uint64        `yaml:"max_pool_size" env:"MONGODB_MAX_POOL_SIZE"`
}

// RedisConfig holds Redis connection configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
}

// KeycloakConfig holds identity provider configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type KeycloakConfig struct {
	URL      string    `yaml:"url" env:"KEYCLOAK_URL"`
	Realm    string    `yaml:"realm" env:"KEYCLOAK_REALM"`
	ClientID string    `yaml:"client_id" env:"KEYCLOAK_CLIENT_ID"`
	JWT      JWTConfig `yaml:"jwt"`
}

// JWTConfig holds JWT validation configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type JWTConfig struct {
	Leeway          time.Duration `yaml:"leeway" env:"KEYCLOAK_JWT_LEEWAY"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"KEYCLOAK_JWT_REFRESH_INTERVAL"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Mode AuthMode `yaml:"mode" env:"AUTH_MODE"`
}

// LogConfig holds logging configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug | info | warn | error
	Format string `yaml:"format" env:"LOG_FORMAT"` // json | text
}

// MonitorConfig bounds the asynchronous monitor step of use cases.
//
//nolint:golines // Struct tags require longer lines for readability
type MonitorConfig struct {
	Timeout      time.Duration `yaml:"timeout" env:"MONITOR_TIMEOUT"`
	DrainTimeout time.Duration `yaml:"drain_timeout" env:"MONITOR_DRAIN_TIMEOUT"`
}

// CacheConfig holds in-process cache configuration.
type CacheConfig struct {
	ConseillerTTL time.Duration `yaml:"conseiller_ttl" env:"CACHE_CONSEILLER_TTL"`
}

// MiloConfig holds the Milo partner client configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type MiloConfig struct {
	URL              string        `yaml:"url" env:"MILO_URL"`
	APIKey           string        `yaml:"api_key" env:"MILO_API_KEY"`
	Timeout          time.Duration `yaml:"timeout" env:"MILO_TIMEOUT"`
	FailureThreshold uint32        `yaml:"failure_threshold" env:"MILO_FAILURE_THRESHOLD"`
	MaxRequests      uint32        `yaml:"max_requests" env:"MILO_MAX_REQUESTS"`
	OpenTimeout      time.Duration `yaml:"open_timeout" env:"MILO_OPEN_TIMEOUT"`
	Timezone         string        `yaml:"timezone" env:"MILO_TIMEZONE"`
}

// EventsConfig holds the engagement evenement bus configuration.
//
//nolint:golines // Struct tags require longer lines for readability
type EventsConfig struct {
	ChannelPrefix  string `yaml:"channel_prefix" env:"EVENTS_CHANNEL_PREFIX"`
	DeadLetterKey  string `yaml:"dead_letter_key" env:"EVENTS_DEAD_LETTER_KEY"`
	MaxRetries     int    `yaml:"max_retries" env:"EVENTS_MAX_RETRIES"`
	MaxDeadLetters int64  `yaml:"max_dead_letters" env:"EVENTS_MAX_DEAD_LETTERS"`

	// WorkerPort serves the worker's /health, /ready and /metrics.
	WorkerPort int `yaml:"worker_port" env:"EVENTS_WORKER_PORT"`
}

// Configuration errors.
var (
	ErrConfigNotFound     = errors.New("configuration file not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrMissingRequired    = errors.New("missing required configuration")
	ErrInvalidDuration    = errors.New("invalid duration format")
	ErrInvalidLogLevel    = errors.New("invalid log level: must be debug, info, warn, or error")
	ErrInvalidLogFormat   = errors.New("invalid log format: must be json or text")
	ErrInvalidEnvironment = errors.New("invalid environment: must be development or production")
	ErrInvalidAuthMode    = errors.New("invalid auth mode: must be keycloak or dev")
	ErrDevAuthInProd      = errors.New("dev auth mode is not allowed in production")
	ErrInvalidTimezone    = errors.New("invalid milo timezone")
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "passemploi-api",
			Environment: EnvDevelopment,
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:         "mongodb://localhost:27017",
			Database:    "passemploi",
			Timeout:     DefaultMongoDBTimeout,
			MaxPoolSize: DefaultMongoDBMaxPoolSize,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: DefaultRedisPoolSize,
		},
		Keycloak: KeycloakConfig{
			URL:      "http://localhost:8090",
			Realm:    "pass-emploi",
			ClientID: "pass-emploi-api",
			JWT: JWTConfig{
				Leeway:          DefaultJWTLeeway,
				RefreshInterval: DefaultJWTRefreshInterval,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeKeycloak,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Monitor: MonitorConfig{
			Timeout:      DefaultMonitorTimeout,
			DrainTimeout: DefaultMonitorDrainTimeout,
		},
		Cache: CacheConfig{
			ConseillerTTL: DefaultConseillerCacheTTL,
		},
		Milo: MiloConfig{
			URL:              "http://localhost:8091",
			Timeout:          DefaultMiloTimeout,
			FailureThreshold: DefaultMiloFailureThreshold,
			MaxRequests:      DefaultMiloMaxRequests,
			OpenTimeout:      DefaultMiloOpenTimeout,
			Timezone:         "Europe/Paris",
		},
		Events: EventsConfig{
			ChannelPrefix:  "evenements:",
			DeadLetterKey:  "evenements:dead_letter",
			MaxRetries:     DefaultEventsMaxRetries,
			MaxDeadLetters: DefaultEventsMaxDeadLetters,
			WorkerPort:     DefaultEventsWorkerPort,
		},
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []error

	errs = c.validateApp(errs)
	errs = c.validateServer(errs)
	errs = c.validateMongoDB(errs)
	errs = c.validateRedis(errs)
	errs = c.validateAuth(errs)
	errs = c.validateLog(errs)
	errs = c.validateMonitor(errs)
	errs = c.validateCache(errs)
	errs = c.validateMilo(errs)
	errs = c.validateEvents(errs)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, errors.Join(errs...))
	}

	return nil
}

func (c *Config) validateApp(errs []error) []error {
	if c.App.Environment != EnvDevelopment && c.App.Environment != EnvProduction {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidEnvironment, c.App.Environment))
	}
	return errs
}

func (c *Config) validateServer(errs []error) []error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	return errs
}

func (c *Config) validateMongoDB(errs []error) []error {
	if c.MongoDB.URI == "" {
		errs = append(errs, fmt.Errorf("%w: mongodb.uri", ErrMissingRequired))
	}
	if c.MongoDB.Database == "" {
		errs = append(errs, fmt.Errorf("%w: mongodb.database", ErrMissingRequired))
	}
	return errs
}

func (c *Config) validateRedis(errs []error) []error {
	if c.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: redis.addr", ErrMissingRequired))
	}
	return errs
}

func (c *Config) validateAuth(errs []error) []error {
	switch c.Auth.Mode {
	case AuthModeKeycloak:
		if c.Keycloak.URL == "" {
			errs = append(errs, fmt.Errorf("%w: keycloak.url", ErrMissingRequired))
		}
		if c.Keycloak.Realm == "" {
			errs = append(errs, fmt.Errorf("%w: keycloak.realm", ErrMissingRequired))
		}
	case AuthModeDev:
		if c.IsProduction() {
			errs = append(errs, ErrDevAuthInProd)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidAuthMode, c.Auth.Mode))
	}
	return errs
}

func (c *Config) validateLog(errs []error) []error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ErrInvalidLogLevel)
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ErrInvalidLogFormat)
	}
	return errs
}

func (c *Config) validateMonitor(errs []error) []error {
	if c.Monitor.Timeout <= 0 {
		errs = append(errs, errors.New("monitor.timeout must be positive"))
	}
	if c.Monitor.DrainTimeout <= 0 {
		errs = append(errs, errors.New("monitor.drain_timeout must be positive"))
	}
	return errs
}

func (c *Config) validateCache(errs []error) []error {
	if c.Cache.ConseillerTTL < 0 {
		errs = append(errs, errors.New("cache.conseiller_ttl must not be negative"))
	}
	return errs
}

func (c *Config) validateMilo(errs []error) []error {
	if c.Milo.URL == "" {
		errs = append(errs, fmt.Errorf("%w: milo.url", ErrMissingRequired))
	}
	if c.IsProduction() && c.Milo.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w: milo.api_key", ErrMissingRequired))
	}
	if c.Milo.Timeout <= 0 {
		errs = append(errs, errors.New("milo.timeout must be positive"))
	}
	if c.Milo.FailureThreshold == 0 {
		errs = append(errs, errors.New("milo.failure_threshold must be positive"))
	}
	if _, err := time.LoadLocation(c.Milo.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Milo.Timezone))
	}
	return errs
}

func (c *Config) validateEvents(errs []error) []error {
	if c.Events.ChannelPrefix == "" {
		errs = append(errs, fmt.Errorf("%w: events.channel_prefix", ErrMissingRequired))
	}
	if c.Events.MaxRetries < 0 {
		errs = append(errs, errors.New("events.max_retries must not be negative"))
	}
	if c.Events.MaxDeadLetters <= 0 {
		errs = append(errs, errors.New("events.max_dead_letters must be positive"))
	}
	if c.Events.WorkerPort <= 0 || c.Events.WorkerPort > 65535 {
		errs = append(errs, fmt.Errorf("events.worker_port must be between 1 and 65535, got %d", c.Events.WorkerPort))
	}
	return errs
}

// Load loads configuration from the default config file and environment variables.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific file path.
// If path is empty, it tries to find the config file in standard locations.
func LoadFromPath(path string) (*Config, error) {
	loader := NewLoader()
	return loader.Load(path)
}

// Loader handles configuration loading from files and environment variables.
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		configPaths: []string{
			"configs/config.yaml",
			"config.yaml",
			"/etc/passemploi/config.yaml",
		},
		envFiles: []string{".env"},
	}
}

// WithEnvFiles sets the dotenv files loaded before environment overrides.
// Variables already set in the environment win over the files.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// WithConfigPaths sets custom config paths to search.
func (l *Loader) WithConfigPaths(paths []string) *Loader {
	l.configPaths = paths
	return l
}

// Load loads configuration from file and environment variables.
func (l *Loader) Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Determine config file path
	configPath := path
	if configPath == "" {
		// Check CONFIG_PATH environment variable first
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			configPath = envPath
		} else {
			// Search in standard locations
			for _, p := range l.configPaths {
				if _, err := os.Stat(p); err == nil {
					configPath = p
					break
				}
			}
		}
	}

	// Load from file if found
	if configPath != "" {
		if err := l.loadFromFile(cfg, configPath); err != nil {
			// Only return error if path was explicitly specified
			if path != "" || os.Getenv("CONFIG_PATH") != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, continue with defaults + env vars
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	// Override with environment variables
	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (l *Loader) loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	return nil
}

// loadEnvFiles loads the existing dotenv files into the process environment.
func (l *Loader) loadEnvFiles() error {
	for _, file := range l.envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// loadFromEnv loads configuration from environment variables.
func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.loadEnvToStruct(reflect.ValueOf(cfg).Elem())
}

// loadEnvToStruct recursively loads environment variables into a struct.
func (l *Loader) loadEnvToStruct(v reflect.Value) error {
	t := v.Type()

	for i := range v.NumField() {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Handle embedded structs
		if field.Kind() == reflect.Struct {
			if err := l.loadEnvToStruct(field); err != nil {
				return err
			}
			continue
		}

		// Get env tag
		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		// Get environment variable value
		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		// Set field value based on type
		if err := l.setFieldFromEnv(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s from env %s: %w", fieldType.Name, envTag, err)
		}
	}

	return nil
}

// setFieldFromEnv sets a struct field value from an environment variable string.
//
//nolint:exhaustive // We only support a subset of reflect.Kind for config values
func (l *Loader) setFieldFromEnv(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Check if it's a time.Duration
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidDuration, value)
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %s", value)
			}
			field.SetInt(i)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value: %s", value)
		}
		field.SetUint(u)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// IsDevelopment returns true outside production.
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// MiloLocation returns the zone of the partner's timestamps, UTC if invalid.
func (c *Config) MiloLocation() *time.Location {
	loc, err := time.LoadLocation(c.Milo.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
