package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Coordinate cache drivers.
const (
	CacheRedis  = "redis"
	CacheStore  = "store"
	CacheFile   = "file"
	CacheMemory = "memory"
)

// Spatial modes.
const (
	SpatialAuto = "auto"
	SpatialOn   = "on"
	SpatialOff  = "off"
)

// Config holds the talentdex configuration.
type Config struct {
	HTTP                HTTPConfig        `yaml:"http"`
	Database            DatabaseConfig    `yaml:"database"`
	Cache               CacheConfig       `yaml:"cache"`
	Geocoding           GeocodingConfig   `yaml:"geocoding"`
	Search              SearchConfig      `yaml:"search"`
	Spatial             SpatialConfig     `yaml:"spatial"`
	Offices             map[string]string `yaml:"offices"` // office label -> contact email
	DefaultContactEmail string            `yaml:"default_contact_email"`
	Logging             LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds directory store settings.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // postgres, sqlite (default: sqlite)
	DSN              string `yaml:"dsn"`    // connection string or sqlite file path
	MaxOpenConns     int    `yaml:"max_open_conns"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds coordinate cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // redis, store, file, memory (default: store)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	FilePath         string   `yaml:"file_path"`
	FlushEvery       int      `yaml:"flush_every"`
	NegativeTTLHours int      `yaml:"negative_ttl_hours"` // 0 = never expire
	LocalCacheSec    int      `yaml:"local_cache_sec"`    // redis client-side caching; 0 = off
}

// GeocodingConfig holds outbound geocoder settings.
type GeocodingConfig struct {
	ZipURL            string  `yaml:"zip_url"`
	PlaceURL          string  `yaml:"place_url"` // empty disables city resolution
	UserAgent         string  `yaml:"user_agent"`
	TimeoutMs         int     `yaml:"timeout_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// SearchConfig holds clamping bounds and search tuning.
type SearchConfig struct {
	DefaultPageSize      int     `yaml:"default_page_size"`
	MaxPageSize          int     `yaml:"max_page_size"`
	DefaultRadiusMiles   float64 `yaml:"default_radius_miles"`
	MaxRadiusMiles       float64 `yaml:"max_radius_miles"`
	RequestTimeoutMs     int     `yaml:"request_timeout_ms"`
	CandidateConcurrency int     `yaml:"candidate_concurrency"`
	MaxCandidates        int     `yaml:"max_candidates"`
}

// SpatialConfig controls the store-side spatial tier.
type SpatialConfig struct {
	Mode string `yaml:"mode"` // auto, on, off (default: auto)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return parse(data)
}

func parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == DriverSQLite && c.Database.DSN == "" {
		c.Database.DSN = "talentdex.db"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheStore
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "talentdex:zip:"
	}
	if c.Cache.Driver == CacheFile && c.Cache.FilePath == "" {
		c.Cache.FilePath = "zip_cache.json"
	}
	if c.Cache.FlushEvery <= 0 {
		c.Cache.FlushEvery = 50
	}

	if c.Geocoding.ZipURL == "" {
		c.Geocoding.ZipURL = "https://api.zippopotam.us"
	}
	if c.Geocoding.UserAgent == "" {
		c.Geocoding.UserAgent = "talentdex/1.0"
	}
	if c.Geocoding.TimeoutMs <= 0 {
		c.Geocoding.TimeoutMs = 3000
	}
	if c.Geocoding.RequestsPerSecond <= 0 {
		c.Geocoding.RequestsPerSecond = 1
	}
	if c.Geocoding.Burst <= 0 {
		c.Geocoding.Burst = 1
	}

	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Search.DefaultRadiusMiles <= 0 {
		c.Search.DefaultRadiusMiles = 25
	}
	if c.Search.MaxRadiusMiles <= 0 {
		c.Search.MaxRadiusMiles = 500
	}
	if c.Search.RequestTimeoutMs <= 0 {
		c.Search.RequestTimeoutMs = 10000
	}
	if c.Search.CandidateConcurrency <= 0 {
		c.Search.CandidateConcurrency = 8
	}
	if c.Search.MaxCandidates <= 0 {
		c.Search.MaxCandidates = 5000
	}

	if c.Spatial.Mode == "" {
		c.Spatial.Mode = SpatialAuto
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	switch c.Cache.Driver {
	case CacheRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	case CacheStore, CacheFile, CacheMemory:
	default:
		return fmt.Errorf("cache.driver must be one of redis, store, file, memory, got %q", c.Cache.Driver)
	}
	if c.Cache.NegativeTTLHours < 0 {
		return fmt.Errorf("cache.negative_ttl_hours must not be negative")
	}
	if c.Cache.LocalCacheSec < 0 {
		return fmt.Errorf("cache.local_cache_sec must not be negative")
	}

	switch c.Spatial.Mode {
	case SpatialAuto, SpatialOn, SpatialOff:
	default:
		return fmt.Errorf("spatial.mode must be auto, on or off, got %q", c.Spatial.Mode)
	}
	if c.Spatial.Mode == SpatialOn && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("spatial.mode %q requires the %s driver", SpatialOn, DriverPostgres)
	}

	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("search.max_page_size (%d) must be >= default_page_size (%d)",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	if c.Search.MaxRadiusMiles < c.Search.DefaultRadiusMiles {
		return fmt.Errorf("search.max_radius_miles (%g) must be >= default_radius_miles (%g)",
			c.Search.MaxRadiusMiles, c.Search.DefaultRadiusMiles)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
