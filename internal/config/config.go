package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/example/patta/internal/core/certificate"
	"github.com/example/patta/internal/core/keyspace"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Environment overrides
const (
	EnvStoreBackend = "PATTA_STORE_BACKEND"
	EnvSQLitePath   = "PATTA_SQLITE_PATH"
	EnvRedisURL     = "PATTA_REDIS_URL"
	EnvHTTPAddr     = "PATTA_HTTP_ADDR"
)

// DirName is the per-project config directory.
const DirName = ".patta"

// Config represents the patta configuration
type Config struct {
	Version     string            `json:"version"`
	Store       StoreConfig       `json:"store"`
	Workflow    WorkflowConfig    `json:"workflow"`
	Certificate CertificateConfig `json:"certificate"`
	Query       QueryConfig       `json:"query"`
	HTTP        HTTPConfig        `json:"http"`
	Log         LogConfig         `json:"log"`
}

type StoreConfig struct {
	Backend    string `json:"backend"`               // memory, sqlite or redis
	SQLitePath string `json:"sqlite_path,omitempty"` // empty means ~/.patta/patta.db
	RedisURL   string `json:"redis_url,omitempty"`
	Namespace  string `json:"namespace"`
}

type WorkflowConfig struct {
	EnforceTransitions bool   `json:"enforce_transitions"`
	TransitionsFile    string `json:"transitions_file,omitempty"` // YAML, replaces the built-in table
}

type CertificateConfig struct {
	IssuingAuthority string `json:"issuing_authority"`
	AllowReissue     bool   `json:"allow_reissue"`
}

type QueryConfig struct {
	UseIndexes bool `json:"use_indexes"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // text or json
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Store: StoreConfig{
			Backend:   BackendSQLite,
			Namespace: keyspace.DefaultNamespace,
		},
		Certificate: CertificateConfig{
			IssuingAuthority: certificate.DefaultIssuingAuthority,
		},
		Query: QueryConfig{UseIndexes: true},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, DirName, "config.json")
}

// LoadConfig reads .patta/config.json from the specified directory over the
// defaults, then applies environment overrides. A missing file is not an
// error.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStoreBackend); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvSQLitePath); ok && v != "" {
		c.Store.SQLitePath = v
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Store.RedisURL = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTP.Addr = v
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend (or set %s)", EnvRedisURL)
		}
	default:
		return fmt.Errorf("unknown store.backend %s", strconv.Quote(c.Store.Backend))
	}
	if c.Store.Namespace == "" {
		return fmt.Errorf("store.namespace must not be empty")
	}
	return nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	pattaDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(pattaDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
