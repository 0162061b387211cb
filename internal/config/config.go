// Package config reads and writes the tool configuration under the
// .nobat dot directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const configFile = ".nobat/config.json"

// DefaultCacheTTLSeconds is how long a cached list stays fresh when the
// config does not say otherwise.
const DefaultCacheTTLSeconds = 300

// Config is the persisted tool configuration. ServiceURL and AnonKey are
// enough for read-only use; mutations additionally need WriteKey. All
// authentication and authorization live in the remote service.
type Config struct {
	ServiceURL      string `json:"service_url"`
	AnonKey         string `json:"anon_key"`
	WriteKey        string `json:"write_key,omitempty"`
	SessionToken    string `json:"session_token,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty"`
}

// CacheTTLOrDefault returns the configured cache TTL in seconds.
func (c *Config) CacheTTLOrDefault() int {
	if c.CacheTTLSeconds > 0 {
		return c.CacheTTLSeconds
	}
	return DefaultCacheTTLSeconds
}

// Load reads the config from disk. A missing file yields a zero config.
func Load(baseDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the dot directory if needed.
func Save(baseDir string, cfg *Config) error {
	path := filepath.Join(baseDir, configFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
