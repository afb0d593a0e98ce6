// Package config reads and writes the client's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fashionhub/internal/client/storage"
)

const (
	// DefaultServerURL is used when neither the file nor the environment names a server.
	DefaultServerURL = "http://localhost:8080"

	StorageFile  = "file"
	StorageRedis = "redis"

	configDirName  = ".fashionhub"
	configFileName = "config.yaml"
	storageName    = "storage.json"
)

// Environment overrides.
const (
	EnvHome   = "FASHIONHUB_HOME"
	EnvServer = "FASHIONHUB_SERVER"
)

// Config is the persisted client configuration. Session holds the
// server's session cookie between invocations.
type Config struct {
	ServerURL    string `yaml:"server_url,omitempty"`
	Session      string `yaml:"session,omitempty"`
	Storage      string `yaml:"storage,omitempty"`
	StoragePath  string `yaml:"storage_path,omitempty"`
	StorageQuota int    `yaml:"storage_quota,omitempty"`
	RedisAddr    string `yaml:"redis_addr,omitempty"`
	CatalogPath  string `yaml:"catalog_path,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
}

// GetConfigDir returns ~/.fashionhub, or $FASHIONHUB_HOME when set.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

// GetConfigPath returns the path of config.yaml.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads config.yaml. A missing file yields an empty Config.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to config.yaml, readable only by the owner.
func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Server returns the server URL, honouring FASHIONHUB_SERVER.
func (c *Config) Server() string {
	if v := os.Getenv(EnvServer); v != "" {
		return v
	}
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return DefaultServerURL
}

// RequestTimeout parses Timeout; empty or invalid values give def.
func (c *Config) RequestTimeout(def time.Duration) time.Duration {
	if c.Timeout == "" {
		return def
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// OpenStorage builds the key-value store the config selects.
func (c *Config) OpenStorage() (storage.KV, error) {
	switch c.Storage {
	case "", StorageFile:
		path := c.StoragePath
		if path == "" {
			dir, err := GetConfigDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, storageName)
		}
		return storage.NewFileKV(path, c.StorageQuota)
	case StorageRedis:
		if c.RedisAddr == "" {
			return nil, errors.New("storage is redis but redis_addr is empty")
		}
		return storage.NewRedisKV(c.RedisAddr, "fashionhub:", c.StorageQuota)
	default:
		return nil, fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageFile, StorageRedis)
	}
}
