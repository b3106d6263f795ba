// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultCacheSize is the number of parsed classes kept per artifact
const DefaultCacheSize = 512

type download struct {
	Dir        string `mapstructure:"dir"`
	Proxy      string `mapstructure:"proxy"`
	Insecure   bool   `mapstructure:"insecure"`
	IgnoreSha1 bool   `mapstructure:"ignore-sha1"`
	Attempts   int    `mapstructure:"attempts"`
}

type analysis struct {
	Modules   []string `mapstructure:"modules"`
	CacheSize int      `mapstructure:"cache-size"`
}

type output struct {
	Compact bool `mapstructure:"compact"`
}

// Config is the configuration struct
type Config struct {
	Verbose  bool     `mapstructure:"verbose"`
	Download download `mapstructure:"download"`
	Analysis analysis `mapstructure:"analysis"`
	Output   output   `mapstructure:"output"`
}

func (c *Config) verify() error {
	if c.Download.Dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("config: failed to get user cache directory: %v", err)
		}
		c.Download.Dir = filepath.Join(cache, "bytebun")
	}
	if c.Download.Attempts == 0 {
		c.Download.Attempts = 3
	} else if c.Download.Attempts < 0 {
		return fmt.Errorf("config: download.attempts must be positive (got %d)", c.Download.Attempts)
	}

	switch {
	case c.Analysis.CacheSize == 0:
		c.Analysis.CacheSize = DefaultCacheSize
	case c.Analysis.CacheSize < 0:
		return fmt.Errorf("config: analysis.cache-size must be positive (got %d)", c.Analysis.CacheSize)
	}

	return nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c *Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
