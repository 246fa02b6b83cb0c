// Package config loads server and CLI settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/yourusername/bgreferee/pkg/engine"
)

var (
	cfgFile = "bgreferee/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type ServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	ReadTimeout    Duration `json:"read_timeout"`
	WriteTimeout   Duration `json:"write_timeout"`
	IdleTimeout    Duration `json:"idle_timeout"`
	MaxFastWorkers int      `json:"max_fast_workers"`
	MaxSlowWorkers int      `json:"max_slow_workers"`
	TreeCacheSize  int      `json:"tree_cache_size"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "console" or "json"
}

// RulesConfig supplies the table options used when a request has none.
type RulesConfig struct {
	AllowBearOffOvershoot bool `json:"allow_bear_off_overshoot"`
	RequireHigherDie      bool `json:"require_higher_die"`
}

// TableOptions converts the rules section to engine options.
func (r RulesConfig) TableOptions() engine.TableOptions {
	return engine.TableOptions{
		AllowBearOffOvershoot: r.AllowBearOffOvershoot,
		RequireHigherDie:      r.RequireHigherDie,
	}
}

type Config struct {
	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
	Rules  RulesConfig  `json:"rules"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := engine.DefaultTableOptions()
	return Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			ReadTimeout:    Duration(30 * time.Second),
			WriteTimeout:   Duration(60 * time.Second),
			IdleTimeout:    Duration(120 * time.Second),
			MaxFastWorkers: 16,
			MaxSlowWorkers: 2,
			TreeCacheSize:  engine.DefaultTreeCacheSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Rules: RulesConfig{
			AllowBearOffOvershoot: opts.AllowBearOffOvershoot,
			RequireHigherDie:      opts.RequireHigherDie,
		},
	}
}

// Load returns the defaults overlaid with the JSON file at path. With an
// empty path the XDG config directories are searched for
// bgreferee/config.json; a missing file there is not an error.
func Load(path string) (*Config, error) {
	config := Default()
	if path == "" {
		absPath, err := xdg.SearchConfigFile(cfgFile)
		if err != nil {
			return &config, nil
		}
		path = absPath
	}
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Path returns where Save writes the user config file.
func Path() (string, error) {
	return xdg.ConfigFile(cfgFile)
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &InvalidConfig{fmt.Sprintf("port %d out of range", c.Server.Port)}
	}
	if c.Server.MaxFastWorkers < 1 || c.Server.MaxSlowWorkers < 1 {
		return &InvalidConfig{"worker counts must be at least 1"}
	}
	if c.Server.TreeCacheSize < 1 {
		return &InvalidConfig{"tree_cache_size must be at least 1"}
	}
	for name, d := range map[string]Duration{
		"read_timeout":  c.Server.ReadTimeout,
		"write_timeout": c.Server.WriteTimeout,
		"idle_timeout":  c.Server.IdleTimeout,
	} {
		if d < 0 {
			return &InvalidConfig{name + " must not be negative"}
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log format %q", c.Log.Format)}
	}
	return nil
}

// Save writes the config to path, or to the XDG location if path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		absPath, err := Path()
		if err != nil {
			return err
		}
		path = absPath
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &InvalidConfig{fmt.Sprintf("config file %s not found", filePath)}
		}
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
