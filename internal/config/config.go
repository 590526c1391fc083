// handles serving configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = 8888
	DefaultHost = "0.0.0.0"
	DefaultDir  = "demo/sample-data"

	configFile = "sampleserve.yaml"
)

// Config is resolved once at startup and never mutated afterwards.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Dir  string `yaml:"dir"`
	Gzip bool   `yaml:"gzip"`
}

// Load resolves the configuration from defaults, an optional
// sampleserve.yaml next to the executable, and the positional port
// argument (highest precedence). No environment variables are read.
func Load(args []string) (*Config, error) {
	return load(args, exeDir())
}

func load(args []string, baseDir string) (*Config, error) {
	cfg := &Config{
		Host: DefaultHost,
		Port: DefaultPort,
		Dir:  DefaultDir,
		Gzip: true,
	}

	// The config file is optional; absence is not an error.
	if data, err := os.ReadFile(filepath.Join(baseDir, configFile)); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}

	if len(args) > 0 {
		port, err := strconv.Atoi(args[0])
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid port number %q", args[0])
		}
		cfg.Port = port
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port number %d in %s", cfg.Port, configFile)
	}

	// The serving root is anchored to the executable's directory, not
	// the process working directory.
	if !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(baseDir, cfg.Dir)
	}

	return cfg, nil
}

// Validate checks that the serving root exists before any socket is
// bound.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("sample data directory not found: %s", c.Dir)
		}
		return fmt.Errorf("stat %s: %w", c.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", c.Dir)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL returns the fully qualified URL a served file is reachable at.
func (c *Config) URL(name string) string {
	return fmt.Sprintf("http://localhost:%d/%s", c.Port, name)
}

func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
