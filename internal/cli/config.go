package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string `yaml:"server"`
	Output     string `yaml:"output"`
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("XCTIMER_SERVER", "http://localhost:8080"),
		Output:     "text",
		ConfigFile: getEnvOrDefault("XCTIMER_CONFIG", defaultConfigFile()),
	}
}

// LoadFile merges values from the YAML config file into c. Fields for which
// keep returns true are left alone. A missing file is not an error.
func (c *Config) LoadFile(keep func(field string) bool) error {
	if c.ConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", c.ConfigFile, err)
	}

	if file.ServerURL != "" && !keep("server") {
		c.ServerURL = file.ServerURL
	}
	if file.Output != "" && !keep("output") {
		c.Output = file.Output
	}
	return nil
}

// Validate checks the output format
func (c *Config) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
	return nil
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xctimer", "config.yaml")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
