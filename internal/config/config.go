// Package config loads goveectl's settings from YAML, with environment
// variable overrides applied on top.
//
//	device:
//	  address: "A4:C1:38:9D:2C:5D"
//	  backend: "bluez"         # tinygo, bluez
//	  adapter: "/org/bluez/hci0"
//	  timeout: "5s"
//	  keep_alive: "2s"
//	logging:
//	  level: "info"            # debug, info, warn, error
//	  format: "text"           # json, text
//	  output: "stderr"         # stdout, stderr
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Logging LoggingConfig `yaml:"logging"`
}

// DeviceConfig describes the LED to connect to and how.
type DeviceConfig struct {
	Address   string        `yaml:"address"`
	Backend   string        `yaml:"backend"`
	Adapter   string        `yaml:"adapter"`
	Timeout   time.Duration `yaml:"timeout"`
	KeepAlive time.Duration `yaml:"keep_alive"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Backend:   "tinygo",
			Timeout:   5 * time.Second,
			KeepAlive: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips
// the file. Environment overrides are applied afterwards, but validation is
// left to the caller so command line flags can be layered on first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GOVEE_ADDRESS"); v != "" {
		cfg.Device.Address = v
	}
	if v := os.Getenv("GOVEE_BACKEND"); v != "" {
		cfg.Device.Backend = v
	}
	if v := os.Getenv("GOVEE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing GOVEE_TIMEOUT: %w", err)
		}
		cfg.Device.Timeout = d
	}
	if v := os.Getenv("GOVEE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate reports every problem with the configuration at once. The device
// address is only required by commands that connect, so it's checked
// separately by RequireAddress.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Device.Backend) {
	case "tinygo", "bluez":
	default:
		errs = append(errs, fmt.Sprintf("device.backend %q must be tinygo or bluez", c.Device.Backend))
	}

	if c.Device.Address != "" {
		if _, err := net.ParseMAC(c.Device.Address); err != nil {
			errs = append(errs, fmt.Sprintf("device.address %q is not a MAC address", c.Device.Address))
		}
	}
	if c.Device.Timeout <= 0 {
		errs = append(errs, "device.timeout must be positive")
	}
	if c.Device.KeepAlive < 0 {
		errs = append(errs, "device.keep_alive must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not recognised", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ErrNoAddress occurs when a command needs to connect but no address was
// configured.
var ErrNoAddress = errors.New("no device address configured (use --address or GOVEE_ADDRESS)")

// RequireAddress returns ErrNoAddress if the device address is unset.
func (c *Config) RequireAddress() error {
	if c.Device.Address == "" {
		return ErrNoAddress
	}
	return nil
}
