package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.fergus.london/govee/device"
	"go.fergus.london/govee/internal/config"
	"go.fergus.london/govee/internal/logging"
	"go.fergus.london/govee/transport"
)

const version = "1.0.0"

var (
	cfgFile  string
	address  string
	backend  string
	timeout  time.Duration
	logLevel string

	// populated by the root command's PersistentPreRunE
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "goveectl",
	Short: "Govee Bluetooth RGB LED controller",
	Long: `goveectl - control a Govee (H6001 family) Bluetooth LED.

Each command connects to the LED, writes a single 20 byte command frame to
its control characteristic, and disconnects again.

The device address can be given with --address, the GOVEE_ADDRESS environment
variable, or the device.address key of a YAML config file (--config).

Backends:
  tinygo  tinygo.org/x/bluetooth (default)
  bluez   BlueZ over the system D-Bus`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&address, "address", "a", "", "LED MAC address, i.e. A4:C1:38:9D:2C:5D")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "Bluetooth backend ("+strings.Join(transport.Names(), ", ")+")")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "Connection timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig layers config file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		c.Device.Address = address
	}
	if flags.Changed("backend") {
		c.Device.Backend = backend
	}
	if flags.Changed("timeout") {
		c.Device.Timeout = timeout
	}
	if flags.Changed("log-level") {
		c.Logging.Level = logLevel
	}

	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	logger = logging.New(cfg.Logging, version)
	return nil
}

func newBackend(c config.DeviceConfig) (transport.Backend, error) {
	if strings.EqualFold(c.Backend, transport.NameBlueZ) {
		return transport.NewBlueZ(c.Adapter), nil
	}
	return transport.New(c.Backend)
}

// withDevice connects to the configured LED, runs fn, and disconnects.
func withDevice(ctx context.Context, fn func(*device.Client) error) error {
	if err := cfg.RequireAddress(); err != nil {
		return err
	}

	b, err := newBackend(cfg.Device)
	if err != nil {
		return err
	}

	opts := device.Options{
		Backend: b,
		Timeout: cfg.Device.Timeout,
		Logger:  logger,
	}

	logger.Debug("connecting", "address", cfg.Device.Address, "backend", cfg.Device.Backend)
	return device.With(ctx, cfg.Device.Address, opts, fn)
}

func parseFloatArg(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	return v, nil
}
