package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.fergus.london/govee/colour"
	"go.fergus.london/govee/device"
)

var powerCmd = &cobra.Command{
	Use:       "power <on|off>",
	Short:     "Switch the LED on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parsePower(args[0])
		if err != nil {
			return err
		}

		return withDevice(cmd.Context(), func(c *device.Client) error {
			if err := c.SetPower(on); err != nil {
				return err
			}
			report(cmd, "power", args[0])
			return nil
		})
	},
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness <0.0-1.0>",
	Short: "Set the brightness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseFloatArg("brightness", args[0])
		if err != nil {
			return err
		}

		return withDevice(cmd.Context(), func(c *device.Client) error {
			if err := c.SetBrightness(v); err != nil {
				return err
			}
			report(cmd, "brightness", fmt.Sprintf("%.0f%%", v*100))
			return nil
		})
	},
}

var colourCmd = &cobra.Command{
	Use:     "colour <name|#rrggbb>",
	Aliases: []string{"color"},
	Short:   "Set an RGB colour",
	Long: `Set an RGB colour.

Accepts SVG colour names ("red", "cornflowerblue", "dark orange") and hex
values ("#ff8800", "f80").`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rgb, err := colour.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", device.ErrInvalidColour, err)
		}

		return withDevice(cmd.Context(), func(c *device.Client) error {
			if err := c.SetColour(rgb); err != nil {
				return err
			}
			report(cmd, "colour", swatch(rgb.Hex())+rgb.Hex())
			return nil
		})
	},
}

var whiteCmd = &cobra.Command{
	Use:   "white <-1.0..1.0|warm|neutral|cold>",
	Short: "Switch to the white LEDs",
	Long: `Switch to the white LEDs, choosing a shade from warm (-1.0) to cold (1.0).

Negative values must follow "--" so they aren't read as flags:

  goveectl white -- -0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseWhite(args[0])
		if err != nil {
			return err
		}

		return withDevice(cmd.Context(), func(c *device.Client) error {
			if err := c.SetWhite(v); err != nil {
				return err
			}
			report(cmd, "white", describeWhite(v))
			return nil
		})
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a keep-alive frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd.Context(), func(c *device.Client) error {
			if err := c.Ping(); err != nil {
				return err
			}
			report(cmd, "ping", "ok")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(powerCmd, brightnessCmd, colourCmd, whiteCmd, pingCmd)
}

func parsePower(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("power state %q must be on or off", s)
}

func parseWhite(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "warm":
		return -1, nil
	case "neutral":
		return 0, nil
	case "cold", "cool":
		return 1, nil
	}
	return parseFloatArg("white", s)
}

func describeWhite(v float64) string {
	temp := "cold"
	if v <= 0 {
		temp = "warm"
	}
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("%03.0f%% %s", v*100, temp)
}

func report(cmd *cobra.Command, label, value string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", render(okStyle, "✓"), render(labelStyle, label+":"), value)
}
