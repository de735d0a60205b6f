package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.fergus.london/govee/colour"
	"go.fergus.london/govee/device"
)

var frameCmd = &cobra.Command{
	Use:   "frame <power|brightness|colour|white|ping> [value]",
	Short: "Print the frame a command would send, without connecting",
	Long: `Print the 20 byte frame a command would write, without connecting to a
device. Useful for checking frames against captures from the vendor app.

  goveectl frame power on
  goveectl frame colour "#ff8800"
  goveectl frame white -- -0.25`,
	Args:              cobra.RangeArgs(1, 2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildFrame(args)
		if err != nil {
			return err
		}

		printFrame(cmd.OutOrStdout(), f)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(frameCmd)
}

func buildFrame(args []string) (device.Frame, error) {
	kind := args[0]
	if kind == "ping" {
		return device.KeepAliveFrame(), nil
	}

	if len(args) != 2 {
		return device.Frame{}, fmt.Errorf("frame %s requires a value", kind)
	}
	value := args[1]

	switch kind {
	case "power":
		on, err := parsePower(value)
		if err != nil {
			return device.Frame{}, err
		}
		return device.PowerFrame(on), nil

	case "brightness":
		v, err := parseFloatArg("brightness", value)
		if err != nil {
			return device.Frame{}, err
		}
		return device.BrightnessFrame(v)

	case "colour", "color":
		rgb, err := colour.Resolve(value)
		if err != nil {
			return device.Frame{}, fmt.Errorf("%w: %v", device.ErrInvalidColour, err)
		}
		return device.ColourFrame(rgb), nil

	case "white":
		v, err := parseWhite(value)
		if err != nil {
			return device.Frame{}, err
		}
		return device.WhiteFrame(v, nil)
	}

	return device.Frame{}, fmt.Errorf("unknown frame type %q", kind)
}

func printFrame(w io.Writer, f device.Frame) {
	b := f.Bytes()
	fmt.Fprintf(w, "%s %s %s %s\n",
		render(headerStyle, fmt.Sprintf("% x", b[:2])),
		fmt.Sprintf("% x", b[2:device.FrameSize-1]),
		render(dimStyle, "|"),
		render(headerStyle, fmt.Sprintf("%02x", b[device.FrameSize-1])),
	)
}
