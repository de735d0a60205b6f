package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"go.fergus.london/govee/device"
)

var demoDelay time.Duration

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Cycle through colours, brightness levels and white shades",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd.Context(), func(c *device.Client) error {
			return runDemo(cmd.Context(), c, cmd.OutOrStdout(), demoDelay, cfg.Device.KeepAlive, logger)
		})
	},
}

func init() {
	demoCmd.Flags().DurationVar(&demoDelay, "delay", 500*time.Millisecond, "Pause between steps")
	rootCmd.AddCommand(demoCmd)
}

var demoColours = []string{"red", "green", "blue", "purple", "yellow", "cyan", "orange", "white"}

// controller is the subset of *device.Client the demo drives.
type controller interface {
	SetPower(on bool) error
	SetColour(c any) error
	SetBrightness(v float64) error
	SetWhite(v float64) error
	KeepAlive(ctx context.Context, interval time.Duration) <-chan error
}

// runDemo steps through the demo sequence, pinging the device every
// keepAlive for as long as it runs.
func runDemo(
	ctx context.Context, c controller, w io.Writer, delay, keepAlive time.Duration, log *slog.Logger,
) error {
	kaCtx, stopKeepAlive := context.WithCancel(ctx)
	pings := c.KeepAlive(kaCtx, keepAlive)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for err := range pings {
			log.Warn("keep-alive failed", "error", err)
		}
	}()
	defer func() {
		stopKeepAlive()
		<-drained
	}()

	pause := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			return nil
		}
	}

	fmt.Fprintln(w, render(headerStyle, "Switching on LED"))
	if err := c.SetPower(true); err != nil {
		return err
	}
	if err := pause(); err != nil {
		return err
	}

	fmt.Fprintln(w, render(headerStyle, "Changing colours in RGB"))
	for _, name := range demoColours {
		fmt.Fprintf(w, "[*] %s\n", name)
		if err := c.SetColour(name); err != nil {
			return err
		}
		if err := pause(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, render(headerStyle, "Changing brightness"))
	for i := 0; i <= 5; i++ {
		v := float64(i) / 5
		fmt.Fprintf(w, "[*] %03.0f%%\n", v*100)
		if err := c.SetBrightness(v); err != nil {
			return err
		}
		if err := pause(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, render(headerStyle, "Changing colours in white-mode"))
	for i := -20; i <= 20; i++ {
		v := float64(i) / 20
		fmt.Fprintf(w, "[*] %s white\n", describeWhite(v))
		if err := c.SetWhite(v); err != nil {
			return err
		}
		if err := pause(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, render(headerStyle, "Switching off LED"))
	return c.SetPower(false)
}
