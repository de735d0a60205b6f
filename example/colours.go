package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.fergus.london/govee/colour"
	"go.fergus.london/govee/device"
)

var colours = []colour.RGB{
	{Red: 0x80, Green: 0x00, Blue: 0x00},
	{Red: 0x80, Green: 0x80, Blue: 0x00},
	{Red: 0x80, Green: 0x00, Blue: 0x80},
	{Red: 0x00, Green: 0x80, Blue: 0x00},
	{Red: 0x00, Green: 0x80, Blue: 0x80},
	{Red: 0x00, Green: 0x00, Blue: 0x80},
}

func main() {
	address := flag.String("address", os.Getenv("GOVEE_ADDRESS"), "LED MAC address")
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "usage: colours -address A4:C1:38:9D:2C:5D")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	d, err := device.Connect(ctx, *address, device.Options{Timeout: 30 * time.Second})
	if errors.Is(err, device.ErrConnectionTimeout) {
		fmt.Println(err)
		os.Exit(1)
	} else if err != nil {
		panic(err)
	}

	// Don't terminate until device has been cleanly shutdown
	defer func() {
		fmt.Println("disconnecting from device")
		if err := d.Close(); err != nil {
			fmt.Println("error whilst disconnecting", err)
		}
		fmt.Println("device disconnected: terminating app")
	}()

	// The LED drops idle connections, so keep it awake between colour
	// changes; log any failures.
	go func() {
		for err := range d.KeepAlive(ctx, device.DefaultKeepAliveInterval) {
			fmt.Println("keep-alive failed", err)
		}
	}()

	if err := d.SetPower(true); err != nil {
		fmt.Println("unable to switch on device", err)
		return
	}

	fmt.Println("setting brightness to maximum")
	if err := d.SetBrightness(0.96); err != nil {
		fmt.Println("unable to set brightness", err)
		return
	}

	i := 0
	t := time.NewTimer(time.Second)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("SIGTERM received, stopping commands")
			t.Stop()
			return
		case <-t.C:
			c := colours[i%len(colours)]
			fmt.Println("changing colour: ", c.Red, c.Green, c.Blue)
			if err := d.SetColour(c); err != nil {
				fmt.Println("unable to change colour", err)
				return
			}

			i = i + 1
			t.Reset(time.Second)
		}
	}
}
