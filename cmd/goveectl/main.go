// goveectl controls a Govee Bluetooth RGB LED from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, renderTo(os.Stderr, errorStyle, "error:"), err)
		stop()
		os.Exit(1)
	}
}
