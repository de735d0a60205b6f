//go:build !linux

package transport

import (
	"errors"

	"tinygo.org/x/bluetooth"
)

// ErrUnsupportedPlatform occurs when the TinyGo backend is asked to connect
// by MAC address on a platform that identifies peripherals some other way
// (i.e. CoreBluetooth UUIDs on macOS).
var ErrUnsupportedPlatform = errors.New("connecting by MAC address is only supported on linux")

func parseAddress(address string) (bluetooth.Addresser, error) {
	return nil, ErrUnsupportedPlatform
}
