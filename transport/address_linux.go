package transport

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

func parseAddress(address string) (bluetooth.Addresser, error) {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, err)
	}

	return &bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}, nil
}
