// Package transport provides the Bluetooth Low Energy plumbing used by the
// device client: starting a BLE stack, connecting to a peripheral by MAC
// address, and writing to GATT characteristics.
//
// Two backends are available - one built on TinyGo's bluetooth package, and
// one talking directly to BlueZ over the system D-Bus.
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBackend occurs when New is asked for a backend that doesn't
	// exist.
	ErrUnknownBackend = errors.New("unknown bluetooth backend")
	// ErrNotStarted occurs when Connect is called before Start.
	ErrNotStarted = errors.New("bluetooth backend has not been started")
	// ErrCharacteristicNotAvailable occurs when the connected device doesn't
	// expose the requested characteristic UUID.
	ErrCharacteristicNotAvailable = errors.New("unable to access required characteristic on device")
	// ErrDisconnected occurs when writing to a peripheral that has already
	// been disconnected.
	ErrDisconnected = errors.New("peripheral is disconnected")
)

// Backend is a BLE stack capable of connecting to peripherals.
type Backend interface {
	// Start brings the stack up; it must be called before Connect.
	Start() error
	// Stop releases the stack. It's safe to call on a backend that never
	// started.
	Stop() error
	// Connect establishes a connection to the peripheral at address (i.e.
	// "A4:C1:38:9D:2C:5D"), giving up when ctx is done.
	Connect(ctx context.Context, address string) (Peripheral, error)
}

// Peripheral is a connected BLE device.
type Peripheral interface {
	// WriteCharacteristic writes data to the characteristic identified by
	// uuid, blocking until the stack has accepted the write.
	WriteCharacteristic(uuid string, data []byte) error
	Disconnect() error
}

// Backend names accepted by New.
const (
	NameTinyGo = "tinygo"
	NameBlueZ  = "bluez"
)

// Names lists every backend New understands.
func Names() []string {
	return []string{NameTinyGo, NameBlueZ}
}

// New returns a fresh, unstarted backend by name. An empty name selects the
// TinyGo backend on the default adapter.
func New(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameTinyGo:
		return NewTinyGo(nil), nil
	case NameBlueZ:
		return NewBlueZ(""), nil
	}

	return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
}
