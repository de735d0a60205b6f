package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	bluezBusName        = "org.bluez"
	bluezDefaultAdapter = "/org/bluez/hci0"
	bluezDeviceIface    = "org.bluez.Device1"
	bluezGattCharIface  = "org.bluez.GattCharacteristic1"
	dbusPropsIface      = "org.freedesktop.DBus.Properties"
	dbusObjectManager   = "org.freedesktop.DBus.ObjectManager"

	// how often to check whether BlueZ has finished resolving services
	servicesResolvedPoll = 100 * time.Millisecond

	// upper bound on a Device1.Disconnect call, which may run after the
	// caller's context has already expired
	disconnectTimeout = 2 * time.Second
)

// ErrBlueZUnavailable occurs when org.bluez isn't present on the system bus.
var ErrBlueZUnavailable = errors.New("org.bluez not found on system bus, is bluetooth.service running?")

// BlueZ is a Backend talking to the BlueZ daemon over the system D-Bus.
// Writes are issued as acknowledged ("request") writes.
type BlueZ struct {
	adapterPath dbus.ObjectPath

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewBlueZ creates a backend for the adapter at adapterPath (i.e.
// "/org/bluez/hci0"); an empty path selects hci0.
func NewBlueZ(adapterPath string) *BlueZ {
	if adapterPath == "" {
		adapterPath = bluezDefaultAdapter
	}

	return &BlueZ{adapterPath: dbus.ObjectPath(adapterPath)}
}

// Start opens a private system bus connection and checks BlueZ is on it.
func (b *BlueZ) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return fmt.Errorf("list bus names: %w", err)
	}

	found := false
	for _, n := range names {
		if n == bluezBusName {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return ErrBlueZUnavailable
	}

	b.conn = conn
	return nil
}

// Stop closes the bus connection.
func (b *BlueZ) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}

	err := b.conn.Close()
	b.conn = nil
	return err
}

// Connect asks BlueZ to connect to the device and waits until its GATT
// services have been resolved, since characteristics aren't exported on the
// bus before then.
func (b *BlueZ) Connect(ctx context.Context, address string) (Peripheral, error) {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()
	if conn == nil {
		return nil, ErrNotStarted
	}

	if _, err := net.ParseMAC(address); err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, err)
	}

	p, err := connectDevice(ctx, conn, bluezDevicePath(b.adapterPath, address))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	return p, nil
}

// busObjects is the part of *dbus.Conn the peripheral needs.
type busObjects interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// connectDevice calls Device1.Connect and waits for service resolution.
// BlueZ keeps trying after a cancelled Connect call, so any failure is
// followed by an explicit Disconnect.
func connectDevice(ctx context.Context, bus busObjects, path dbus.ObjectPath) (*bluezPeripheral, error) {
	p := &bluezPeripheral{
		bus:             bus,
		path:            path,
		characteristics: make(map[string]dbus.ObjectPath),
	}

	obj := bus.Object(bluezBusName, path)
	if err := obj.CallWithContext(ctx, bluezDeviceIface+".Connect", 0).Err; err != nil {
		p.Disconnect()
		return nil, err
	}

	if err := p.waitServicesResolved(ctx); err != nil {
		p.Disconnect()
		return nil, err
	}

	return p, nil
}

// bluezDevicePath converts a MAC address like "AA:BB:CC:DD:EE:FF" to
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func bluezDevicePath(adapter dbus.ObjectPath, address string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(strings.ToUpper(address), ":", "_")
	return dbus.ObjectPath(string(adapter) + "/dev_" + escaped)
}

type bluezPeripheral struct {
	mu              sync.Mutex
	bus             busObjects
	path            dbus.ObjectPath
	characteristics map[string]dbus.ObjectPath
	disconnected    bool
}

func (p *bluezPeripheral) waitServicesResolved(ctx context.Context) error {
	t := time.NewTicker(servicesResolvedPoll)
	defer t.Stop()

	obj := p.bus.Object(bluezBusName, p.path)
	for {
		var v dbus.Variant
		err := obj.CallWithContext(ctx, dbusPropsIface+".Get", 0, bluezDeviceIface, "ServicesResolved").Store(&v)
		if err == nil {
			if resolved, ok := v.Value().(bool); ok && resolved {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for services: %w", ctx.Err())
		case <-t.C:
		}
	}
}

func (p *bluezPeripheral) WriteCharacteristic(uuid string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disconnected {
		return ErrDisconnected
	}

	path, err := p.characteristic(uuid)
	if err != nil {
		return err
	}

	opts := map[string]dbus.Variant{"type": dbus.MakeVariant("request")}
	obj := p.bus.Object(bluezBusName, path)
	if err := obj.Call(bluezGattCharIface+".WriteValue", 0, data, opts).Err; err != nil {
		return fmt.Errorf("write characteristic %s: %w", uuid, err)
	}
	return nil
}

// characteristic finds the object path BlueZ exported for uuid beneath this
// device, caching the result.
func (p *bluezPeripheral) characteristic(uuid string) (dbus.ObjectPath, error) {
	key := strings.ToLower(uuid)
	if path, ok := p.characteristics[key]; ok {
		return path, nil
	}

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	root := p.bus.Object(bluezBusName, "/")
	if err := root.Call(dbusObjectManager+".GetManagedObjects", 0).Store(&objects); err != nil {
		return "", fmt.Errorf("list managed objects: %w", err)
	}

	path, ok := findCharacteristic(objects, p.path, key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCharacteristicNotAvailable, uuid)
	}

	p.characteristics[key] = path
	return path, nil
}

// findCharacteristic searches a GetManagedObjects result for a GATT
// characteristic with the given (lower case) uuid owned by device.
func findCharacteristic(
	objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant, device dbus.ObjectPath, uuid string,
) (dbus.ObjectPath, bool) {
	prefix := string(device) + "/"
	for path, ifaces := range objects {
		if !strings.HasPrefix(string(path), prefix) {
			continue
		}

		props, ok := ifaces[bluezGattCharIface]
		if !ok {
			continue
		}

		v, ok := props["UUID"]
		if !ok {
			continue
		}
		if s, ok := v.Value().(string); ok && strings.ToLower(s) == uuid {
			return path, true
		}
	}

	return "", false
}

func (p *bluezPeripheral) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disconnected {
		return nil
	}
	p.disconnected = true

	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	obj := p.bus.Object(bluezBusName, p.path)
	return obj.CallWithContext(ctx, bluezDeviceIface+".Disconnect", 0).Err
}
