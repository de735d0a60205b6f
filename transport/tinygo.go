package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tinygo.org/x/bluetooth"
)

// TinyGo is a Backend built on tinygo.org/x/bluetooth.
type TinyGo struct {
	adapter *bluetooth.Adapter
	params  bluetooth.ConnectionParams

	mu      sync.Mutex
	enabled bool
}

// NewTinyGo creates a backend for adapter; nil selects
// bluetooth.DefaultAdapter.
func NewTinyGo(adapter *bluetooth.Adapter) *TinyGo {
	if adapter == nil {
		adapter = bluetooth.DefaultAdapter
	}

	return &TinyGo{adapter: adapter}
}

// Start enables the adapter.
func (t *TinyGo) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.enabled {
		return nil
	}
	if err := t.adapter.Enable(); err != nil {
		return fmt.Errorf("enable adapter: %w", err)
	}

	t.enabled = true
	return nil
}

// Stop marks the backend as stopped. The TinyGo adapter has no way of being
// disabled once enabled, so there's nothing to release beyond our own state.
func (t *TinyGo) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = false
	return nil
}

// Connect dials the peripheral. The underlying Connect call isn't
// cancellable, so it runs in its own goroutine; if ctx expires first any
// connection that arrives late is torn down immediately.
func (t *TinyGo) Connect(ctx context.Context, address string) (Peripheral, error) {
	t.mu.Lock()
	enabled := t.enabled
	t.mu.Unlock()
	if !enabled {
		return nil, ErrNotStarted
	}

	addr, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	type result struct {
		device *bluetooth.Device
		err    error
	}

	resCh := make(chan result, 1)
	go func() {
		device, err := t.adapter.Connect(addr, t.params)
		resCh <- result{device, err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			return nil, res.err
		}
		return &tinyGoPeripheral{
			device:          res.device,
			characteristics: make(map[string]bluetooth.DeviceCharacteristic),
		}, nil
	case <-ctx.Done():
		go func() {
			if res := <-resCh; res.device != nil {
				res.device.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}
}

type tinyGoPeripheral struct {
	mu              sync.Mutex
	device          *bluetooth.Device
	characteristics map[string]bluetooth.DeviceCharacteristic
}

func (p *tinyGoPeripheral) WriteCharacteristic(uuid string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		return ErrDisconnected
	}

	char, err := p.characteristic(uuid)
	if err != nil {
		return err
	}

	if _, err := char.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("write characteristic %s: %w", uuid, err)
	}
	return nil
}

// characteristic looks uuid up across every service on the device, caching
// the result; the device doesn't advertise which service owns it.
func (p *tinyGoPeripheral) characteristic(uuid string) (bluetooth.DeviceCharacteristic, error) {
	key := strings.ToLower(uuid)
	if char, ok := p.characteristics[key]; ok {
		return char, nil
	}

	charUUID, err := bluetooth.ParseUUID(key)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("parse characteristic uuid %q: %w", uuid, err)
	}

	services, err := p.device.DiscoverServices(nil)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("discover services: %w", err)
	}

	for _, service := range services {
		chars, err := service.DiscoverCharacteristics([]bluetooth.UUID{charUUID})
		if err != nil || len(chars) == 0 {
			continue
		}

		p.characteristics[key] = chars[0]
		return chars[0], nil
	}

	return bluetooth.DeviceCharacteristic{}, fmt.Errorf("%w: %s", ErrCharacteristicNotAvailable, uuid)
}

func (p *tinyGoPeripheral) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		return nil
	}

	err := p.device.Disconnect()
	p.device = nil
	p.characteristics = nil
	return err
}
