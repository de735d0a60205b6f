// Package device controls Govee H6001-style Bluetooth RGB LEDs.
//
// Every command is a 20 byte frame written to a single vendor defined
// characteristic; see Frame for the layout. A Client owns one connection and
// exposes the power, brightness, colour and white controls on top of it.
//
//	c, err := device.Connect(ctx, "A4:C1:38:9D:2C:5D", device.Options{})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.SetPower(true)
//	c.SetColour("orange")
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.fergus.london/govee/colour"
	"go.fergus.london/govee/transport"
)

const (
	// ControlCharacteristicUUID accepts every command frame.
	ControlCharacteristicUUID = "00010203-0405-0607-0809-0a0b0c0d2b11"

	// DefaultTimeout bounds the connection attempt when Options.Timeout is
	// unset.
	DefaultTimeout = 5 * time.Second
	// DefaultKeepAliveInterval is how often KeepAlive pings when given a
	// zero interval; the device drops connections that are quiet for much
	// longer than this.
	DefaultKeepAliveInterval = 2 * time.Second
)

// Options contains optional configuration for a Client. The zero value is
// usable: TinyGo on the default adapter, the default colour resolver, and a
// five second connection timeout.
type Options struct {
	Backend  transport.Backend
	Resolver colour.Resolver
	Timeout  time.Duration
	Logger   *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Backend == nil {
		o.Backend = transport.NewTinyGo(nil)
	}
	if o.Resolver == nil {
		o.Resolver = colour.Default
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Client is a connection to a single LED. Methods may be called from
// multiple goroutines; writes are serialised.
type Client struct {
	address  string
	resolver colour.Resolver
	log      *slog.Logger

	mu         sync.Mutex
	backend    transport.Backend
	peripheral transport.Peripheral
	done       chan struct{}
}

// Connect starts the backend and connects to the LED at address. On failure
// everything that was brought up is torn down again, and the returned error
// is a *ConnectionTimeoutError.
func Connect(ctx context.Context, address string, opts Options) (*Client, error) {
	opts.setDefaults()

	c := &Client{
		address:  address,
		resolver: opts.Resolver,
		log:      opts.Logger.With("address", address),
		backend:  opts.Backend,
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx, opts.Timeout); err != nil {
		if cerr := c.Close(); cerr != nil {
			c.log.Debug("cleanup after failed connection", "error", cerr)
		}
		return nil, &ConnectionTimeoutError{Address: address, Err: err}
	}

	return c, nil
}

func (c *Client) connect(ctx context.Context, timeout time.Duration) error {
	c.log.Debug("starting bluetooth backend")
	if err := c.backend.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.log.Debug("connecting", "timeout", timeout)
	p, err := c.backend.Connect(ctx, c.address)
	if err != nil {
		return err
	}

	c.peripheral = p
	c.log.Debug("connected")
	return nil
}

// With connects to address, calls fn, and closes the connection regardless
// of how fn returns.
func With(ctx context.Context, address string, opts Options, fn func(*Client) error) (err error) {
	c, err := Connect(ctx, address, opts)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, c.Close())
	}()

	return fn(c)
}

// Address returns the peripheral address the client was created for.
func (c *Client) Address() string {
	return c.address
}

// SetPower switches the LED on or off.
func (c *Client) SetPower(on bool) error {
	return c.write(PowerFrame(on))
}

// SetBrightness sets the brightness, where value is within [0.0, 1.0].
func (c *Client) SetBrightness(value float64) error {
	f, err := BrightnessFrame(value)
	if err != nil {
		return err
	}

	return c.write(f)
}

// SetColour sets an RGB colour. col may be anything the client's
// colour.Resolver accepts - with the default resolver that's a colour name,
// a hex string, colour.RGB or a color.Color.
func (c *Client) SetColour(col any) error {
	rgb, err := c.resolver.Resolve(col)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidColour, err)
	}

	return c.write(ColourFrame(rgb))
}

// SetWhite switches to white mode, where value runs from -1.0 (warm) to 1.0
// (cold).
func (c *Client) SetWhite(value float64) error {
	f, err := WhiteFrame(value, c.resolver)
	if err != nil {
		return err
	}

	return c.write(f)
}

// Ping writes a keep-alive frame.
func (c *Client) Ping() error {
	return c.write(KeepAliveFrame())
}

// KeepAlive pings the device every interval until ctx is cancelled or the
// client is closed. Write failures are reported on the returned channel,
// which is closed once pinging stops; failures are dropped if the channel
// isn't being drained.
func (c *Client) KeepAlive(ctx context.Context, interval time.Duration) <-chan error {
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-t.C:
				err := c.Ping()
				if errors.Is(err, ErrClosed) {
					return
				}
				if err != nil {
					select {
					case errCh <- err:
					default:
					}
				}
			}
		}
	}()

	return errCh
}

func (c *Client) write(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.peripheral == nil {
		return ErrClosed
	}

	c.log.Debug("writing frame", "kind", f.kind(), "frame", f.String())
	// transport errors reach the caller as-is
	if err := c.peripheral.WriteCharacteristic(ControlCharacteristicUUID, f.Bytes()); err != nil {
		c.log.Debug("frame write failed", "kind", f.kind(), "error", err)
		return err
	}
	return nil
}

// Close disconnects from the LED and stops the backend. Calling Close more
// than once is safe; later calls do nothing.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.peripheral != nil {
		c.log.Debug("disconnecting")
		if err := c.peripheral.Disconnect(); err != nil {
			errs = append(errs, fmt.Errorf("disconnect: %w", err))
		}
		c.peripheral = nil
	}

	if c.backend != nil {
		c.log.Debug("stopping bluetooth backend")
		if err := c.backend.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop backend: %w", err))
		}
		c.backend = nil
		close(c.done)
	}

	return errors.Join(errs...)
}
