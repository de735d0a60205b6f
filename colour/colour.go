// Package colour resolves the loosely typed colour values accepted by the
// device client - names, hex strings, image/color values - into the three
// 8-bit channels carried on the wire.
package colour

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrUnknownColour occurs when a value can't be interpreted as a colour.
var ErrUnknownColour = errors.New("unable to resolve colour")

// RGB is a colour expressed as three 0-255 channels.
type RGB struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Hex returns the colour in "#rrggbb" form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// RGBA implements color.Color, so an RGB can be handed straight back to a
// Resolver or used with image/color helpers.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.Red, G: c.Green, B: c.Blue, A: 0xFF}.RGBA()
}

// Resolver converts a colour-like value into RGB channels.
type Resolver interface {
	Resolve(v any) (RGB, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(v any) (RGB, error)

// Resolve calls f(v).
func (f ResolverFunc) Resolve(v any) (RGB, error) {
	return f(v)
}

// Default is the resolver used when callers don't supply their own. It
// accepts:
//
//   - SVG 1.1 colour names ("red", "Dark Orange", "cornflowerblue")
//   - hex strings, with or without a leading '#', in #rgb or #rrggbb form
//   - RGB, [3]uint8, colorful.Color and any color.Color
var Default Resolver = ResolverFunc(resolve)

// Resolve uses the Default resolver.
func Resolve(v any) (RGB, error) {
	return Default.Resolve(v)
}

func resolve(v any) (RGB, error) {
	switch c := v.(type) {
	case RGB:
		return c, nil
	case *RGB:
		if c == nil {
			return RGB{}, fmt.Errorf("%w: nil", ErrUnknownColour)
		}
		return *c, nil
	case [3]uint8:
		return RGB{c[0], c[1], c[2]}, nil
	case string:
		return fromString(c)
	case colorful.Color:
		return fromColorful(c), nil
	case color.Color:
		cf, ok := colorful.MakeColor(c)
		if !ok {
			// fully transparent colours carry no channel information
			return RGB{}, fmt.Errorf("%w: transparent colour %v", ErrUnknownColour, c)
		}
		return fromColorful(cf), nil
	case nil:
		return RGB{}, fmt.Errorf("%w: nil", ErrUnknownColour)
	}

	return RGB{}, fmt.Errorf("%w: unsupported type %T", ErrUnknownColour, v)
}

const hexDigits = "0123456789abcdef"

func fromString(s string) (RGB, error) {
	name := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if name == "" {
		return RGB{}, fmt.Errorf("%w: empty string", ErrUnknownColour)
	}

	if named, ok := colornames.Map[name]; ok {
		return RGB{named.R, named.G, named.B}, nil
	}

	hex := name
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return RGB{}, fmt.Errorf("%w: %q", ErrUnknownColour, s)
	}
	// colorful.Hex stops at the first non-hex digit and keeps what it read.
	if strings.Trim(hex[1:], hexDigits) != "" {
		return RGB{}, fmt.Errorf("%w: %q: not a hex colour", ErrUnknownColour, s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrUnknownColour, s, err)
	}

	return fromColorful(c), nil
}

// fromColorful clamps before converting; colorful colours built from
// arithmetic (blends, other colour spaces) can land outside [0,1].
func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}
