package device

import (
	"encoding/hex"
	"fmt"
	"math"

	"go.fergus.london/govee/colour"
)

const (
	// FrameSize is the length of every frame written to the device.
	FrameSize = 20
	// MaxPayloadSize is the space left in a frame after the preamble,
	// command tag and checksum.
	MaxPayloadSize = FrameSize - 3

	commandPreamble   = 0x33
	keepAlivePreamble = 0xAA
	keepAliveTag      = 0x01
)

// Command identifies the operation a frame performs.
type Command byte

const (
	CommandPower      Command = 0x01
	CommandBrightness Command = 0x04
	CommandColour     Command = 0x05
)

// Valid reports whether c is a command the device understands.
func (c Command) Valid() bool {
	switch c {
	case CommandPower, CommandBrightness, CommandColour:
		return true
	}
	return false
}

func (c Command) String() string {
	switch c {
	case CommandPower:
		return "power"
	case CommandBrightness:
		return "brightness"
	case CommandColour:
		return "colour"
	}
	return fmt.Sprintf("Command(0x%02x)", byte(c))
}

// Mode selects how the device interprets a colour command. Only ModeManual
// is sent by this package; the others are listed for completeness.
type Mode byte

const (
	ModeManual     Mode = 0x02
	ModeScenes     Mode = 0x05
	ModeMicrophone Mode = 0x06
)

// whiteModeFlag follows the (ignored) RGB triplet in a colour payload and
// switches the device over to its dedicated white LEDs.
const whiteModeFlag = 0x01

// Frame is a complete, checksummed command ready to be written to the
// control characteristic:
//
//	byte 0       preamble (0x33)
//	byte 1       command tag
//	bytes 2-18   payload, zero padded
//	byte 19      XOR of bytes 0-18
type Frame [FrameSize]byte

// Bytes returns the frame as a slice.
func (f Frame) Bytes() []byte {
	return f[:]
}

// Checksum returns the XOR of the first 19 bytes.
func (f Frame) Checksum() byte {
	return checksum(f[:FrameSize-1])
}

// Valid reports whether the trailing byte matches the checksum.
func (f Frame) Valid() bool {
	return f[FrameSize-1] == f.Checksum()
}

// Command returns the frame's command tag.
func (f Frame) Command() Command {
	return Command(f[1])
}

func (f Frame) kind() string {
	if f[0] == keepAlivePreamble {
		return "keep-alive"
	}
	return f.Command().String()
}

// Payload returns the 17 payload bytes, including padding.
func (f Frame) Payload() []byte {
	return f[2 : FrameSize-1]
}

// String renders the frame as space separated hex, i.e. "33 01 01 00 ...".
func (f Frame) String() string {
	out := make([]byte, 0, FrameSize*3)
	for i, b := range f {
		if i > 0 {
			out = append(out, ' ')
		}
		out = hex.AppendEncode(out, []byte{b})
	}
	return string(out)
}

// Encode builds the frame for cmd carrying payload.
func Encode(cmd Command, payload []byte) (Frame, error) {
	if !cmd.Valid() {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrInvalidCommand, byte(cmd))
	}

	return encode(commandPreamble, byte(cmd), payload)
}

func encode(preamble, tag byte, payload []byte) (Frame, error) {
	if len(payload) > MaxPayloadSize {
		return Frame{}, fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidPayload, len(payload), MaxPayloadSize)
	}

	var f Frame
	f[0] = preamble
	f[1] = tag
	copy(f[2:], payload)
	f[FrameSize-1] = checksum(f[:FrameSize-1])

	return f, nil
}

func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// mustEncode is for the fixed-size payloads built in this package, which
// can't exceed the payload limit.
func mustEncode(cmd Command, payload []byte) Frame {
	f, err := Encode(cmd, payload)
	if err != nil {
		panic(fmt.Sprintf("device: encode %s: %v", cmd, err))
	}
	return f
}

// PowerFrame switches the device on or off.
func PowerFrame(on bool) Frame {
	state := byte(0x00)
	if on {
		state = 0x01
	}

	return mustEncode(CommandPower, []byte{state})
}

// BrightnessFrame sets the output brightness, where value lies in [0.0, 1.0].
func BrightnessFrame(value float64) (Frame, error) {
	if !inRange(value, 0, 1) {
		return Frame{}, fmt.Errorf("%w: brightness %v not in [0, 1]", ErrOutOfRange, value)
	}

	return mustEncode(CommandBrightness, []byte{scaleByte(value)}), nil
}

// ColourFrame sets an RGB colour in manual mode.
func ColourFrame(c colour.RGB) Frame {
	return mustEncode(CommandColour, []byte{byte(ModeManual), c.Red, c.Green, c.Blue})
}

// WhiteFrame switches to the white LEDs, where value runs from -1.0 (warmest)
// to 1.0 (coldest). The shade is looked up in WhiteShades and resolved with r;
// a nil r uses colour.Default.
func WhiteFrame(value float64, r colour.Resolver) (Frame, error) {
	index, err := WhiteIndex(value)
	if err != nil {
		return Frame{}, err
	}

	if r == nil {
		r = colour.Default
	}

	c, err := r.Resolve(WhiteShades[index])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: white shade %d: %v", ErrInvalidColour, index, err)
	}

	// The RGB triplet ahead of the flag is ignored by the device, but the
	// vendor app always sends full white there.
	return mustEncode(CommandColour, []byte{
		byte(ModeManual), 0xFF, 0xFF, 0xFF, whiteModeFlag, c.Red, c.Green, c.Blue,
	}), nil
}

// KeepAliveFrame is written periodically to stop the device dropping an idle
// connection.
func KeepAliveFrame() Frame {
	f, _ := encode(keepAlivePreamble, keepAliveTag, nil)
	return f
}

// WhiteIndex maps value in [-1.0, 1.0] linearly onto an index of
// WhiteShades.
func WhiteIndex(value float64) (int, error) {
	if !inRange(value, -1, 1) {
		return 0, fmt.Errorf("%w: white %v not in [-1, 1]", ErrOutOfRange, value)
	}

	normalised := (value + 1) / 2
	return int(math.RoundToEven(normalised * float64(len(WhiteShades)-1))), nil
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// scaleByte maps [0, 1] onto [0, 255]. Halves round to even.
func scaleByte(v float64) byte {
	return byte(math.RoundToEven(v * 0xFF))
}
