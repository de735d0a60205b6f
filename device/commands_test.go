package device

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"go.fergus.london/govee/colour"
)

func TestEncode_PowerOn(t *testing.T) {
	f, err := Encode(CommandPower, []byte{0x01})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := Frame{0x33, 0x01, 0x01}
	want[19] = 0x33
	if f != want {
		t.Errorf("Encode(Power, [1]) = %s, want %s", f, want)
	}

	if got := f.String(); got != "33 01 01 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 33" {
		t.Errorf("String() = %q", got)
	}
}

func TestEncode_Checksum(t *testing.T) {
	commands := []Command{CommandPower, CommandBrightness, CommandColour}

	for _, cmd := range commands {
		for n := 0; n <= MaxPayloadSize; n++ {
			payload := make([]byte, n)
			for i := range payload {
				payload[i] = byte(i*37 + n)
			}

			f, err := Encode(cmd, payload)
			if err != nil {
				t.Fatalf("Encode(%s, %d bytes) failed: %v", cmd, n, err)
			}

			var sum byte
			for _, b := range f[:FrameSize-1] {
				sum ^= b
			}
			if f[FrameSize-1] != sum {
				t.Errorf("Encode(%s, %d bytes) checksum = 0x%02X, want 0x%02X", cmd, n, f[FrameSize-1], sum)
			}
			if !f.Valid() {
				t.Errorf("Encode(%s, %d bytes) frame not Valid()", cmd, n)
			}
			if f[0] != commandPreamble || f.Command() != cmd {
				t.Errorf("Encode(%s, %d bytes) header = % x, want 33 %02x", cmd, n, f[:2], byte(cmd))
			}
			if !bytes.Equal(f.Payload()[:n], payload) {
				t.Errorf("Encode(%s, %d bytes) payload = % x, want % x", cmd, n, f.Payload()[:n], payload)
			}
			for i, b := range f.Payload()[n:] {
				if b != 0 {
					t.Errorf("Encode(%s, %d bytes) padding byte %d = 0x%02X, want 0", cmd, n, i, b)
				}
			}
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, _ := Encode(CommandColour, []byte{0x02, 0x10, 0x20, 0x30})
	b, _ := Encode(CommandColour, []byte{0x02, 0x10, 0x20, 0x30})
	if a != b {
		t.Errorf("Encode not deterministic: %s != %s", a, b)
	}
}

func TestEncode_PayloadTooLong(t *testing.T) {
	for _, n := range []int{MaxPayloadSize + 1, 32, 255} {
		_, err := Encode(CommandColour, make([]byte, n))
		if !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("Encode with %d byte payload: error = %v, want ErrInvalidPayload", n, err)
		}
	}
}

func TestEncode_InvalidCommand(t *testing.T) {
	for _, cmd := range []Command{0x00, 0x02, 0x33, 0xFF} {
		_, err := Encode(cmd, nil)
		if !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("Encode(0x%02X) error = %v, want ErrInvalidCommand", byte(cmd), err)
		}
	}
}

func TestPowerFrame(t *testing.T) {
	tests := []struct {
		on   bool
		want byte
	}{
		{on: true, want: 0x01},
		{on: false, want: 0x00},
	}

	for _, tt := range tests {
		f := PowerFrame(tt.on)
		if f.Command() != CommandPower {
			t.Errorf("PowerFrame(%v) command = %s, want power", tt.on, f.Command())
		}
		if f.Payload()[0] != tt.want {
			t.Errorf("PowerFrame(%v) state = 0x%02X, want 0x%02X", tt.on, f.Payload()[0], tt.want)
		}
	}
}

func TestBrightnessFrame(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		want    byte
		wantErr bool
	}{
		{name: "off", value: 0.0, want: 0x00},
		{name: "full", value: 1.0, want: 0xFF},
		{name: "half", value: 0.5, want: 0x80},
		{name: "fifth", value: 0.2, want: 0x33},
		{name: "above range", value: 1.5, wantErr: true},
		{name: "below range", value: -0.01, wantErr: true},
		{name: "nan", value: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BrightnessFrame(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("BrightnessFrame(%v) error = %v, want ErrOutOfRange", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BrightnessFrame(%v) error: %v", tt.value, err)
			}

			want := mustEncode(CommandBrightness, []byte{tt.want})
			if f != want {
				t.Errorf("BrightnessFrame(%v) = %s, want %s", tt.value, f, want)
			}
		})
	}
}

func TestColourFrame(t *testing.T) {
	f := ColourFrame(colour.RGB{Red: 255})
	want := []byte{0x02, 0xFF, 0x00, 0x00}
	if !bytes.Equal(f.Payload()[:4], want) {
		t.Errorf("ColourFrame(red) payload = % x, want % x", f.Payload()[:4], want)
	}
	if f.Command() != CommandColour {
		t.Errorf("ColourFrame command = %s, want colour", f.Command())
	}
}

func TestWhiteIndex(t *testing.T) {
	last := len(WhiteShades) - 1

	tests := []struct {
		name    string
		value   float64
		want    int
		wantErr bool
	}{
		{name: "warmest", value: -1.0, want: 0},
		{name: "coldest", value: 1.0, want: last},
		{name: "middle", value: 0.0, want: int(math.RoundToEven(float64(last) / 2))},
		{name: "quarter", value: -0.5, want: int(math.RoundToEven(float64(last) / 4))},
		{name: "above range", value: 2.0, wantErr: true},
		{name: "below range", value: -1.01, wantErr: true},
		{name: "nan", value: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WhiteIndex(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("WhiteIndex(%v) error = %v, want ErrOutOfRange", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("WhiteIndex(%v) error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("WhiteIndex(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestWhiteFrame(t *testing.T) {
	f, err := WhiteFrame(-1.0, nil)
	if err != nil {
		t.Fatalf("WhiteFrame failed: %v", err)
	}

	warmest, err := colour.Resolve(WhiteShades[0])
	if err != nil {
		t.Fatalf("resolving warmest shade: %v", err)
	}

	want := []byte{0x02, 0xFF, 0xFF, 0xFF, 0x01, warmest.Red, warmest.Green, warmest.Blue}
	if !bytes.Equal(f.Payload()[:len(want)], want) {
		t.Errorf("WhiteFrame(-1) payload = % x, want % x", f.Payload()[:len(want)], want)
	}
}

func TestWhiteFrame_ResolverFailure(t *testing.T) {
	failing := colour.ResolverFunc(func(v any) (colour.RGB, error) {
		return colour.RGB{}, colour.ErrUnknownColour
	})

	_, err := WhiteFrame(0, failing)
	if !errors.Is(err, ErrInvalidColour) {
		t.Errorf("WhiteFrame error = %v, want ErrInvalidColour", err)
	}
}

func TestWhiteShades_Resolve(t *testing.T) {
	for i, shade := range WhiteShades {
		if _, err := colour.Resolve(shade); err != nil {
			t.Errorf("WhiteShades[%d] = %q does not resolve: %v", i, shade, err)
		}
	}
}

func TestKeepAliveFrame(t *testing.T) {
	want := Frame{0xAA, 0x01}
	want[19] = 0xAB

	if f := KeepAliveFrame(); f != want {
		t.Errorf("KeepAliveFrame() = %s, want %s", f, want)
	}
}

func TestWhiteShades_WarmToCold(t *testing.T) {
	if len(WhiteShades)%2 != 1 {
		t.Fatalf("len(WhiteShades) = %d, want an odd length so 0 maps to the middle shade", len(WhiteShades))
	}

	prev, err := colour.Resolve(WhiteShades[0])
	if err != nil {
		t.Fatalf("WhiteShades[0]: %v", err)
	}
	for i := 1; i < len(WhiteShades); i++ {
		cur, err := colour.Resolve(WhiteShades[i])
		if err != nil {
			t.Fatalf("WhiteShades[%d]: %v", i, err)
		}
		if cur.Red > prev.Red || cur.Blue < prev.Blue {
			t.Errorf("WhiteShades[%d] = %s is warmer than WhiteShades[%d] = %s", i, cur.Hex(), i-1, prev.Hex())
		}
		prev = cur
	}
}
