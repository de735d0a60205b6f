package colour

import (
	"errors"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  RGB
	}{
		{name: "named red", input: "red", want: RGB{255, 0, 0}},
		{name: "named mixed case", input: "Purple", want: RGB{128, 0, 128}},
		{name: "named with spaces", input: " dark orange ", want: RGB{255, 140, 0}},
		{name: "named white", input: "white", want: RGB{255, 255, 255}},
		{name: "hex long", input: "#00ff7f", want: RGB{0, 255, 127}},
		{name: "hex long upper", input: "#FF8D0B", want: RGB{255, 141, 11}},
		{name: "hex without hash", input: "0000ff", want: RGB{0, 0, 255}},
		{name: "hex short", input: "#0f0", want: RGB{0, 255, 0}},
		{name: "rgb value", input: RGB{1, 2, 3}, want: RGB{1, 2, 3}},
		{name: "rgb pointer", input: &RGB{4, 5, 6}, want: RGB{4, 5, 6}},
		{name: "byte array", input: [3]uint8{7, 8, 9}, want: RGB{7, 8, 9}},
		{name: "image colour", input: color.RGBA{R: 10, G: 20, B: 30, A: 255}, want: RGB{10, 20, 30}},
		{name: "colorful in range", input: colorful.Color{R: 1, G: 0.5, B: 0}, want: RGB{255, 128, 0}},
		{name: "colorful out of range is clamped", input: colorful.Color{R: 1.4, G: -0.2, B: 0.5}, want: RGB{255, 0, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "unknown name", input: "notacolour"},
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "bad hex digits", input: "#gg0000"},
		{name: "wrong hex length", input: "#ff00"},
		{name: "trailing non-hex digit", input: "#fffffg"},
		{name: "non-hex final digit", input: "#12345g"},
		{name: "non-hex short form", input: "#ffg"},
		{name: "non-hex without hash", input: "12x456"},
		{name: "nil", input: nil},
		{name: "nil rgb pointer", input: (*RGB)(nil)},
		{name: "unsupported type", input: 42},
		{name: "transparent", input: color.RGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.input)
			if !errors.Is(err, ErrUnknownColour) {
				t.Errorf("Resolve(%v) error = %v, want ErrUnknownColour", tt.input, err)
			}
		})
	}
}

func TestRGB_Hex(t *testing.T) {
	if got := (RGB{255, 8, 171}).Hex(); got != "#ff08ab" {
		t.Errorf("Hex() = %q, want %q", got, "#ff08ab")
	}
}

func TestRGB_RoundTripsThroughResolver(t *testing.T) {
	want := RGB{12, 34, 56}
	got, err := Resolve(want.Hex())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != want {
		t.Errorf("Resolve(%q) = %+v, want %+v", want.Hex(), got, want)
	}
}

func TestResolverFunc(t *testing.T) {
	r := ResolverFunc(func(v any) (RGB, error) {
		return RGB{1, 1, 1}, nil
	})
	got, err := r.Resolve("anything")
	if err != nil || got != (RGB{1, 1, 1}) {
		t.Errorf("Resolve() = %+v, %v, want {1 1 1}, nil", got, err)
	}
}
