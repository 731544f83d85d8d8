// Package color converts brand hex colours into the HSL triplets consumed by
// styling variables such as hsl(var(--primary)).
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidHex reports input that is not a six-digit #RRGGBB colour.
var ErrInvalidHex = errors.New("invalid hex colour")

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// ParseError describes which input failed to parse.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q (want #RRGGBB)", ErrInvalidHex, e.Input)
}

// Unwrap lets errors.Is match ErrInvalidHex.
func (e *ParseError) Unwrap() error { return ErrInvalidHex }

// RGB holds 8-bit channel values.
type RGB struct {
	R, G, B uint8
}

// HSL holds hue in degrees [0,360) and saturation/lightness in percent [0,100].
type HSL struct {
	H, S, L int
}

// String formats the value as "H S% L%".
func (h HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", h.H, h.S, h.L)
}

// ParseHex parses "#RRGGBB" or "RRGGBB", case-insensitive. Three-digit,
// alpha and named colours are rejected.
func ParseHex(hex string) (RGB, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if !hexPattern.MatchString(trimmed) {
		return RGB{}, &ParseError{Input: hex}
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return RGB{}, &ParseError{Input: hex}
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// IsHex reports whether hex parses as #RRGGBB.
func IsHex(hex string) bool {
	_, err := ParseHex(hex)
	return err == nil
}

// ToHSL converts rgb using the max/min channel method.
func ToHSL(rgb RGB) HSL {
	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}
		switch maxC {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	hue := int(math.Round(h * 360))
	if hue == 360 {
		hue = 0
	}
	return HSL{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ToHSLTriplet converts a hex colour to the "H S% L%" styling-variable value.
// Malformed input returns a *ParseError; achromatic colours are valid and
// yield a zero hue and saturation.
func ToHSLTriplet(hex string) (string, error) {
	rgb, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return ToHSL(rgb).String(), nil
}

// HSLToRGB is the reference inverse of ToHSL, taking hue in degrees and
// saturation/lightness in percent.
func HSLToRGB(h, s, l float64) RGB {
	s /= 100
	l /= 100
	if s == 0 {
		v := channel(l)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360

	return RGB{
		R: channel(hueToRGB(p, q, hk+1.0/3)),
		G: channel(hueToRGB(p, q, hk)),
		B: channel(hueToRGB(p, q, hk-1.0/3)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(1, math.Max(0, v)) * 255))
}
