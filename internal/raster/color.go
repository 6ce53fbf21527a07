package raster

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves an SVG color name or a #rgb / #rrggbb hex code
// and applies opacity, clamped to [0, 1], as its alpha.
func ParseColor(name string, opacity float64) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(name))

	var c color.NRGBA
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || len(hex) != 6 {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", name)
		}
		c = color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	} else {
		rgba, ok := colornames.Map[s]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("unknown color %q", name)
		}
		c = color.NRGBA{R: rgba.R, G: rgba.G, B: rgba.B, A: 0xff}
	}

	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(opacity * 0xff))
	return c, nil
}
