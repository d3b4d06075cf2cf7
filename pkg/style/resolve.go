package style

import (
	"strconv"
	"strings"
)

// ParseColor parses a "#rgb" or "#rrggbb" hex string into an RGB triple.
// Any other shape (missing '#', non-hex digits, other lengths) is absent.
func ParseColor(s string) (RGB, bool) {
	if !strings.HasPrefix(s, "#") {
		return RGB{}, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var rgb RGB
		for i := 0; i < 3; i++ {
			nibble, ok := hexNibble(hex[i])
			if !ok {
				return RGB{}, false
			}
			// Double the nibble: "a" becomes 0xaa.
			rgb[i] = nibble<<4 | nibble
		}
		return rgb, true
	case 6:
		var rgb RGB
		for i := 0; i < 3; i++ {
			hi, ok1 := hexNibble(hex[2*i])
			lo, ok2 := hexNibble(hex[2*i+1])
			if !ok1 || !ok2 {
				return RGB{}, false
			}
			rgb[i] = hi<<4 | lo
		}
		return rgb, true
	default:
		return RGB{}, false
	}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ParsePx parses a pixel value: a bare number is used as-is, a string may
// carry an optional "px" suffix. Anything else is absent.
func ParsePx(v any) (float64, bool) {
	switch value := v.(type) {
	case nil:
		return 0, false
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint:
		return float64(value), true
	case string:
		trimmed := strings.TrimSuffix(value, "px")
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Dimension normalizes a pixel-or-percent value: a number renders as
// "<n>px", a "<n>px" or "<n>%" string passes through unchanged, a bare
// numeric string gets "px" appended. Anything else is absent.
func Dimension(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case float64:
		return formatPx(value), true
	case float32:
		return formatPx(float64(value)), true
	case int:
		return formatPx(float64(value)), true
	case int32:
		return formatPx(float64(value)), true
	case int64:
		return formatPx(float64(value)), true
	case uint:
		return formatPx(float64(value)), true
	case string:
		if rest, ok := strings.CutSuffix(value, "%"); ok {
			if _, err := strconv.ParseFloat(rest, 64); err == nil {
				return value, true
			}
			return "", false
		}
		if rest, ok := strings.CutSuffix(value, "px"); ok {
			if _, err := strconv.ParseFloat(rest, 64); err == nil {
				return value, true
			}
			return "", false
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return value + "px", true
		}
		return "", false
	default:
		return "", false
	}
}

func formatPx(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

// ResolveBox resolves the four sides of a box-model value (top, right,
// bottom, left). Each side takes the first parseable layer of
// per-side > matching axis > all, defaulting to 0. The result is always
// fully populated.
func ResolveBox(all, x, y, top, right, bottom, left any) [4]float64 {
	return [4]float64{
		resolveSide(top, y, all),
		resolveSide(right, x, all),
		resolveSide(bottom, y, all),
		resolveSide(left, x, all),
	}
}

func resolveSide(side, axis, all any) float64 {
	if px, ok := ParsePx(side); ok {
		return px
	}
	if px, ok := ParsePx(axis); ok {
		return px
	}
	if px, ok := ParsePx(all); ok {
		return px
	}
	return 0
}
