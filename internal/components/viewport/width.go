package viewport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultWidth fills the container
const DefaultWidth Width = "100%"

// ErrInvalidWidth is returned when a width value cannot be parsed
var ErrInvalidWidth = errors.New("invalid width")

// Width is a CSS-like width: a percentage ("100%") or an absolute size ("320", "320px").
// The controller passes it through to every plan entry without using it in range math.
type Width string

// PixelWidth returns an absolute width
func PixelWidth(px float64) Width {
	return Width(strconv.FormatFloat(px, 'f', -1, 64))
}

// PercentWidth returns a width relative to the container
func PercentWidth(percent float64) Width {
	return Width(strconv.FormatFloat(percent, 'f', -1, 64) + "%")
}

// Resolve converts the width into an absolute size inside a container.
// An empty width fills the container.
func (w Width) Resolve(container int) (int, error) {
	s := strings.TrimSpace(string(w))
	if s == "" {
		return container, nil
	}

	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || pct < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWidth, string(w))
		}
		return int(float64(container) * pct / 100), nil
	}

	px, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil || px < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWidth, string(w))
	}
	return int(px), nil
}

// Validate reports whether the width can be resolved
func (w Width) Validate() error {
	_, err := w.Resolve(0)
	return err
}
