// Package orientation classifies images by aspect ratio and maps each class to
// presentation hints (aspect ratio and object fit) through a rule table.
package orientation

import (
	"errors"
	"fmt"
)

// ErrUnknownValue is returned when parsing an unrecognized enum value.
var ErrUnknownValue = errors.New("unknown value")

// Orientation is the shape class of an image derived from width/height.
// The zero value, Unknown, means dimensions have not been discovered yet.
type Orientation int

const (
	Unknown Orientation = iota
	Square
	Portrait
	Landscape
	UltraWide
	UltraTall
)

// Orientations lists every concrete orientation in classification order.
var Orientations = []Orientation{Square, Portrait, Landscape, UltraWide, UltraTall}

// Band thresholds on the width/height ratio.
const (
	ultraWideAbove = 2.5
	landscapeAbove = 1.3
	squareMin      = 0.9
	squareMax      = 1.1
	ultraTallAtMax = 0.4
)

// Classify buckets an image by its width/height ratio. Callers must pass
// positive finite dimensions; the function has no error path.
//
// Ratios in (1.1, 1.3] fall between the square band and the landscape
// threshold, outside every named band. They classify as Landscape on
// purpose instead of falling through to UltraTall.
func Classify(width, height float64) Orientation {
	ratio := width / height

	switch {
	case ratio > ultraWideAbove:
		return UltraWide
	case ratio > landscapeAbove:
		return Landscape
	case ratio >= squareMin && ratio <= squareMax:
		return Square
	case ratio > squareMax:
		return Landscape
	case ratio > ultraTallAtMax:
		return Portrait
	default:
		return UltraTall
	}
}

// ClassifyInts is Classify for integer pixel dimensions. Non-positive
// dimensions yield Unknown.
func ClassifyInts(width, height int) Orientation {
	if width <= 0 || height <= 0 {
		return Unknown
	}
	return Classify(float64(width), float64(height))
}

func (o Orientation) String() string {
	switch o {
	case Square:
		return "square"
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case UltraWide:
		return "ultra_wide"
	case UltraTall:
		return "ultra_tall"
	default:
		return "unknown"
	}
}

// ParseOrientation parses the String form of an orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "square":
		return Square, nil
	case "portrait":
		return Portrait, nil
	case "landscape":
		return Landscape, nil
	case "ultra_wide", "ultraWide":
		return UltraWide, nil
	case "ultra_tall", "ultraTall":
		return UltraTall, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("%w: orientation %q", ErrUnknownValue, s)
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
