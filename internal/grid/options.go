// Package grid assigns presentation rules and grid positions to images and
// tracks the live working set a page renders from.
package grid

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/portfolio/internal/orientation"
)

var (
	ErrInvalidMode     = errors.New("invalid grid mode")
	ErrInvalidColumns  = errors.New("invalid grid columns")
	ErrInvalidAdaptive = errors.New("invalid adaptive mode")
)

// Mode selects one image per row or a multi-column grid.
type Mode string

const (
	ModeSolo Mode = "solo"
	ModeGrid Mode = "grid"
)

// Adaptive selects whether rules come from image orientation or the fallback.
type Adaptive string

const (
	AdaptiveAuto   Adaptive = "auto"
	AdaptiveManual Adaptive = "manual"
)

const (
	MinColumns     = 2
	MaxColumns     = 5
	DefaultColumns = 3
)

// Options configures a renderer. Zero values take defaults: grid mode, three
// columns, auto adaptation, the built-in rule table and fallback.
type Options struct {
	Mode     Mode                  `json:"mode" yaml:"mode"`
	Columns  int                   `json:"columns" yaml:"columns"`
	Adaptive Adaptive              `json:"adaptive" yaml:"adaptive"`
	Rules    orientation.RuleTable `json:"rules" yaml:"rules"`
	Fallback orientation.Rule      `json:"fallback" yaml:"fallback"`
}

// WithDefaults returns o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeGrid
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Adaptive == "" {
		o.Adaptive = AdaptiveAuto
	}
	if o.Rules == (orientation.RuleTable{}) {
		o.Rules = orientation.DefaultRules
	}
	if o.Fallback.IsZero() {
		o.Fallback = orientation.DefaultFallback
	}
	return o
}

// Validate checks mode, column count and adaptation.
func (o Options) Validate() error {
	switch o.Mode {
	case ModeSolo, ModeGrid:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}
	if o.Columns < MinColumns || o.Columns > MaxColumns {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidColumns, o.Columns, MinColumns, MaxColumns)
	}
	switch o.Adaptive {
	case AdaptiveAuto, AdaptiveManual:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAdaptive, o.Adaptive)
	}
	return nil
}
