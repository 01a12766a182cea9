package orientation

import "fmt"

// AspectRatio is a presentation aspect-ratio hint understood by the client.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "square"
	AspectPortrait  AspectRatio = "portrait"
	AspectLandscape AspectRatio = "landscape"
	AspectVideo     AspectRatio = "video"
	AspectWide      AspectRatio = "wide"
	AspectTall      AspectRatio = "tall"
	AspectAuto      AspectRatio = "auto"
)

// CSS returns the CSS aspect-ratio value for the hint.
func (a AspectRatio) CSS() string {
	switch a {
	case AspectSquare:
		return "1 / 1"
	case AspectPortrait:
		return "3 / 4"
	case AspectLandscape:
		return "4 / 3"
	case AspectVideo:
		return "16 / 9"
	case AspectWide:
		return "21 / 9"
	case AspectTall:
		return "9 / 16"
	default:
		return "auto"
	}
}

// ParseAspectRatio validates an aspect-ratio hint.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch a := AspectRatio(s); a {
	case AspectSquare, AspectPortrait, AspectLandscape, AspectVideo, AspectWide, AspectTall, AspectAuto:
		return a, nil
	default:
		return "", fmt.Errorf("%w: aspect ratio %q", ErrUnknownValue, s)
	}
}

func (a *AspectRatio) UnmarshalText(text []byte) error {
	parsed, err := ParseAspectRatio(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ObjectFit mirrors the CSS object-fit property.
type ObjectFit string

const (
	FitCover     ObjectFit = "cover"
	FitContain   ObjectFit = "contain"
	FitFill      ObjectFit = "fill"
	FitNone      ObjectFit = "none"
	FitScaleDown ObjectFit = "scale-down"
)

// ParseObjectFit validates an object-fit value.
func ParseObjectFit(s string) (ObjectFit, error) {
	switch f := ObjectFit(s); f {
	case FitCover, FitContain, FitFill, FitNone, FitScaleDown:
		return f, nil
	default:
		return "", fmt.Errorf("%w: object fit %q", ErrUnknownValue, s)
	}
}

func (f *ObjectFit) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectFit(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Rule is the presentation decision for one image.
type Rule struct {
	AspectRatio AspectRatio `json:"aspect_ratio" yaml:"aspect_ratio" toml:"aspect_ratio"`
	ObjectFit   ObjectFit   `json:"object_fit" yaml:"object_fit" toml:"object_fit"`
}

// IsZero reports whether the rule is unset.
func (r Rule) IsZero() bool {
	return r.AspectRatio == "" && r.ObjectFit == ""
}

// RuleTable maps every orientation to a rule. Each orientation is a field,
// so a table literal names every class it covers; unset fields resolve to the
// caller's fallback.
type RuleTable struct {
	Square    Rule `json:"square" yaml:"square"`
	Portrait  Rule `json:"portrait" yaml:"portrait"`
	Landscape Rule `json:"landscape" yaml:"landscape"`
	UltraWide Rule `json:"ultra_wide" yaml:"ultra_wide"`
	UltraTall Rule `json:"ultra_tall" yaml:"ultra_tall"`
}

// DefaultFallback is used when neither the orientation nor a table entry is known.
var DefaultFallback = Rule{AspectRatio: AspectSquare, ObjectFit: FitCover}

// DefaultRules is the built-in table used by pages that do not define their own.
var DefaultRules = RuleTable{
	Square:    Rule{AspectRatio: AspectSquare, ObjectFit: FitCover},
	Portrait:  Rule{AspectRatio: AspectPortrait, ObjectFit: FitCover},
	Landscape: Rule{AspectRatio: AspectLandscape, ObjectFit: FitCover},
	UltraWide: Rule{AspectRatio: AspectWide, ObjectFit: FitContain},
	UltraTall: Rule{AspectRatio: AspectTall, ObjectFit: FitContain},
}

// Lookup returns the entry for o and whether it is set.
func (t RuleTable) Lookup(o Orientation) (Rule, bool) {
	var r Rule
	switch o {
	case Square:
		r = t.Square
	case Portrait:
		r = t.Portrait
	case Landscape:
		r = t.Landscape
	case UltraWide:
		r = t.UltraWide
	case UltraTall:
		r = t.UltraTall
	default:
		return Rule{}, false
	}
	return r, !r.IsZero()
}

// Complete reports whether every orientation has an entry.
func (t RuleTable) Complete() bool {
	for _, o := range Orientations {
		if _, ok := t.Lookup(o); !ok {
			return false
		}
	}
	return true
}

// Resolve picks the rule for o from table. An Unknown orientation or a
// missing entry returns fallback unchanged.
func Resolve(o Orientation, table RuleTable, fallback Rule) Rule {
	if r, ok := table.Lookup(o); ok {
		return r
	}
	return fallback
}
