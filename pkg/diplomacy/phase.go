package diplomacy

import (
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// Phase is a parsed 6-character phase label such as "S1901M": one-letter
// season (S, F, W), four-digit year, one-letter phase type (M movement,
// R retreats, A adjustments).
type Phase struct {
	Season byte
	Year   int
	Type   byte
}

var phaseLabelRe = regexp.MustCompile(`^[SFW]\d{4}[MRA]$`)

// ParsePhase parses a phase label. Labels that do not match the
// season/year/type grammar (e.g. "COMPLETED") return an error.
func ParsePhase(label string) (Phase, error) {
	if !phaseLabelRe.MatchString(label) {
		return Phase{}, errors.Errorf("invalid phase label %q", label)
	}
	year, err := strconv.Atoi(label[1:5])
	if err != nil {
		return Phase{}, errors.Wrapf(err, "invalid year in phase label %q", label)
	}
	return Phase{Season: label[0], Year: year, Type: label[5]}, nil
}

// GameYear returns the integer year of a phase label, or 0 if the label
// cannot be parsed.
func GameYear(label string) int {
	p, err := ParsePhase(label)
	if err != nil {
		return 0
	}
	return p.Year
}

// FractionalYear returns the phase's year with a fractional part indicating
// the season: spring +0.3, fall +0.6, winter +0.9. Unparsable labels
// return 0.
func FractionalYear(label string) float64 {
	p, err := ParsePhase(label)
	if err != nil {
		return 0
	}
	fraction := 0.0
	switch p.Season {
	case 'S':
		fraction = 0.3
	case 'F':
		fraction = 0.6
	case 'W':
		fraction = 0.9
	}
	return float64(p.Year) + fraction
}
