package fabric

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Location is an integer grid coordinate. Its canonical string form is
// "X{x}Y{y}", the key used by routed-design connectivity maps.
type Location struct {
	X int
	Y int
}

// String returns the canonical "X{x}Y{y}" form
func (l Location) String() string {
	return fmt.Sprintf("X%dY%d", l.X, l.Y)
}

// LocationError reports a location key that does not match the required
// "X{x}Y{y}" pattern. This is a programmer-misuse error and is returned to
// the immediate caller rather than absorbed.
type LocationError struct {
	Raw string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("malformed location %q: expected X{x}Y{y}", e.Raw)
}

var locationPattern = regexp.MustCompile(`^X(-?\d+)Y(-?\d+)$`)

// ParseLocation parses a canonical "X{x}Y{y}" key. It returns a
// *LocationError if the string does not match the pattern.
func ParseLocation(s string) (Location, error) {
	m := locationPattern.FindStringSubmatch(s)
	if m == nil {
		return Location{}, &LocationError{Raw: s}
	}
	// The pattern guarantees both captures parse.
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	return Location{X: x, Y: y}, nil
}

// FamilyOf classifies a tile type name into a layout family by its
// conventional naming prefix. Unrecognized names fall back to the logic
// family.
func FamilyOf(tileType string) Family {
	upper := strings.ToUpper(tileType)
	switch {
	case hasAnyPrefix(upper, "RAM", "BRAM", "MEM", "REGFILE"):
		return FamilyMemory
	case hasAnyPrefix(upper, "IO", "GPIO", "PAD", "CONFIG"):
		return FamilyIO
	case hasAnyPrefix(upper, "DSP", "MULT", "MULA", "ALU"):
		return FamilyProcessing
	}
	return FamilyLogic
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
