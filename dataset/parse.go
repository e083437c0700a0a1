package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/macroscene/engine"
)

// ParseNumber turns a cell into a value. Blank, non-numeric and non-finite
// cells are missing; nothing is coerced to zero.
func ParseNumber(s string) engine.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return engine.Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return engine.Missing()
	}
	return engine.Some(f)
}

// ParseYear reads an integral year such as "2008" or "2008.0".
// ok is false for anything else; such rows are rejected by the loader.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
