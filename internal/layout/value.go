package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // Size determined by content/flex
	UnitFixed               // Absolute terminal cells
	UnitPercent             // Percentage of parent's content box
)

// Value represents a dimension that can be fixed, percentage, or auto.
type Value struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Value that should be computed from content/flex.
func Auto() Value {
	return Value{Unit: UnitAuto}
}

// Fixed returns a Value representing an absolute number of terminal cells.
func Fixed(n int) Value {
	return Value{Amount: float64(n), Unit: UnitFixed}
}

// Percent returns a Value representing a percentage of available space.
// The value is on a 0-100 scale (50.0 = 50%).
func Percent(p float64) Value {
	return Value{Amount: p, Unit: UnitPercent}
}

// ParseValue parses the textual forms a dimension can take in a style:
// "auto" (or ""), an absolute cell count such as "12", or a percentage
// such as "50%".
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return Auto(), nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		return Percent(p), nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid dimension %q: %w", s, err)
	}
	return Value{Amount: n, Unit: UnitFixed}, nil
}

// Resolve computes the actual integer value given available space.
// For UnitAuto, returns the fallback value.
func (v Value) Resolve(available, fallback int) int {
	switch v.Unit {
	case UnitFixed:
		return int(v.Amount)
	case UnitPercent:
		return int(float64(available) * v.Amount / 100.0)
	default:
		return fallback
	}
}

// IsAuto returns true if this value should be computed from content/flex.
func (v Value) IsAuto() bool {
	return v.Unit == UnitAuto
}

// String formats the value the way ParseValue accepts it.
func (v Value) String() string {
	switch v.Unit {
	case UnitFixed:
		return strconv.FormatFloat(v.Amount, 'f', -1, 64)
	case UnitPercent:
		return strconv.FormatFloat(v.Amount, 'f', -1, 64) + "%"
	default:
		return "auto"
	}
}

// sanitized returns v with a non-negative finite amount.
func (v Value) sanitized() Value {
	if v.Unit == UnitAuto {
		return Auto()
	}
	v.Amount = nonNegative(v.Amount)
	return v
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
