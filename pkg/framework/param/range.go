package param

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Range maps a parameter's plain domain to the normalized [0,1] domain used
// for host automation. Implementations are immutable and safe to share.
type Range[T any] interface {
	// Clamp restricts value to [min, max].
	Clamp(value T) T
	// Steps returns 0 for continuous domains, the number of discrete steps otherwise.
	Steps() int
	// PlainToNormalized fails for values outside [min, max]. It never clamps.
	PlainToNormalized(plain T) (float64, bool)
	// NormalizedToPlain is total; any input yields a value inside the range.
	NormalizedToPlain(normalized float64) T
}

// boundTolerance absorbs floating error at the edges of continuous ranges.
const boundTolerance = 1e-12

// ClampNormalized restricts n to [0, 1]. NaN maps to 0.
func ClampNormalized(n float64) float64 {
	if !(n > 0) {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// bucket quantizes a normalized value onto [0, steps] by flooring
// normalized*(steps+1).
func bucket(normalized float64, steps uint64) uint64 {
	if !(normalized > 0) {
		return 0
	}
	b := normalized * float64(steps+1)
	if b >= float64(steps) {
		return steps
	}
	return uint64(b)
}

// IntRange is an inclusive integer range with max-min steps.
type IntRange struct {
	min  int64
	max  int64
	span uint64
}

// NewIntRange creates an integer range. min must not exceed max.
func NewIntRange(min, max int64) (*IntRange, error) {
	if min > max {
		return nil, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	span := uint64(max) - uint64(min)
	if span > math.MaxInt64 {
		return nil, fmt.Errorf("%w: span of [%d, %d] overflows", ErrInvalidRange, min, max)
	}
	return &IntRange{min: min, max: max, span: span}, nil
}

// MustIntRange is like NewIntRange but panics on an invalid range.
func MustIntRange(min, max int64) *IntRange {
	r, err := NewIntRange(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *IntRange) Min() int64 { return r.min }
func (r *IntRange) Max() int64 { return r.max }

func (r *IntRange) Clamp(value int64) int64 {
	if value < r.min {
		return r.min
	}
	if value > r.max {
		return r.max
	}
	return value
}

func (r *IntRange) Steps() int {
	return int(r.span)
}

func (r *IntRange) PlainToNormalized(plain int64) (float64, bool) {
	if plain < r.min || plain > r.max {
		return 0, false
	}
	if r.span == 0 {
		return 0, true
	}
	return float64(uint64(plain)-uint64(r.min)) / float64(r.span), true
}

func (r *IntRange) NormalizedToPlain(normalized float64) int64 {
	return r.min + int64(bucket(normalized, r.span))
}

// LinearRange is a continuous range with linear mapping.
type LinearRange struct {
	min float64
	max float64
}

// NewLinearRange creates a linear continuous range.
func NewLinearRange(min, max float64) (*LinearRange, error) {
	if err := checkFloatBounds(min, max); err != nil {
		return nil, err
	}
	return &LinearRange{min: min, max: max}, nil
}

// MustLinearRange is like NewLinearRange but panics on an invalid range.
func MustLinearRange(min, max float64) *LinearRange {
	r, err := NewLinearRange(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *LinearRange) Min() float64 { return r.min }
func (r *LinearRange) Max() float64 { return r.max }

func (r *LinearRange) Clamp(value float64) float64 {
	return clampFloat(value, r.min, r.max)
}

func (r *LinearRange) Steps() int { return 0 }

func (r *LinearRange) PlainToNormalized(plain float64) (float64, bool) {
	plain, ok := snapToBounds(plain, r.min, r.max)
	if !ok {
		return 0, false
	}
	if r.max == r.min {
		return 0, true
	}
	return ClampNormalized((plain - r.min) / (r.max - r.min)), true
}

func (r *LinearRange) NormalizedToPlain(normalized float64) float64 {
	n := ClampNormalized(normalized)
	if n == 1 {
		return r.max
	}
	return r.Clamp(r.min + n*(r.max-r.min))
}

// LogRange is a continuous range with logarithmic mapping, suited to
// frequencies and times. Both bounds must be positive.
type LogRange struct {
	min    float64
	max    float64
	logMin float64
	logMax float64
}

// NewLogRange creates a logarithmic range over [min, max] with 0 < min <= max.
func NewLogRange(min, max float64) (*LogRange, error) {
	if err := checkFloatBounds(min, max); err != nil {
		return nil, err
	}
	if min <= 0 {
		return nil, fmt.Errorf("%w: logarithmic range needs min > 0, got %g", ErrInvalidRange, min)
	}
	return &LogRange{min: min, max: max, logMin: math.Log(min), logMax: math.Log(max)}, nil
}

// MustLogRange is like NewLogRange but panics on an invalid range.
func MustLogRange(min, max float64) *LogRange {
	r, err := NewLogRange(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *LogRange) Min() float64 { return r.min }
func (r *LogRange) Max() float64 { return r.max }

func (r *LogRange) Clamp(value float64) float64 {
	return clampFloat(value, r.min, r.max)
}

func (r *LogRange) Steps() int { return 0 }

func (r *LogRange) PlainToNormalized(plain float64) (float64, bool) {
	plain, ok := snapToBounds(plain, r.min, r.max)
	if !ok {
		return 0, false
	}
	if r.max == r.min {
		return 0, true
	}
	return ClampNormalized((math.Log(plain) - r.logMin) / (r.logMax - r.logMin)), true
}

func (r *LogRange) NormalizedToPlain(normalized float64) float64 {
	n := ClampNormalized(normalized)
	switch n {
	case 0:
		return r.min
	case 1:
		return r.max
	}
	return r.Clamp(math.Exp(r.logMin + n*(r.logMax-r.logMin)))
}

// BoolRange maps false to 0 and true to 1.
type BoolRange struct{}

func (BoolRange) Clamp(value bool) bool { return value }

func (BoolRange) Steps() int { return 1 }

func (BoolRange) PlainToNormalized(plain bool) (float64, bool) {
	if plain {
		return 1, true
	}
	return 0, true
}

func (BoolRange) NormalizedToPlain(normalized float64) bool {
	return bucket(normalized, 1) == 1
}

// EnumRange is the index domain [0, count-1] of an enumerated parameter.
type EnumRange struct {
	count int
}

// NewEnumRange creates an index range over count entries.
func NewEnumRange(count int) (*EnumRange, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: enumeration needs at least one entry, got %d", ErrInvalidRange, count)
	}
	return &EnumRange{count: count}, nil
}

// Count returns the number of entries.
func (r *EnumRange) Count() int { return r.count }

func (r *EnumRange) Clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value >= r.count {
		return r.count - 1
	}
	return value
}

func (r *EnumRange) Steps() int { return r.count - 1 }

func (r *EnumRange) PlainToNormalized(plain int) (float64, bool) {
	if plain < 0 || plain >= r.count {
		return 0, false
	}
	if r.count == 1 {
		return 0, true
	}
	return float64(plain) / float64(r.count-1), true
}

func (r *EnumRange) NormalizedToPlain(normalized float64) int {
	return int(bucket(normalized, uint64(r.count-1)))
}

func checkFloatBounds(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidRange, min, max)
	}
	if min > max {
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidRange, min, max)
	}
	return nil
}

func clampFloat(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// snapToBounds accepts values within floating tolerance of a bound and
// returns them as the bound itself.
func snapToBounds(value, min, max float64) (float64, bool) {
	if math.IsNaN(value) {
		return 0, false
	}
	if value < min {
		if scalar.EqualWithinAbsOrRel(value, min, boundTolerance, boundTolerance) {
			return min, true
		}
		return 0, false
	}
	if value > max {
		if scalar.EqualWithinAbsOrRel(value, max, boundTolerance, boundTolerance) {
			return max, true
		}
		return 0, false
	}
	return value, true
}
