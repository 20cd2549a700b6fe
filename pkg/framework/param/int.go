package param

import (
	"fmt"
	"math"
)

// IntParameter is a stepped parameter over an IntRange.
type IntParameter struct {
	cell[int64]
}

// NewInt starts building an integer parameter over rng.
func NewInt(id ID, name string, rng Range[int64]) *Builder[int64, *IntParameter] {
	return newBuilder(id, name, rng, Formatter[int64](NewIntFormatter("")), int64Codec,
		func(cfg cellConfig[int64]) *IntParameter {
			p := &IntParameter{}
			p.init(cfg)
			return p
		})
}

func (p *IntParameter) Kind() Kind { return KindInt }

// SerializeValue is exact for integers up to 2^53.
func (p *IntParameter) SerializeValue() float64 {
	return float64(p.Value())
}

func (p *IntParameter) DeserializeValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: parameter %d", ErrNotANumber, p.info.ID)
	}
	p.SetValue(saturateInt64(v))
	return nil
}

// Detach returns an independent copy of p without its listener.
func (p *IntParameter) Detach() *IntParameter {
	s := &IntParameter{}
	p.detach(&s.cell)
	return s
}

func (p *IntParameter) Snapshot() Parameter {
	return p.Detach()
}

func saturateInt64(v float64) int64 {
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	if v <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(math.Round(v))
}
