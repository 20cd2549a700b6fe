package param

import (
	"fmt"
	"math"
)

// FloatParameter is a continuous parameter over a LinearRange or LogRange.
type FloatParameter struct {
	cell[float64]
}

// NewFloat starts building a float parameter over rng.
func NewFloat(id ID, name string, rng Range[float64]) *Builder[float64, *FloatParameter] {
	return newBuilder(id, name, rng, Formatter[float64](NewFloatFormatter(2, "")), float64Codec,
		func(cfg cellConfig[float64]) *FloatParameter {
			p := &FloatParameter{}
			p.init(cfg)
			return p
		})
}

func (p *FloatParameter) Kind() Kind { return KindFloat }

func (p *FloatParameter) SerializeValue() float64 {
	return p.Value()
}

func (p *FloatParameter) DeserializeValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: parameter %d", ErrNotANumber, p.info.ID)
	}
	p.SetValue(v)
	return nil
}

// Detach returns an independent copy of p without its listener.
func (p *FloatParameter) Detach() *FloatParameter {
	s := &FloatParameter{}
	p.detach(&s.cell)
	return s
}

func (p *FloatParameter) Snapshot() Parameter {
	return p.Detach()
}
