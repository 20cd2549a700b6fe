package param

import (
	"fmt"
	"math"
)

// BoolParameter is a two-position switch.
type BoolParameter struct {
	cell[bool]
}

// NewBool starts building a boolean parameter.
func NewBool(id ID, name string) *Builder[bool, *BoolParameter] {
	return newBuilder(id, name, Range[bool](BoolRange{}), Formatter[bool](&BoolFormatter{}), boolCodec,
		func(cfg cellConfig[bool]) *BoolParameter {
			p := &BoolParameter{}
			p.init(cfg)
			return p
		})
}

func (p *BoolParameter) Kind() Kind { return KindBool }

// SerializeValue stores true as 1 and false as 0.
func (p *BoolParameter) SerializeValue() float64 {
	if p.Value() {
		return 1
	}
	return 0
}

// DeserializeValue treats values of 0.5 and above as true.
func (p *BoolParameter) DeserializeValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: parameter %d", ErrNotANumber, p.info.ID)
	}
	p.SetValue(v >= 0.5)
	return nil
}

// Detach returns an independent copy of p without its listener.
func (p *BoolParameter) Detach() *BoolParameter {
	s := &BoolParameter{}
	p.detach(&s.cell)
	return s
}

func (p *BoolParameter) Snapshot() Parameter {
	return p.Detach()
}
