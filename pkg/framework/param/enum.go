package param

import (
	"fmt"
	"math"
)

// EnumParameter selects one of a fixed list of options by index.
type EnumParameter struct {
	cell[int]
}

// NewEnum starts building an enumerated parameter over options. It records
// ErrInvalidRange when options is empty.
func NewEnum(id ID, name string, options []ChoiceOption) *Builder[int, *EnumParameter] {
	rng, err := NewEnumRange(len(options))
	var r Range[int] = rng
	if err != nil {
		// Placeholder so the builder stays usable; Build reports err.
		r = &EnumRange{count: 1}
	}
	b := newBuilder(id, name, r, Formatter[int](NewEnumFormatter(options)), intCodec,
		func(cfg cellConfig[int]) *EnumParameter {
			p := &EnumParameter{}
			p.init(cfg)
			return p
		})
	b.info.Flags |= IsList
	if err != nil {
		b.fail(fmt.Errorf("parameter %d %q: %w", id, name, err))
	}
	return b
}

func (p *EnumParameter) Kind() Kind { return KindEnum }

// SerializeValue stores the option index.
func (p *EnumParameter) SerializeValue() float64 {
	return float64(p.Value())
}

func (p *EnumParameter) DeserializeValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: parameter %d", ErrNotANumber, p.info.ID)
	}
	p.SetValue(int(saturateInt64(v)))
	return nil
}

// Detach returns an independent copy of p without its listener.
func (p *EnumParameter) Detach() *EnumParameter {
	s := &EnumParameter{}
	p.detach(&s.cell)
	return s
}

func (p *EnumParameter) Snapshot() Parameter {
	return p.Detach()
}
