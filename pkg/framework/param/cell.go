package param

import (
	"math"
	"sync/atomic"
)

// codec packs a plain value into the 64 bits of an atomic slot.
type codec[T any] struct {
	encode func(T) uint64
	decode func(uint64) T
}

type listenerSlot struct {
	listener Listener
}

// cell holds the live state shared by all parameter types. The value and
// modulation slots are independent atomics: a reader may see a new value
// with an old modulation or the reverse.
type cell[T any] struct {
	info         *Info
	value        atomic.Uint64
	modulation   atomic.Uint64
	defaultValue T
	rng          Range[T]
	formatter    Formatter[T]
	codec        *codec[T]
	listener     atomic.Pointer[listenerSlot]
}

type cellConfig[T any] struct {
	info         *Info
	defaultValue T
	rng          Range[T]
	formatter    Formatter[T]
	codec        *codec[T]
	listener     Listener
}

func (c *cell[T]) init(cfg cellConfig[T]) {
	c.info = cfg.info
	c.rng = cfg.rng
	c.formatter = cfg.formatter
	c.codec = cfg.codec
	c.defaultValue = cfg.rng.Clamp(cfg.defaultValue)
	c.value.Store(c.codec.encode(c.defaultValue))
	c.modulation.Store(math.Float64bits(0))
	if cfg.listener != nil {
		c.listener.Store(&listenerSlot{listener: cfg.listener})
	}
}

// detach copies the current state into dst without the listener.
func (c *cell[T]) detach(dst *cell[T]) {
	dst.info = c.info
	dst.rng = c.rng
	dst.formatter = c.formatter
	dst.codec = c.codec
	dst.defaultValue = c.defaultValue
	dst.value.Store(c.value.Load())
	dst.modulation.Store(c.modulation.Load())
}

// Info returns the shared descriptor.
func (c *cell[T]) Info() *Info {
	return c.info
}

// Range returns the shared range mapping.
func (c *cell[T]) Range() Range[T] {
	return c.rng
}

// Formatter returns the shared formatter.
func (c *cell[T]) Formatter() Formatter[T] {
	return c.formatter
}

// Value returns the current plain value.
func (c *cell[T]) Value() T {
	return c.codec.decode(c.value.Load())
}

// SetValue clamps value to the range, stores it and notifies the listener.
func (c *cell[T]) SetValue(value T) {
	c.value.Store(c.codec.encode(c.rng.Clamp(value)))
	c.changed()
}

// DefaultValue returns the plain default fixed at construction.
func (c *cell[T]) DefaultValue() T {
	return c.defaultValue
}

func (c *cell[T]) ResetToDefault() {
	c.SetValue(c.defaultValue)
}

func (c *cell[T]) NormalizedValue() float64 {
	n, ok := c.rng.PlainToNormalized(c.Value())
	if !ok {
		return 0
	}
	return n
}

func (c *cell[T]) SetNormalizedValue(n float64) error {
	c.SetValue(c.rng.NormalizedToPlain(ClampNormalized(n)))
	return nil
}

func (c *cell[T]) NormalizedModulation() float64 {
	return math.Float64frombits(c.modulation.Load())
}

func (c *cell[T]) SetNormalizedModulation(amount float64) {
	c.modulation.Store(math.Float64bits(amount))
	c.changed()
}

// NormalizedToPlain maps a normalized value, clamped to [0, 1], to the plain domain.
func (c *cell[T]) NormalizedToPlain(n float64) T {
	return c.rng.NormalizedToPlain(ClampNormalized(n))
}

// PlainToNormalized maps a plain value to [0, 1]. It fails outside the range.
func (c *cell[T]) PlainToNormalized(plain T) (float64, bool) {
	return c.rng.PlainToNormalized(plain)
}

func (c *cell[T]) NormalizedToString(n float64) string {
	return c.formatter.ValueToString(c.NormalizedToPlain(n))
}

func (c *cell[T]) StringToNormalized(text string) (float64, bool) {
	plain, ok := c.formatter.StringToValue(text)
	if !ok {
		return 0, false
	}
	return c.rng.PlainToNormalized(plain)
}

// String formats the current value.
func (c *cell[T]) String() string {
	return c.formatter.ValueToString(c.Value())
}

func (c *cell[T]) SetListener(l Listener) {
	if l == nil {
		c.listener.Store(nil)
		return
	}
	c.listener.Store(&listenerSlot{listener: l})
}

func (c *cell[T]) changed() {
	if slot := c.listener.Load(); slot != nil {
		slot.listener.ParameterChanged(c.info.ID)
	}
}

func (c *cell[T]) sealed() {}

var (
	int64Codec = &codec[int64]{
		encode: func(v int64) uint64 { return uint64(v) },
		decode: func(b uint64) int64 { return int64(b) },
	}
	float64Codec = &codec[float64]{
		encode: math.Float64bits,
		decode: math.Float64frombits,
	}
	boolCodec = &codec[bool]{
		encode: func(v bool) uint64 {
			if v {
				return 1
			}
			return 0
		},
		decode: func(b uint64) bool { return b != 0 },
	}
	intCodec = &codec[int]{
		encode: func(v int) uint64 { return uint64(int64(v)) },
		decode: func(b uint64) int { return int(int64(b)) },
	}
)
