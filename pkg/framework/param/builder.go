package param

import "fmt"

// Builder provides a fluent API for creating parameters. Errors from
// individual steps are held until Build.
type Builder[T any, P Parameter] struct {
	info      Info
	rng       Range[T]
	formatter Formatter[T]
	codec     *codec[T]
	listener  Listener
	def       T
	hasDef    bool
	err       error
	build     func(cellConfig[T]) P
}

func newBuilder[T any, P Parameter](id ID, name string, rng Range[T], formatter Formatter[T], c *codec[T], build func(cellConfig[T]) P) *Builder[T, P] {
	b := &Builder[T, P]{
		rng:       rng,
		formatter: formatter,
		codec:     c,
		build:     build,
	}
	if rng == nil {
		b.info = newInfo(id, name, 0)
		b.fail(fmt.Errorf("parameter %d %q: %w: nil range", id, name, ErrInvalidRange))
		return b
	}
	b.info = newInfo(id, name, rng.Steps())
	return b
}

func (b *Builder[T, P]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ShortName sets the short name
func (b *Builder[T, P]) ShortName(name string) *Builder[T, P] {
	b.info.ShortName = name
	return b
}

// Path sets the group path, e.g. "Filter/Envelope".
func (b *Builder[T, P]) Path(path string) *Builder[T, P] {
	b.info.Path = path
	return b
}

// Unit sets the unit string reported to the host
func (b *Builder[T, P]) Unit(unit string) *Builder[T, P] {
	b.info.Unit = unit
	return b
}

// Flags sets parameter flags
func (b *Builder[T, P]) Flags(flags uint32) *Builder[T, P] {
	b.info.Flags = flags
	return b
}

// Default sets the default value in the plain domain. A value outside the
// range makes Build fail with ErrOutOfRange.
func (b *Builder[T, P]) Default(value T) *Builder[T, P] {
	if b.rng == nil {
		return b
	}
	n, ok := b.rng.PlainToNormalized(value)
	if !ok {
		b.fail(fmt.Errorf("parameter %d %q: default %v: %w", b.info.ID, b.info.Name, value, ErrOutOfRange))
		return b
	}
	b.info.DefaultNormalized = n
	b.def = value
	b.hasDef = true
	return b
}

// DefaultNormalized sets the default value in the normalized domain.
func (b *Builder[T, P]) DefaultNormalized(n float64) *Builder[T, P] {
	b.info.DefaultNormalized = ClampNormalized(n)
	b.hasDef = false
	return b
}

// Formatter replaces the default formatter
func (b *Builder[T, P]) Formatter(f Formatter[T]) *Builder[T, P] {
	if f != nil {
		b.formatter = f
	}
	return b
}

// OnChange installs the change listener. See Listener for its constraints.
func (b *Builder[T, P]) OnChange(l Listener) *Builder[T, P] {
	b.listener = l
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder[T, P]) ReadOnly() *Builder[T, P] {
	b.info.Flags |= IsReadOnly
	b.info.Flags &^= CanAutomate
	return b
}

// Hidden marks the parameter as hidden
func (b *Builder[T, P]) Hidden() *Builder[T, P] {
	b.info.Flags |= IsHidden
	return b
}

// Bypass marks this as the bypass parameter
func (b *Builder[T, P]) Bypass() *Builder[T, P] {
	b.info.Flags |= IsBypass
	return b
}

// Build returns the configured parameter holding its default value.
func (b *Builder[T, P]) Build() (P, error) {
	if b.err != nil {
		var zero P
		return zero, b.err
	}

	info := b.info
	def := b.def
	if !b.hasDef {
		def = b.rng.NormalizedToPlain(info.DefaultNormalized)
		if n, ok := b.rng.PlainToNormalized(def); ok {
			info.DefaultNormalized = n
		}
	}

	return b.build(cellConfig[T]{
		info:         &info,
		defaultValue: def,
		rng:          b.rng,
		formatter:    b.formatter,
		codec:        b.codec,
		listener:     b.listener,
	}), nil
}

// MustBuild is like Build but panics on error. Intended for parameter sets
// declared at init time.
func (b *Builder[T, P]) MustBuild() P {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
