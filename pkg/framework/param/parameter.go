// Package param provides the parameter model of an audio plugin: range
// mappings between plain and normalized values, text formatting, and
// lock-free parameter cells shared between the audio thread and control
// threads.
package param

// Kind identifies the concrete parameter type behind a Parameter.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Parameter is the uniform view of every parameter type. The set of
// implementations is closed: *IntParameter, *FloatParameter, *BoolParameter
// and *EnumParameter. Switch on Kind to recover the concrete type.
//
// NormalizedValue, SetNormalizedValue, NormalizedModulation and
// SetNormalizedModulation are lock-free and allocation-free and may be called
// from the audio thread. The text and persistence methods belong on control
// threads.
type Parameter interface {
	Info() *Info
	Kind() Kind

	// NormalizedValue returns the current value mapped to [0, 1].
	NormalizedValue() float64
	// SetNormalizedValue clamps n to [0, 1], converts it to a plain value,
	// stores it and notifies the listener.
	SetNormalizedValue(n float64) error

	// NormalizedModulation returns the modulation slot. It is independent of
	// the stored value; composing the two is up to the audio engine.
	NormalizedModulation() float64
	// SetNormalizedModulation stores amount without clamping and notifies
	// the listener.
	SetNormalizedModulation(amount float64)

	NormalizedToString(n float64) string
	StringToNormalized(text string) (float64, bool)

	// SerializeValue returns the plain value for durable storage.
	SerializeValue() float64
	// DeserializeValue restores a serialized value, clamping it to the range.
	DeserializeValue(v float64) error

	ResetToDefault()
	String() string

	// SetListener installs l as the change listener. nil removes it.
	SetListener(l Listener)

	// Snapshot returns a detached copy: it holds the current value and
	// modulation in its own storage, shares Info, range and formatter, and
	// has no listener.
	Snapshot() Parameter

	sealed()
}

// Listener is notified synchronously after every value or modulation write,
// on the thread that performed the write. Writes may come from the audio
// thread, so implementations must not block, lock, allocate or do I/O.
// Typical listeners set a dirty flag or bump an atomic counter.
type Listener interface {
	ParameterChanged(id ID)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(id ID)

func (f ListenerFunc) ParameterChanged(id ID) {
	f(id)
}
