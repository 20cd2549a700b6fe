package param

import "fmt"

// FloatBuilder builds a *FloatParameter.
type FloatBuilder = Builder[float64, *FloatParameter]

// Common parameter helpers

// GainParameter creates a standard gain parameter (-inf to +12dB)
func GainParameter(id ID, name string) *FloatBuilder {
	return NewFloat(id, name, MustLinearRange(-80, 12)).
		Default(0).
		Unit("dB").
		Formatter(DecibelFormatter{Floor: -80})
}

// MixParameter creates a standard mix/blend parameter (0-100%)
func MixParameter(id ID, name string) *FloatBuilder {
	return percentParameter(id, name, 100)
}

// DepthParameter creates a depth/amount parameter (0-100%)
func DepthParameter(id ID, name string) *FloatBuilder {
	return percentParameter(id, name, 50)
}

// FeedbackParameter creates a standard feedback parameter (0-100%)
func FeedbackParameter(id ID, name string) *FloatBuilder {
	return percentParameter(id, name, 0)
}

func percentParameter(id ID, name string, def float64) *FloatBuilder {
	return NewFloat(id, name, MustLinearRange(0, 100)).
		Default(def).
		Unit("%").
		Formatter(PercentFormatter{})
}

// FrequencyParameter creates a frequency parameter with logarithmic scaling
func FrequencyParameter(id ID, name string, min, max, defaultHz float64) *FloatBuilder {
	rng, err := NewLogRange(min, max)
	return floatBuilder(id, name, rng, err).
		Default(defaultHz).
		Unit("Hz").
		Formatter(FrequencyFormatter{})
}

// TimeParameter creates a time parameter in milliseconds. Ranges starting
// above zero are mapped logarithmically.
func TimeParameter(id ID, name string, minMs, maxMs, defaultMs float64) *FloatBuilder {
	var b *FloatBuilder
	if minMs > 0 {
		rng, err := NewLogRange(minMs, maxMs)
		b = floatBuilder(id, name, rng, err)
	} else {
		rng, err := NewLinearRange(minMs, maxMs)
		b = floatBuilder(id, name, rng, err)
	}
	return b.Default(defaultMs).
		Unit("ms").
		Formatter(TimeFormatter{})
}

// AttackParameter creates an attack time parameter
func AttackParameter(id ID, name string, maxMs float64) *FloatBuilder {
	return TimeParameter(id, name, 0.1, maxMs, 10.0)
}

// ReleaseParameter creates a release time parameter
func ReleaseParameter(id ID, name string, maxMs float64) *FloatBuilder {
	return TimeParameter(id, name, 1.0, maxMs, 100.0)
}

// RatioParameter creates a compression/expansion ratio parameter
func RatioParameter(id ID, name string, minRatio, maxRatio, defaultRatio float64) *FloatBuilder {
	rng, err := NewLinearRange(minRatio, maxRatio)
	return floatBuilder(id, name, rng, err).
		Default(defaultRatio).
		Formatter(RatioFormatter{})
}

// ThresholdParameter creates a threshold parameter (typically for dynamics)
func ThresholdParameter(id ID, name string, minDB, maxDB, defaultDB float64) *FloatBuilder {
	rng, err := NewLinearRange(minDB, maxDB)
	return floatBuilder(id, name, rng, err).
		Default(defaultDB).
		Unit("dB").
		Formatter(DecibelFormatter{})
}

// PanParameter creates a stereo pan parameter
func PanParameter(id ID, name string) *FloatBuilder {
	return NewFloat(id, name, MustLinearRange(-100, 100)).
		Default(0).
		Formatter(PanFormatter{})
}

// PhaseParameter creates a phase parameter (0-360 degrees)
func PhaseParameter(id ID, name string) *FloatBuilder {
	return NewFloat(id, name, MustLinearRange(0, 360)).
		Default(0).
		Unit("°").
		Formatter(NewFloatFormatter(1, "°"))
}

// OutputLevelMeter creates a read-only output level meter
func OutputLevelMeter(id ID, name string) *FloatBuilder {
	return NewFloat(id, name, MustLinearRange(-60, 0)).
		Default(-60).
		Unit("dB").
		Formatter(DecibelFormatter{Floor: -60}).
		ReadOnly()
}

// NoteParameter creates a MIDI note selector displayed as note names
func NoteParameter(id ID, name string, defaultNote int64) *Builder[int64, *IntParameter] {
	return NewInt(id, name, MustIntRange(0, 127)).
		Default(defaultNote).
		Formatter(NoteFormatter{})
}

// BypassParameter creates a bypass on/off switch
func BypassParameter(id ID, name string) *Builder[bool, *BoolParameter] {
	return NewBool(id, name).
		Formatter(NewBoolFormatter("Bypassed", "Active")).
		Bypass()
}

// Choice creates a multiple choice parameter defaulting to the first option
func Choice(id ID, name string, options []ChoiceOption) *Builder[int, *EnumParameter] {
	return NewEnum(id, name, options)
}

func floatBuilder(id ID, name string, rng Range[float64], err error) *FloatBuilder {
	if err != nil {
		b := NewFloat(id, name, nil)
		b.err = fmt.Errorf("parameter %d %q: %w", id, name, err)
		return b
	}
	return NewFloat(id, name, rng)
}
