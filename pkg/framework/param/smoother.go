package param

import (
	"fmt"
	"math"
	"strings"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing ramps in a fixed number of samples
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses a one-pole filter
	ExponentialSmoothing
	// LogarithmicSmoothing ramps linearly in log space (better for frequency parameters)
	LogarithmicSmoothing
)

func (t SmoothingType) String() string {
	switch t {
	case LinearSmoothing:
		return "linear"
	case ExponentialSmoothing:
		return "exponential"
	case LogarithmicSmoothing:
		return "logarithmic"
	default:
		return fmt.Sprintf("SmoothingType(%d)", int(t))
	}
}

// ParseSmoothingType parses the names produced by SmoothingType.String.
func ParseSmoothingType(s string) (SmoothingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return LinearSmoothing, nil
	case "exponential", "exp":
		return ExponentialSmoothing, nil
	case "logarithmic", "log":
		return LogarithmicSmoothing, nil
	}
	return 0, fmt.Errorf("%w: smoothing type %q", ErrParse, s)
}

// Composition decides how the modulation slot combines with the base value.
type Composition int

const (
	// ComposeBoundedAdditive adds modulation to the base and clamps to [0, 1].
	ComposeBoundedAdditive Composition = iota
	// ComposeAdditive adds modulation to the base without clamping.
	ComposeAdditive
	// ComposeReplace uses the modulation instead of the base whenever it is non-zero.
	ComposeReplace
)

func (c Composition) String() string {
	switch c {
	case ComposeBoundedAdditive:
		return "bounded"
	case ComposeAdditive:
		return "additive"
	case ComposeReplace:
		return "replace"
	default:
		return fmt.Sprintf("Composition(%d)", int(c))
	}
}

// ParseComposition parses the names produced by Composition.String.
func ParseComposition(s string) (Composition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bounded", "bounded-additive", "":
		return ComposeBoundedAdditive, nil
	case "additive":
		return ComposeAdditive, nil
	case "replace":
		return ComposeReplace, nil
	}
	return 0, fmt.Errorf("%w: composition %q", ErrParse, s)
}

// Compose combines a normalized base value with a modulation amount.
func Compose(base, modulation float64, c Composition) float64 {
	switch c {
	case ComposeAdditive:
		return base + modulation
	case ComposeReplace:
		if modulation != 0 {
			return ClampNormalized(modulation)
		}
		return base
	default:
		return ClampNormalized(base + modulation)
	}
}

// Smoother provides parameter smoothing to prevent zipper noise. It is not
// safe for concurrent use; it lives on the audio thread.
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	rate          float64
	threshold     float64
	isSmoothing   bool

	step float64

	logCurrent float64
	logTarget  float64
	logStep    float64
}

// NewSmoother creates a new parameter smoother.
// rate: smoothing rate (0.9-0.999 for exponential, samples for linear and logarithmic)
func NewSmoother(smoothingType SmoothingType, rate float64) *Smoother {
	return &Smoother{
		smoothingType: smoothingType,
		rate:          rate,
		threshold:     0.0001,
	}
}

// SetTarget sets the target value for smoothing.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < s.threshold {
		return
	}

	s.target = target
	s.isSmoothing = true

	switch s.smoothingType {
	case LinearSmoothing:
		if s.rate > 0 {
			s.step = (target - s.current) / s.rate
		}

	case LogarithmicSmoothing:
		const minVal = 0.001
		s.logCurrent = math.Log(math.Max(s.current, minVal))
		s.logTarget = math.Log(math.Max(target, minVal))
		if s.rate > 0 {
			s.logStep = (s.logTarget - s.logCurrent) / s.rate
		}
	}
}

// Next returns the next smoothed value.
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		s.current += (s.target - s.current) * (1.0 - s.rate)
		if math.Abs(s.current-s.target) < s.threshold {
			s.finish()
		}

	case LinearSmoothing:
		s.current += s.step
		if s.step == 0 || (s.step > 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) {
			s.finish()
		}

	case LogarithmicSmoothing:
		s.logCurrent += s.logStep
		if s.logStep == 0 || (s.logStep > 0 && s.logCurrent >= s.logTarget) || (s.logStep < 0 && s.logCurrent <= s.logTarget) {
			s.finish()
		} else {
			s.current = math.Exp(s.logCurrent)
		}
	}

	return s.current
}

func (s *Smoother) finish() {
	s.current = s.target
	s.isSmoothing = false
}

// Process processes a buffer with the smoothed parameter.
// The callback receives the current smoothed value for each sample.
func (s *Smoother) Process(buffer []float32, callback func(value float64, sample float32) float32) {
	for i := range buffer {
		buffer[i] = callback(s.Next(), buffer[i])
	}
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset jumps to value and stops smoothing.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.isSmoothing = false
}

// SetRate updates the smoothing rate.
func (s *Smoother) SetRate(rate float64) {
	s.rate = rate
}

// SetThreshold sets the threshold for considering smoothing complete.
func (s *Smoother) SetThreshold(threshold float64) {
	s.threshold = threshold
}

// SmoothedParameter follows a FloatParameter on the audio thread. Each call
// to Next reads the value and modulation slots, composes them, maps the
// result to the plain domain and smooths it.
type SmoothedParameter struct {
	param       *FloatParameter
	smoother    *Smoother
	composition Composition
	enabled     bool
}

// NewSmoothedParameter creates a smoothed view of p, starting at its current
// effective value.
func NewSmoothedParameter(p *FloatParameter, smoothingType SmoothingType, rate float64) *SmoothedParameter {
	sp := &SmoothedParameter{
		param:       p,
		smoother:    NewSmoother(smoothingType, rate),
		composition: ComposeBoundedAdditive,
		enabled:     true,
	}
	sp.smoother.Reset(sp.Target())
	return sp
}

// Parameter returns the followed parameter.
func (sp *SmoothedParameter) Parameter() *FloatParameter {
	return sp.param
}

// SetComposition changes how modulation is applied.
func (sp *SmoothedParameter) SetComposition(c Composition) {
	sp.composition = c
}

// Target returns the unsmoothed effective plain value.
func (sp *SmoothedParameter) Target() float64 {
	n := Compose(sp.param.NormalizedValue(), sp.param.NormalizedModulation(), sp.composition)
	return sp.param.NormalizedToPlain(n)
}

// Next advances the smoother by one sample.
func (sp *SmoothedParameter) Next() float64 {
	target := sp.Target()
	if !sp.enabled {
		return target
	}
	sp.smoother.SetTarget(target)
	return sp.smoother.Next()
}

// SetSmoothing enables or disables smoothing.
func (sp *SmoothedParameter) SetSmoothing(enabled bool) {
	sp.enabled = enabled
	if !enabled {
		sp.smoother.Reset(sp.Target())
	}
}

// SetSmoothingRate updates the smoothing rate.
func (sp *SmoothedParameter) SetSmoothingRate(rate float64) {
	sp.smoother.SetRate(rate)
}

// UpdateSampleRate derives the smoothing rate from a ramp time.
func (sp *SmoothedParameter) UpdateSampleRate(sampleRate float64, targetTimeMs float64) {
	samples := sampleRate * targetTimeMs / 1000.0
	switch sp.smoother.smoothingType {
	case LinearSmoothing, LogarithmicSmoothing:
		sp.SetSmoothingRate(samples)
	case ExponentialSmoothing:
		// -60dB in targetTimeMs
		sp.SetSmoothingRate(math.Exp(-6.908 / samples))
	}
}

// SmootherBank advances a fixed set of smoothed parameters together.
type SmootherBank struct {
	params []*SmoothedParameter
	values []float64
}

// NewSmootherBank creates smoothers for params in order.
func NewSmootherBank(smoothingType SmoothingType, rate float64, params ...*FloatParameter) *SmootherBank {
	b := &SmootherBank{
		params: make([]*SmoothedParameter, len(params)),
		values: make([]float64, len(params)),
	}
	for i, p := range params {
		b.params[i] = NewSmoothedParameter(p, smoothingType, rate)
		b.values[i] = b.params[i].Target()
	}
	return b
}

// Tick advances every smoother by one sample and returns the values in
// parameter order. The returned slice is reused by the next call.
func (b *SmootherBank) Tick() []float64 {
	for i, sp := range b.params {
		b.values[i] = sp.Next()
	}
	return b.values
}

// Get returns the smoothed parameter at index i.
func (b *SmootherBank) Get(i int) *SmoothedParameter {
	return b.params[i]
}

// UpdateSampleRate applies a ramp time to every smoother.
func (b *SmootherBank) UpdateSampleRate(sampleRate, targetTimeMs float64) {
	for _, sp := range b.params {
		sp.UpdateSampleRate(sampleRate, targetTimeMs)
	}
}

// SetComposition applies c to every smoother.
func (b *SmootherBank) SetComposition(c Composition) {
	for _, sp := range b.params {
		sp.SetComposition(c)
	}
}
