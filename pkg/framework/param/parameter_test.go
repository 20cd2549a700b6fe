package param

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVoices(t *testing.T) *IntParameter {
	t.Helper()
	p, err := NewInt(1, "Voices", MustIntRange(0, 4)).Build()
	require.NoError(t, err)
	return p
}

func TestIntParameter(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p := newVoices(t)
		assert.Equal(t, KindInt, p.Kind())
		assert.Equal(t, int64(0), p.Value())
		assert.Equal(t, 0.0, p.NormalizedValue())
		assert.Equal(t, 0.0, p.NormalizedModulation())
		assert.Equal(t, 4, p.Info().Steps)
		assert.True(t, p.Info().IsStepped())
		assert.True(t, p.Info().Has(CanAutomate))
		assert.Equal(t, "Voices", p.Info().ShortName)
	})

	t.Run("SteppedMapping", func(t *testing.T) {
		p := newVoices(t)
		tests := []struct {
			normalized float64
			plain      int64
		}{
			{0, 0}, {0.25, 1}, {0.5, 2}, {0.75, 3}, {1, 4},
		}
		for _, test := range tests {
			require.NoError(t, p.SetNormalizedValue(test.normalized))
			assert.Equal(t, test.plain, p.Value())
			assert.Equal(t, test.normalized, p.NormalizedValue())
		}
	})

	t.Run("Text", func(t *testing.T) {
		p := newVoices(t)
		assert.Equal(t, "2", p.NormalizedToString(0.5))

		n, ok := p.StringToNormalized("2")
		require.True(t, ok)
		assert.Equal(t, 0.5, n)

		_, ok = p.StringToNormalized("9")
		assert.False(t, ok)
		_, ok = p.StringToNormalized("two")
		assert.False(t, ok)
	})

	t.Run("Default", func(t *testing.T) {
		p, err := NewInt(1, "Voices", MustIntRange(0, 4)).Default(3).Build()
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.Value())
		assert.Equal(t, 0.75, p.Info().DefaultNormalized)

		p.SetValue(0)
		p.ResetToDefault()
		assert.Equal(t, int64(3), p.Value())
	})

	t.Run("DefaultNormalized", func(t *testing.T) {
		p, err := NewInt(1, "Voices", MustIntRange(0, 4)).DefaultNormalized(0.6).Build()
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.Value())
		// Re-normalized to the position of the chosen step.
		assert.Equal(t, 0.75, p.Info().DefaultNormalized)
	})

	t.Run("DefaultOutOfRange", func(t *testing.T) {
		_, err := NewInt(1, "Voices", MustIntRange(0, 4)).Default(9).Build()
		assert.ErrorIs(t, err, ErrOutOfRange)

		assert.Panics(t, func() {
			NewInt(1, "Voices", MustIntRange(0, 4)).Default(-1).MustBuild()
		})
	})

	t.Run("NilRange", func(t *testing.T) {
		_, err := NewInt(1, "Broken", nil).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestFloatParameter(t *testing.T) {
	p, err := NewFloat(2, "Cutoff", MustLogRange(20, 20000)).
		Default(1000).
		Unit("Hz").
		Path("Filter").
		Formatter(FrequencyFormatter{}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, KindFloat, p.Kind())
	assert.Equal(t, 1000.0, p.Value())
	assert.Equal(t, "1.00 kHz", p.String())
	assert.Equal(t, 0, p.Info().Steps)
	assert.False(t, p.Info().IsStepped())
	assert.Equal(t, []string{"Filter"}, p.Info().Groups())

	n, ok := p.StringToNormalized("1.00 kHz")
	require.True(t, ok)
	assert.InDelta(t, 1000, p.NormalizedToPlain(n), 1e-6)

	_, ok = p.StringToNormalized("50 kHz")
	assert.False(t, ok)
	_, ok = p.StringToNormalized("garbage")
	assert.False(t, ok)

	require.NoError(t, p.SetNormalizedValue(1))
	assert.Equal(t, 20000.0, p.Value())
	require.NoError(t, p.SetNormalizedValue(0))
	assert.Equal(t, 20.0, p.Value())
}

func TestBoolParameter(t *testing.T) {
	p, err := NewBool(3, "Enabled").Build()
	require.NoError(t, err)

	assert.Equal(t, KindBool, p.Kind())
	assert.False(t, p.Value())
	assert.Equal(t, "Off", p.String())
	assert.Equal(t, 1, p.Info().Steps)

	require.NoError(t, p.SetNormalizedValue(0.7))
	assert.True(t, p.Value())
	assert.Equal(t, 1.0, p.NormalizedValue())
	assert.Equal(t, 1.0, p.SerializeValue())

	require.NoError(t, p.DeserializeValue(0.2))
	assert.False(t, p.Value())

	n, ok := p.StringToNormalized("on")
	require.True(t, ok)
	assert.Equal(t, 1.0, n)
}

func TestEnumParameter(t *testing.T) {
	p, err := FilterTypeParameter(4, "Filter Type").Build()
	require.NoError(t, err)

	assert.Equal(t, KindEnum, p.Kind())
	assert.True(t, p.Info().Has(IsList))
	assert.Equal(t, len(FilterTypeOptions)-1, p.Info().Steps)
	assert.Equal(t, "Lowpass", p.String())

	require.NoError(t, p.SetNormalizedValue(1))
	assert.Equal(t, FilterTypeHighShelf, p.Value())
	assert.Equal(t, "High Shelf", p.String())

	n, ok := p.StringToNormalized("bell")
	require.True(t, ok)
	assert.Equal(t, float64(FilterTypePeaking)/float64(len(FilterTypeOptions)-1), n)

	require.NoError(t, p.DeserializeValue(2))
	assert.Equal(t, FilterTypeBandpass, p.Value())
	require.NoError(t, p.DeserializeValue(42))
	assert.Equal(t, FilterTypeHighShelf, p.Value())

	t.Run("Empty", func(t *testing.T) {
		_, err := NewEnum(5, "Nothing", nil).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestClampInvariant(t *testing.T) {
	inputs := []float64{-1, -0.1, 0, 0.3, 0.5, 1, 1.7, math.NaN(), math.Inf(1), math.Inf(-1)}

	intParam := newVoices(t)
	floatParam, err := NewFloat(2, "Level", MustLinearRange(-10, 10)).Build()
	require.NoError(t, err)

	for _, p := range []Parameter{intParam, floatParam} {
		for _, in := range inputs {
			require.NoError(t, p.SetNormalizedValue(in))
			n := p.NormalizedValue()
			assert.GreaterOrEqual(t, n, 0.0, "%s input %v", p.Info().Name, in)
			assert.LessOrEqual(t, n, 1.0, "%s input %v", p.Info().Name, in)
		}
	}

	for _, in := range inputs {
		require.NoError(t, intParam.SetNormalizedValue(in))
		assert.GreaterOrEqual(t, intParam.Value(), int64(0))
		assert.LessOrEqual(t, intParam.Value(), int64(4))
	}

	require.NoError(t, intParam.SetNormalizedValue(math.NaN()))
	assert.Equal(t, int64(0), intParam.Value())
	require.NoError(t, intParam.SetNormalizedValue(math.Inf(1)))
	assert.Equal(t, int64(4), intParam.Value())
}

func TestContinuousRoundTrip(t *testing.T) {
	p, err := NewFloat(1, "Amount", MustLinearRange(0, 100)).Build()
	require.NoError(t, err)

	for x := 0.0; x <= 100; x += 2.5 {
		p.SetValue(x)
		require.NoError(t, p.SetNormalizedValue(p.NormalizedValue()))
		assert.InDelta(t, x, p.Value(), 1e-9)
	}
}

func TestModulationIndependence(t *testing.T) {
	p, err := NewFloat(1, "Amount", MustLinearRange(0, 1)).Build()
	require.NoError(t, err)

	require.NoError(t, p.SetNormalizedValue(0.5))
	p.SetNormalizedModulation(-0.3)
	assert.Equal(t, 0.5, p.NormalizedValue())
	assert.Equal(t, -0.3, p.NormalizedModulation())

	require.NoError(t, p.SetNormalizedValue(1))
	assert.Equal(t, -0.3, p.NormalizedModulation())

	// Modulation is stored as given.
	p.SetNormalizedModulation(2.5)
	assert.Equal(t, 2.5, p.NormalizedModulation())
	assert.Equal(t, 1.0, p.NormalizedValue())
}

func TestSnapshot(t *testing.T) {
	var calls atomic.Int32
	p, err := NewFloat(7, "Drive", MustLinearRange(0, 1)).
		OnChange(ListenerFunc(func(ID) { calls.Add(1) })).
		Build()
	require.NoError(t, err)

	require.NoError(t, p.SetNormalizedValue(0.5))
	p.SetNormalizedModulation(0.2)
	calls.Store(0)

	s := p.Snapshot()
	assert.Equal(t, 0.5, s.NormalizedValue())
	assert.Equal(t, 0.2, s.NormalizedModulation())
	assert.Same(t, p.Info(), s.Info())
	assert.Equal(t, KindFloat, s.Kind())

	require.NoError(t, p.SetNormalizedValue(1))
	assert.Equal(t, 0.5, s.NormalizedValue())

	require.NoError(t, s.SetNormalizedValue(0))
	s.SetNormalizedModulation(0.9)
	assert.Equal(t, 1.0, p.NormalizedValue())
	assert.Equal(t, 0.2, p.NormalizedModulation())

	// Only the write on the original reached the listener.
	assert.Equal(t, int32(1), calls.Load())

	detached := p.Detach()
	assert.Equal(t, 1.0, detached.Value())
	assert.Same(t, p.Range(), detached.Range())
}

func TestListener(t *testing.T) {
	var calls atomic.Int32
	var lastID atomic.Uint32
	listener := ListenerFunc(func(id ID) {
		calls.Add(1)
		lastID.Store(uint32(id))
	})

	p := newVoices(t)
	p.SetListener(listener)

	require.NoError(t, p.SetNormalizedValue(0.5))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint32(1), lastID.Load())

	p.SetNormalizedModulation(0.1)
	assert.Equal(t, int32(2), calls.Load())

	require.NoError(t, p.DeserializeValue(3))
	assert.Equal(t, int32(3), calls.Load())

	p.ResetToDefault()
	assert.Equal(t, int32(4), calls.Load())

	p.SetListener(nil)
	require.NoError(t, p.SetNormalizedValue(1))
	assert.Equal(t, int32(4), calls.Load())

	// A failed deserialize does not notify.
	p.SetListener(listener)
	assert.Error(t, p.DeserializeValue(math.NaN()))
	assert.Equal(t, int32(4), calls.Load())
}

func TestSerialization(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		p, err := NewInt(1, "Voices", MustIntRange(0, 4)).Default(2).Build()
		require.NoError(t, err)

		v := p.SerializeValue()
		assert.Equal(t, 2.0, v)
		require.NoError(t, p.DeserializeValue(v))
		assert.Equal(t, int64(2), p.Value())
	})

	t.Run("Clamped", func(t *testing.T) {
		p := newVoices(t)
		tests := []struct {
			in       float64
			expected int64
		}{
			{100, 4},
			{-1e300, 0},
			{math.Inf(1), 4},
			{math.Inf(-1), 0},
			{2.4, 2},
			{2.6, 3},
		}
		for _, test := range tests {
			require.NoError(t, p.DeserializeValue(test.in))
			assert.Equal(t, test.expected, p.Value(), "input %v", test.in)
		}
	})

	t.Run("NaN", func(t *testing.T) {
		p := newVoices(t)
		p.SetValue(3)

		err := p.DeserializeValue(math.NaN())
		assert.ErrorIs(t, err, ErrNotANumber)
		assert.Equal(t, int64(3), p.Value())

		f, err := NewFloat(2, "Level", MustLinearRange(0, 1)).Default(0.25).Build()
		require.NoError(t, err)
		assert.ErrorIs(t, f.DeserializeValue(math.NaN()), ErrNotANumber)
		assert.Equal(t, 0.25, f.Value())
	})

	t.Run("LargeIntegers", func(t *testing.T) {
		const limit = int64(1) << 53
		p, err := NewInt(1, "Samples", MustIntRange(-limit, limit)).Build()
		require.NoError(t, err)

		p.SetValue(limit - 1)
		require.NoError(t, p.DeserializeValue(p.SerializeValue()))
		assert.Equal(t, limit-1, p.Value())
	})

	t.Run("Float", func(t *testing.T) {
		p, err := NewFloat(2, "Level", MustLinearRange(-10, 10)).Build()
		require.NoError(t, err)

		require.NoError(t, p.DeserializeValue(3.25))
		assert.Equal(t, 3.25, p.SerializeValue())
		require.NoError(t, p.DeserializeValue(50))
		assert.Equal(t, 10.0, p.Value())
	})
}

func TestKindDispatch(t *testing.T) {
	params := []Parameter{
		newVoices(t),
		GainParameter(2, "Gain").MustBuild(),
		BypassParameter(3, "Bypass").MustBuild(),
		FilterTypeParameter(4, "Type").MustBuild(),
	}

	for _, p := range params {
		switch p.Kind() {
		case KindInt:
			_, ok := p.(*IntParameter)
			assert.True(t, ok)
		case KindFloat:
			_, ok := p.(*FloatParameter)
			assert.True(t, ok)
		case KindBool:
			_, ok := p.(*BoolParameter)
			assert.True(t, ok)
		case KindEnum:
			_, ok := p.(*EnumParameter)
			assert.True(t, ok)
		default:
			t.Fatalf("unexpected kind %v", p.Kind())
		}
		assert.NotEqual(t, "unknown", p.Kind().String())
	}
}

func TestConcurrentWriters(t *testing.T) {
	p := newVoices(t)
	var notifications atomic.Int64
	p.SetListener(ListenerFunc(func(ID) { notifications.Add(1) }))

	const iterations = 10000
	var wg sync.WaitGroup
	var bad atomic.Int32

	for _, n := range []float64{0.25, 0.75} {
		wg.Add(1)
		go func(n float64) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = p.SetNormalizedValue(n)
			}
		}(n)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			p.SetNormalizedModulation(float64(i) / iterations)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			switch p.Value() {
			case 0, 1, 3:
			default:
				bad.Add(1)
			}
		}
	}()

	wg.Wait()

	assert.Zero(t, bad.Load())
	assert.Contains(t, []int64{1, 3}, p.Value())
	assert.Equal(t, int64(3*iterations), notifications.Load())
}

func TestAudioThreadMethodsDoNotAllocate(t *testing.T) {
	var calls atomic.Int64
	p, err := NewFloat(1, "Cutoff", MustLogRange(20, 20000)).
		OnChange(ListenerFunc(func(ID) { calls.Add(1) })).
		Build()
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		_ = p.SetNormalizedValue(0.3)
		_ = p.NormalizedValue()
		p.SetNormalizedModulation(0.1)
		_ = p.NormalizedModulation()
	})
	assert.Zero(t, allocs)
}

func BenchmarkSetNormalizedValue(b *testing.B) {
	p := NewFloat(1, "Cutoff", MustLogRange(20, 20000)).MustBuild()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.SetNormalizedValue(float64(i%100) / 100)
	}
}

func BenchmarkNormalizedValue(b *testing.B) {
	p := NewFloat(1, "Cutoff", MustLogRange(20, 20000)).MustBuild()
	b.ReportAllocs()
	b.ResetTimer()

	var sum float64
	for i := 0; i < b.N; i++ {
		sum += p.NormalizedValue()
	}
	_ = sum
}
