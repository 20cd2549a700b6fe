package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistryBuilder(NewRegistry()).
		Add(GainParameter(1, "Gain").Build()).
		Add(FrequencyParameter(2, "Cutoff", 20, 20000, 1000).Path("Filter").Build()).
		Add(FilterTypeParameter(3, "Filter Type").Path("Filter/Mode").Build()).
		Add(BypassParameter(4, "Bypass").Build()).
		Add(NewInt(5, "Voices", MustIntRange(1, 16)).Default(8).Build()).
		Build()
	require.NoError(t, err)
	return registry
}

func TestRegistryLookup(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, 5, r.Count())
	assert.Equal(t, "Gain", r.Get(1).Info().Name)
	assert.Nil(t, r.Get(99))

	assert.Equal(t, ID(3), r.GetByIndex(2).Info().ID)
	assert.Nil(t, r.GetByIndex(-1))
	assert.Nil(t, r.GetByIndex(5))

	all := r.All()
	require.Len(t, all, 5)
	for i, p := range all {
		assert.Equal(t, ID(i+1), p.Info().ID)
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	r := NewRegistry()
	a := GainParameter(1, "Gain").MustBuild()
	b := MixParameter(1, "Mix").MustBuild()
	c := MixParameter(2, "Mix").MustBuild()

	err := r.Add(a, b, c)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 2, r.Count())
	assert.Same(t, a, r.Get(1))
	assert.Same(t, c, r.Get(2))
}

func TestRegistryBuilderErrors(t *testing.T) {
	_, err := NewRegistryBuilder(NewRegistry()).
		Add(GainParameter(1, "Gain").Build()).
		Add(FrequencyParameter(2, "Cutoff", 0, 20000, 1000).Build()).
		Add(MixParameter(1, "Mix").Build()).
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), "registration errors")
}

func TestRegistryByPath(t *testing.T) {
	r := newTestRegistry(t)

	filter := r.ByPath("Filter")
	require.Len(t, filter, 2)
	assert.Equal(t, ID(2), filter[0].Info().ID)
	assert.Equal(t, ID(3), filter[1].Info().ID)

	mode := r.ByPath("/Filter/Mode/")
	require.Len(t, mode, 1)
	assert.Equal(t, ID(3), mode[0].Info().ID)

	assert.Empty(t, r.ByPath("Fil"))
	assert.Len(t, r.ByPath(""), 5)
}

func TestRegistryValuesAndRestore(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetNormalized(1, 1))
	require.NoError(t, r.SetNormalized(3, 1))
	values := r.Values()

	assert.Equal(t, 12.0, values[1])
	assert.Equal(t, 1000.0, values[2])
	assert.Equal(t, float64(FilterTypeHighShelf), values[3])
	assert.Equal(t, 0.0, values[4])
	assert.Equal(t, 8.0, values[5])

	fresh := newTestRegistry(t)
	applied, err := fresh.Restore(values)
	require.NoError(t, err)
	assert.Equal(t, 5, applied)
	assert.Equal(t, values, fresh.Values())

	t.Run("UnknownAndMissing", func(t *testing.T) {
		target := newTestRegistry(t)
		applied, err := target.Restore(map[ID]float64{
			1:   -6,
			42:  3,
			999: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, applied)
		assert.Equal(t, -6.0, target.Get(1).SerializeValue())
		assert.Equal(t, 8.0, target.Get(5).SerializeValue())
	})

	t.Run("Clamped", func(t *testing.T) {
		target := newTestRegistry(t)
		_, err := target.Restore(map[ID]float64{1: 100, 5: -3})
		require.NoError(t, err)
		assert.Equal(t, 12.0, target.Get(1).SerializeValue())
		assert.Equal(t, 1.0, target.Get(5).SerializeValue())
	})

	t.Run("NaN", func(t *testing.T) {
		target := newTestRegistry(t)
		applied, err := target.Restore(map[ID]float64{1: math.NaN(), 5: 4})
		assert.ErrorIs(t, err, ErrNotANumber)
		assert.Equal(t, 1, applied)
		assert.Equal(t, 0.0, target.Get(1).SerializeValue())
		assert.Equal(t, 4.0, target.Get(5).SerializeValue())
	})
}

func TestRegistrySnapshot(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.SetNormalized(1, 1))

	snap := r.Snapshot()
	assert.Equal(t, r.Count(), snap.Count())
	assert.Equal(t, r.Values(), snap.Values())

	require.NoError(t, r.SetNormalized(1, 0))
	assert.Equal(t, 12.0, snap.Get(1).SerializeValue())

	require.NoError(t, snap.SetNormalized(5, 0))
	assert.Equal(t, 8.0, r.Get(5).SerializeValue())

	for i := 0; i < r.Count(); i++ {
		assert.Equal(t, r.GetByIndex(i).Info().ID, snap.GetByIndex(i).Info().ID)
	}
}

func TestRegistryResetAll(t *testing.T) {
	r := newTestRegistry(t)
	for _, p := range r.All() {
		require.NoError(t, p.SetNormalizedValue(1))
	}

	r.ResetAll()
	fresh := newTestRegistry(t)
	assert.Equal(t, fresh.Values(), r.Values())
}

func TestRegistrySetNormalizedUnknown(t *testing.T) {
	r := newTestRegistry(t)
	assert.ErrorIs(t, r.SetNormalized(77, 0.5), ErrUnknownParameter)
}
