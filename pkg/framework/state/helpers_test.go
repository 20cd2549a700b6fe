package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justyntemme/paramcore/pkg/framework/param"
)

const (
	idGain param.ID = iota + 1
	idCutoff
	idVoices
	idMode
	idBypass
)

func newRegistry(t *testing.T) *param.Registry {
	t.Helper()
	reg, err := param.NewRegistryBuilder(param.NewRegistry()).
		Add(param.GainParameter(idGain, "Gain").Build()).
		Add(param.FrequencyParameter(idCutoff, "Cutoff", 20, 20000, 1000).Build()).
		Add(param.NewInt(idVoices, "Voices", param.MustIntRange(0, 4)).Build()).
		Add(param.FilterTypeParameter(idMode, "Mode").Build()).
		Add(param.BypassParameter(idBypass, "Bypass").Build()).
		Build()
	require.NoError(t, err)
	return reg
}

// edit moves every parameter away from its default.
func edit(t *testing.T, reg *param.Registry) {
	t.Helper()
	require.NoError(t, reg.Get(idGain).DeserializeValue(-6))
	require.NoError(t, reg.Get(idCutoff).DeserializeValue(2500))
	require.NoError(t, reg.Get(idVoices).DeserializeValue(3))
	require.NoError(t, reg.Get(idMode).DeserializeValue(float64(param.FilterTypeNotch)))
	require.NoError(t, reg.Get(idBypass).DeserializeValue(1))
}
