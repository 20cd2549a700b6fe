package state

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/paramcore/pkg/framework/param"
)

// PresetFile is the human-editable YAML form of a parameter state. Only ID
// and Value are read back; Name and Text are written for the reader.
type PresetFile struct {
	Name       string        `yaml:"name"`
	Version    uint32        `yaml:"version"`
	Parameters []PresetValue `yaml:"parameters"`
}

// PresetValue is one stored parameter.
type PresetValue struct {
	ID    param.ID `yaml:"id"`
	Name  string   `yaml:"name,omitempty"`
	Value float64  `yaml:"value"`
	Text  string   `yaml:"text,omitempty"`
}

// NewPresetFile captures the current values of reg.
func NewPresetFile(name string, reg *param.Registry) *PresetFile {
	params := reg.All()
	pf := &PresetFile{
		Name:       name,
		Version:    CurrentVersion,
		Parameters: make([]PresetValue, len(params)),
	}
	for i, p := range params {
		pf.Parameters[i] = PresetValue{
			ID:    p.Info().ID,
			Name:  p.Info().Name,
			Value: p.SerializeValue(),
			Text:  p.String(),
		}
	}
	return pf
}

// Values returns the stored values keyed by ID. A repeated ID keeps its
// last value.
func (pf *PresetFile) Values() map[param.ID]float64 {
	values := make(map[param.ID]float64, len(pf.Parameters))
	for _, v := range pf.Parameters {
		values[v.ID] = v.Value
	}
	return values
}

// Apply restores the preset into reg and returns how many values were used.
func (pf *PresetFile) Apply(reg *param.Registry) (int, error) {
	if pf.Version > CurrentVersion {
		return 0, fmt.Errorf("%w: preset version %d", ErrUnsupportedVersion, pf.Version)
	}
	return reg.Restore(pf.Values())
}

// WritePreset encodes the current values of reg as YAML.
func WritePreset(w io.Writer, name string, reg *param.Registry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewPresetFile(name, reg)); err != nil {
		return fmt.Errorf("encode preset %q: %w", name, err)
	}
	return enc.Close()
}

// ReadPreset decodes a YAML preset and applies it to reg.
func ReadPreset(r io.Reader, reg *param.Registry) (*PresetFile, error) {
	var pf PresetFile
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if _, err := pf.Apply(reg); err != nil {
		return &pf, err
	}
	return &pf, nil
}
