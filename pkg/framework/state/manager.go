// Package state persists parameter values. Every backend stores one plain
// value per parameter ID: unknown IDs are ignored on load, parameters
// missing from the stored state keep their current value, and out-of-range
// values are clamped by the parameters themselves.
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/paramcore/pkg/framework/debug"
	"github.com/justyntemme/paramcore/pkg/framework/param"
)

const magic = "PRMCORE"

// Format versions. Version 1 stored normalized values; version 2 stores
// plain values so that range changes do not move saved settings.
const (
	VersionNormalized uint32 = 1
	VersionPlain      uint32 = 2
	CurrentVersion           = VersionPlain
)

// maxEntries bounds the entry count read from a stream.
const maxEntries = 1 << 20

// Manager handles plugin state saving and loading
type Manager struct {
	version    uint32
	registry   *param.Registry
	custom     CustomStateFunc
	customLoad CustomLoadFunc
	log        *debug.Logger
}

// CustomStateFunc allows plugins to save additional state beyond parameters
type CustomStateFunc func(w io.Writer) error

// CustomLoadFunc reads back what CustomStateFunc wrote. It receives the
// remainder of the stream.
type CustomLoadFunc func(r io.Reader) error

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		version:  CurrentVersion,
		registry: registry,
		log:      debug.Default().With("state"),
	}
}

// SetCustomStateFunc sets a function for saving custom state
func (m *Manager) SetCustomStateFunc(fn CustomStateFunc) {
	m.custom = fn
}

// SetCustomLoadFunc sets a function for loading custom state
func (m *Manager) SetCustomLoadFunc(fn CustomLoadFunc) {
	m.customLoad = fn
}

// Save writes the plugin state to a writer
func (m *Manager) Save(w io.Writer) error {
	params := m.registry.All()

	var buf bytes.Buffer
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, m.version)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(params)))

	for _, p := range params {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(p.Info().ID))
		_ = binary.Write(&buf, binary.LittleEndian, p.SerializeValue())
	}

	hasCustom := uint32(0)
	if m.custom != nil {
		hasCustom = 1
	}
	_ = binary.Write(&buf, binary.LittleEndian, hasCustom)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if m.custom != nil {
		if err := m.custom(w); err != nil {
			return fmt.Errorf("write custom state: %w", err)
		}
	}

	m.log.Debug("state saved", debug.Int("parameters", len(params)), debug.Uint32("version", m.version))
	return nil
}

type entry struct {
	id    param.ID
	value float64
}

// Load reads the plugin state from a reader. The parameter block is read
// completely before any parameter is touched, so a truncated or corrupt
// stream leaves the registry unchanged.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidFormat, err)
	}
	if string(header) != magic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: version: %w", ErrInvalidFormat, err)
	}
	if version == 0 || version > m.version {
		return fmt.Errorf("%w: state version %d, supported up to %d", ErrUnsupportedVersion, version, m.version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: count: %w", ErrInvalidFormat, err)
	}
	if count > maxEntries {
		return fmt.Errorf("%w: %d entries", ErrInvalidFormat, count)
	}

	entries := make([]entry, 0, count)
	for i := uint32(0); i < count; i++ {
		var id uint32
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidFormat, i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidFormat, i, err)
		}
		entries = append(entries, entry{id: param.ID(id), value: value})
	}

	var hasCustom uint32
	if err := binary.Read(r, binary.LittleEndian, &hasCustom); err != nil {
		return fmt.Errorf("%w: custom flag: %w", ErrInvalidFormat, err)
	}

	applied, err := m.apply(version, entries)
	m.log.Debug("state loaded",
		debug.Uint32("version", version),
		debug.Int("entries", len(entries)),
		debug.Int("applied", applied),
	)
	if err != nil {
		return err
	}

	if hasCustom != 0 {
		if m.customLoad == nil {
			m.log.Warn("state carries custom data but no loader is set")
			return nil
		}
		if err := m.customLoad(r); err != nil {
			return fmt.Errorf("read custom state: %w", err)
		}
	}
	return nil
}

func (m *Manager) apply(version uint32, entries []entry) (int, error) {
	if version == VersionPlain {
		values := make(map[param.ID]float64, len(entries))
		for _, e := range entries {
			values[e.id] = e.value
		}
		return m.registry.Restore(values)
	}

	// Normalized values from version 1.
	applied := 0
	var errs []error
	for _, e := range entries {
		p := m.registry.Get(e.id)
		if p == nil {
			continue
		}
		if math.IsNaN(e.value) {
			errs = append(errs, fmt.Errorf("%w: parameter %d", param.ErrNotANumber, e.id))
			continue
		}
		if err := p.SetNormalizedValue(e.value); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// MarshalBinary returns the current state.
func (m *Manager) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores state from data.
func (m *Manager) UnmarshalBinary(data []byte) error {
	return m.Load(bytes.NewReader(data))
}
