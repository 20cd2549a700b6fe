package param

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry owns the parameters of one plugin instance. It is meant for
// control threads: lookups take a read lock. Audio code should hold on to
// the Parameter values it needs instead of going through the registry.
type Registry struct {
	params map[ID]Parameter
	order  []ID // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[ID]Parameter),
		order:  make([]ID, 0),
	}
}

// Add registers parameters in order. An ID that is already registered is
// rejected with ErrDuplicateID; the remaining parameters are still added.
func (r *Registry) Add(params ...Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, p := range params {
		id := p.Info().ID
		if existing, exists := r.params[id]; exists {
			errs = append(errs, fmt.Errorf("%w: %d already used by %q", ErrDuplicateID, id, existing.Info().Name))
			continue
		}
		r.params[id] = p
		r.order = append(r.order, id)
	}

	return errors.Join(errs...)
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id ID) Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int) Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}

	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// All returns all parameters in order
func (r *Registry) All() []Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// ByPath returns the parameters whose path equals prefix or lies below it.
func (r *Registry) ByPath(prefix string) []Parameter {
	prefix = strings.Trim(prefix, "/")

	var result []Parameter
	for _, p := range r.All() {
		path := strings.Trim(p.Info().Path, "/")
		if prefix == "" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			result = append(result, p)
		}
	}
	return result
}

// ResetAll sets every parameter back to its default value.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.ResetToDefault()
	}
}

// Snapshot returns a registry of detached copies. Writes to either registry
// are not seen by the other.
func (r *Registry) Snapshot() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Registry{
		params: make(map[ID]Parameter, len(r.params)),
		order:  append([]ID(nil), r.order...),
	}
	for id, p := range r.params {
		s.params[id] = p.Snapshot()
	}
	return s
}

// Values returns the serialized value of every parameter keyed by ID.
func (r *Registry) Values() map[ID]float64 {
	params := r.All()
	values := make(map[ID]float64, len(params))
	for _, p := range params {
		values[p.Info().ID] = p.SerializeValue()
	}
	return values
}

// Restore deserializes values into the matching parameters. Unknown IDs are
// skipped and parameters without an entry keep their current value. It
// returns how many values were applied.
func (r *Registry) Restore(values map[ID]float64) (int, error) {
	applied := 0
	var errs []error
	for id, v := range values {
		p := r.Get(id)
		if p == nil {
			continue
		}
		if err := p.DeserializeValue(v); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// SetNormalized routes a normalized write to the parameter with the given ID.
func (r *Registry) SetNormalized(id ID, n float64) error {
	p := r.Get(id)
	if p == nil {
		return fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}
	return p.SetNormalizedValue(n)
}

// RegistryBuilder collects build and registration errors so that a whole
// parameter set can be declared in one expression.
type RegistryBuilder struct {
	registry *Registry
	errors   []error
}

// NewRegistryBuilder creates a builder for fluent registration
func NewRegistryBuilder(registry *Registry) *RegistryBuilder {
	return &RegistryBuilder{
		registry: registry,
		errors:   make([]error, 0),
	}
}

// Add registers a parameter, typically straight from a Builder's Build.
func (b *RegistryBuilder) Add(p Parameter, err error) *RegistryBuilder {
	if err != nil {
		b.errors = append(b.errors, err)
		return b
	}
	if err := b.registry.Add(p); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// Build finalizes the registration and returns any errors
func (b *RegistryBuilder) Build() (*Registry, error) {
	if len(b.errors) > 0 {
		return b.registry, fmt.Errorf("registration errors: %w", errors.Join(b.errors...))
	}
	return b.registry, nil
}
