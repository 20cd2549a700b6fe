package param

import "strings"

// ID identifies a parameter. It stays stable across sessions and is never
// reused while a registry is alive.
type ID uint32

// Flags for parameters
const (
	CanAutomate     uint32 = 1 << 0
	IsReadOnly      uint32 = 1 << 1
	IsWrapAround    uint32 = 1 << 2
	IsList          uint32 = 1 << 3
	IsHidden        uint32 = 1 << 4
	IsProgramChange uint32 = 1 << 15
	IsBypass        uint32 = 1 << 16
)

// Info is the immutable descriptor of a parameter. Builders fill it in,
// after which it is only shared by pointer.
type Info struct {
	ID                ID
	Name              string
	ShortName         string
	Path              string
	Unit              string
	DefaultNormalized float64
	Steps             int
	Flags             uint32
}

func newInfo(id ID, name string, steps int) Info {
	return Info{
		ID:        id,
		Name:      name,
		ShortName: name,
		Steps:     steps,
		Flags:     CanAutomate,
	}
}

// Has reports whether all bits of flag are set.
func (i *Info) Has(flag uint32) bool {
	return i.Flags&flag == flag
}

// IsStepped reports whether the parameter has a finite number of positions.
func (i *Info) IsStepped() bool {
	return i.Steps > 0
}

// Groups splits Path into its components.
func (i *Info) Groups() []string {
	if i.Path == "" {
		return nil
	}
	return strings.Split(strings.Trim(i.Path, "/"), "/")
}
