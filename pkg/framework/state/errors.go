package state

import "errors"

var (
	// ErrInvalidFormat reports a stream that is not a parameter state or is truncated.
	ErrInvalidFormat = errors.New("invalid state format")
	// ErrUnsupportedVersion reports a state written by a newer format version.
	ErrUnsupportedVersion = errors.New("unsupported state version")
	// ErrPresetNotFound reports a preset name with no stored state.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrInvalidPreset reports a preset name that cannot be stored.
	ErrInvalidPreset = errors.New("invalid preset name")
)
