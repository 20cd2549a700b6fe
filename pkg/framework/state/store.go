package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/justyntemme/paramcore/pkg/framework/config"
	"github.com/justyntemme/paramcore/pkg/framework/param"
)

// Store persists named presets of a registry.
type Store interface {
	Save(ctx context.Context, preset string, reg *param.Registry) error
	Load(ctx context.Context, preset string, reg *param.Registry) error
	Presets(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, preset string) error
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLStore)(nil)
)

// OpenStore opens the backend selected by cfg.
func OpenStore(cfg config.StateConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendBinary:
		return NewBinaryStore(cfg.Path), nil
	case config.BackendYAML:
		return NewYAMLStore(cfg.Path), nil
	case config.BackendSQLite:
		return OpenSQLStore(SQLConfig{Path: cfg.Path, LogLevel: cfg.LogLevel})
	}
	return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
}

type fileCodec struct {
	ext    string
	encode func(w io.Writer, preset string, reg *param.Registry) error
	decode func(r io.Reader, reg *param.Registry) error
}

// FileStore keeps one file per preset in a directory.
type FileStore struct {
	dir   string
	codec fileCodec
}

// NewBinaryStore stores presets as binary state files (.state).
func NewBinaryStore(dir string) *FileStore {
	return &FileStore{
		dir: dir,
		codec: fileCodec{
			ext: ".state",
			encode: func(w io.Writer, _ string, reg *param.Registry) error {
				return NewManager(reg).Save(w)
			},
			decode: func(r io.Reader, reg *param.Registry) error {
				return NewManager(reg).Load(r)
			},
		},
	}
}

// NewYAMLStore stores presets as YAML files (.yaml).
func NewYAMLStore(dir string) *FileStore {
	return &FileStore{
		dir: dir,
		codec: fileCodec{
			ext:    ".yaml",
			encode: WritePreset,
			decode: func(r io.Reader, reg *param.Registry) error {
				_, err := ReadPreset(r, reg)
				return err
			},
		},
	}
}

// Dir returns the preset directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(preset string) (string, error) {
	if preset == "" || preset == "." || preset == ".." || strings.ContainsAny(preset, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPreset, preset)
	}
	return filepath.Join(s.dir, preset+s.codec.ext), nil
}

// Save writes the preset to a temporary file and renames it into place.
func (s *FileStore) Save(ctx context.Context, preset string, reg *param.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(preset)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create preset directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+preset+"-*")
	if err != nil {
		return fmt.Errorf("save preset %q: %w", preset, err)
	}
	defer os.Remove(tmp.Name())

	if err := s.codec.encode(tmp, preset, reg); err != nil {
		tmp.Close()
		return fmt.Errorf("save preset %q: %w", preset, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preset %q: %w", preset, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save preset %q: %w", preset, err)
	}
	return nil
}

// Load restores preset into reg.
func (s *FileStore) Load(ctx context.Context, preset string, reg *param.Registry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(preset)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, preset)
	}
	if err != nil {
		return fmt.Errorf("load preset %q: %w", preset, err)
	}
	defer f.Close()

	if err := s.codec.decode(f, reg); err != nil {
		return fmt.Errorf("load preset %q: %w", preset, err)
	}
	return nil
}

// Presets lists the stored preset names in order.
func (s *FileStore) Presets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != s.codec.ext {
			continue
		}
		names = append(names, strings.TrimSuffix(name, s.codec.ext))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the preset file.
func (s *FileStore) Delete(ctx context.Context, preset string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(preset)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrPresetNotFound, preset)
		}
		return fmt.Errorf("delete preset %q: %w", preset, err)
	}
	return nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error {
	return nil
}
