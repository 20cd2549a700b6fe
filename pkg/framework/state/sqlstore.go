package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justyntemme/paramcore/pkg/framework/debug"
	"github.com/justyntemme/paramcore/pkg/framework/param"
)

// ParameterValue is one stored parameter of a named preset.
type ParameterValue struct {
	ID        uint      `gorm:"primaryKey"`
	Preset    string    `gorm:"not null;uniqueIndex:idx_preset_param"`
	ParamID   uint32    `gorm:"not null;uniqueIndex:idx_preset_param"`
	Value     float64   `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ParameterValue) TableName() string {
	return "parameter_values"
}

// SQLConfig configures an SQLite-backed store.
type SQLConfig struct {
	Path     string
	LogLevel string // silent, error, warn, info
}

// SQLStore keeps presets in SQLite through gorm.
type SQLStore struct {
	db  *gorm.DB
	log *debug.Logger
}

// OpenSQLStore opens (creating if needed) the database at cfg.Path.
func OpenSQLStore(cfg SQLConfig) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s, err := NewSQLStore(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore uses an open gorm connection and migrates the schema.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&ParameterValue{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLStore{db: db, log: debug.Default().With("sqlstore")}, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Save upserts every parameter of reg under preset.
func (s *SQLStore) Save(ctx context.Context, preset string, reg *param.Registry) error {
	if preset == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPreset)
	}

	params := reg.All()
	if len(params) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]ParameterValue, len(params))
	for i, p := range params {
		rows[i] = ParameterValue{
			Preset:    preset,
			ParamID:   uint32(p.Info().ID),
			Value:     p.SerializeValue(),
			UpdatedAt: now,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "preset"}, {Name: "param_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save preset %q: %w", preset, err)
	}

	s.log.Debug("preset saved", debug.String("preset", preset), debug.Int("parameters", len(rows)))
	return nil
}

// Load restores preset into reg.
func (s *SQLStore) Load(ctx context.Context, preset string, reg *param.Registry) error {
	var rows []ParameterValue
	if err := s.db.WithContext(ctx).Where("preset = ?", preset).Order("param_id").Find(&rows).Error; err != nil {
		return fmt.Errorf("load preset %q: %w", preset, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, preset)
	}

	values := make(map[param.ID]float64, len(rows))
	for _, row := range rows {
		values[param.ID(row.ParamID)] = row.Value
	}
	applied, err := reg.Restore(values)
	s.log.Debug("preset loaded", debug.String("preset", preset), debug.Int("stored", len(rows)), debug.Int("applied", applied))
	return err
}

// Presets lists stored preset names in order.
func (s *SQLStore) Presets(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&ParameterValue{}).
		Distinct("preset").
		Order("preset").
		Pluck("preset", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return names, nil
}

// Delete removes every stored value of preset.
func (s *SQLStore) Delete(ctx context.Context, preset string) error {
	result := s.db.WithContext(ctx).Where("preset = ?", preset).Delete(&ParameterValue{})
	if result.Error != nil {
		return fmt.Errorf("delete preset %q: %w", preset, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, preset)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
