// Package setting stores named JSON values in the settings table.
package setting

import (
	"context"
	stderrors "errors"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = stderrors.New("setting not found")
	// ErrSettingNameEmpty is returned when a setting name is empty.
	ErrSettingNameEmpty = stderrors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = stderrors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting
	if err := db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, errors.Wrapf(err, "failed to load setting %q", name)
	}

	return &s, nil
}

// Set creates or replaces the value of a setting.
func Set(ctx context.Context, db *gorm.DB, name string, value datatypes.JSON) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	s := models.Setting{Name: name, Value: value}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store setting %q", name)
	}

	return Get(ctx, db, name)
}

// Delete removes a setting by name.
func Delete(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.WithContext(ctx).Where("name = ?", name).Delete(&models.Setting{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to delete setting %q", name)
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Load decodes the setting name into a T.
func Load[T any](ctx context.Context, db *gorm.DB, name string) (T, error) {
	var v T

	s, err := Get(ctx, db, name)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(s.Value, &v); err != nil {
		return v, errors.Wrapf(err, "setting %q is not valid JSON", name)
	}

	return v, nil
}

// Store encodes v as JSON into the setting name.
func Store[T any](ctx context.Context, db *gorm.DB, name string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode setting %q", name)
	}

	_, err = Set(ctx, db, name, data)

	return err
}

// LoadOrInit returns the stored value of name, or stores and returns the
// result of init when the setting does not exist yet.
func LoadOrInit[T any](ctx context.Context, db *gorm.DB, name string, init func() (T, error)) (T, error) {
	v, err := Load[T](ctx, db, name)
	if err == nil || !stderrors.Is(err, ErrSettingNotFound) {
		return v, err
	}

	if v, err = init(); err != nil {
		return v, err
	}

	return v, Store(ctx, db, name, v)
}
