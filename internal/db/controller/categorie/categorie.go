// Package categorie reads and writes categories.
package categorie

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/db/query"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = stderrors.New("database connection is nil")
	// ErrNotFound is returned when no categorie has the requested id.
	ErrNotFound = stderrors.New("categorie not found")
	// ErrNameEmpty is returned for a blank name.
	ErrNameEmpty = stderrors.New("categorie name cannot be empty")
	// ErrDuplicateName is returned when another categorie has the same name.
	ErrDuplicateName = stderrors.New("categorie name already exists")
	// ErrInUse is returned when deleting a categorie still linked to formations.
	ErrInUse = stderrors.New("categorie is used by formations")
)

// List returns the categories selected by p.
func List(ctx context.Context, db *gorm.DB, p query.Params) ([]models.Categorie, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return query.List[models.Categorie](ctx, db, query.Categories, p)
}

// ListAll returns every categorie in id order.
func ListAll(ctx context.Context, db *gorm.DB) ([]models.Categorie, error) {
	return List(ctx, db, query.Params{Mode: query.ModeDefault})
}

// ListByName returns every categorie sorted by name, for select boxes.
func ListByName(ctx context.Context, db *gorm.DB) ([]models.Categorie, error) {
	return List(ctx, db, query.Params{Mode: query.ModeSort, Field: "name", Direction: query.Asc})
}

// Get returns categorie id.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Categorie, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Categorie
	if err := db.WithContext(ctx).First(&c, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "failed to load categorie %d", id)
	}

	return &c, nil
}

// FindByName returns the categorie named exactly name.
func FindByName(ctx context.Context, db *gorm.DB, name string) (*models.Categorie, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Categorie
	if err := db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "failed to look up categorie %q", name)
	}

	return &c, nil
}

// Create inserts a categorie. The name is trimmed and must be unused.
func Create(ctx context.Context, db *gorm.DB, name string) (*models.Categorie, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	c := &models.Categorie{}
	if err := save(ctx, db, c, name); err != nil {
		return nil, err
	}

	return c, nil
}

// Rename changes the name of categorie id.
func Rename(ctx context.Context, db *gorm.DB, id uint, name string) (*models.Categorie, error) {
	c, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := save(ctx, db, c, name); err != nil {
		return nil, err
	}

	return c, nil
}

func save(ctx context.Context, db *gorm.DB, c *models.Categorie, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameEmpty
	}

	existing, err := FindByName(ctx, db, name)

	switch {
	case err == nil && existing.ID != c.ID:
		return ErrDuplicateName
	case err != nil && !stderrors.Is(err, ErrNotFound):
		return err
	}

	c.Name = name

	// The unique index catches a concurrent insert of the same name.
	if err := db.WithContext(ctx).Save(c).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}

		return errors.Wrap(err, "failed to save categorie")
	}

	return nil
}

// Delete removes categorie id unless a formation references it.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		var c models.Categorie
		if err := tx.First(&c, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return errors.Wrapf(err, "failed to load categorie %d", id)
		}

		var n int64
		if err := tx.Table("formation_categories").Where("categorie_id = ?", id).Count(&n).Error; err != nil {
			return errors.Wrap(err, "failed to count formation links")
		}

		if n > 0 {
			return ErrInUse
		}

		if err := tx.Delete(&c).Error; err != nil {
			return errors.Wrap(err, "failed to delete categorie")
		}

		return nil
	})
}
