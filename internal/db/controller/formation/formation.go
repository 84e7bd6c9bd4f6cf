// Package formation reads and writes formations.
package formation

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/db/query"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = stderrors.New("database connection is nil")
	// ErrNotFound is returned when no formation has the requested id.
	ErrNotFound = stderrors.New("formation not found")
	// ErrUnknownPlaylist is returned when the input names a missing playlist.
	ErrUnknownPlaylist = stderrors.New("playlist does not exist")
	// ErrUnknownCategorie is returned when the input names a missing categorie.
	ErrUnknownCategorie = stderrors.New("categorie does not exist")
)

// Input holds the writable fields of a formation. An edit replaces all of
// them, relation sets included.
type Input struct {
	Title        string
	Description  string
	VideoID      string
	PublishedAt  *time.Time
	PlaylistID   *uint
	CategorieIDs []uint
}

func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Playlist").Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name ASC")
	})
}

// List returns the formations selected by p, with playlist and categories.
func List(ctx context.Context, db *gorm.DB, p query.Params) ([]models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return query.List[models.Formation](ctx, db, query.Formations, p, withRelations)
}

// ListAll returns every formation in id order.
func ListAll(ctx context.Context, db *gorm.DB) ([]models.Formation, error) {
	return List(ctx, db, query.Params{Mode: query.ModeDefault})
}

// ListOrderedBy returns every formation ordered by field of table.
func ListOrderedBy(ctx context.Context, db *gorm.DB, field string, dir query.Direction, table string) ([]models.Formation, error) {
	return List(ctx, db, query.Params{Mode: query.ModeSort, Field: field, Direction: dir, Table: table})
}

// ListContaining returns the formations whose field of table contains value,
// newest first.
func ListContaining(ctx context.Context, db *gorm.DB, field, value, table string) ([]models.Formation, error) {
	return List(ctx, db, query.Params{Mode: query.ModeSearch, Field: field, Value: value, Table: table})
}

// Latest returns the n most recently published formations.
func Latest(ctx context.Context, db *gorm.DB, n int) ([]models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Formation

	err := db.WithContext(ctx).
		Scopes(withRelations).
		Where("published_at IS NOT NULL").
		Order("published_at DESC").
		Order("id DESC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load latest formations")
	}

	return out, nil
}

// Get returns one formation with its playlist and categories.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return get(db.WithContext(ctx).Scopes(withRelations), id)
}

func get(tx *gorm.DB, id uint) (*models.Formation, error) {
	var f models.Formation

	if err := tx.First(&f, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "failed to load formation %d", id)
	}

	return &f, nil
}

// ListByPlaylist returns the formations of a playlist, oldest first.
func ListByPlaylist(ctx context.Context, db *gorm.DB, playlistID uint) ([]models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Formation

	err := db.WithContext(ctx).
		Scopes(withRelations).
		Where("playlist_id = ?", playlistID).
		Order("published_at IS NULL").
		Order("published_at ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load formations of playlist %d", playlistID)
	}

	return out, nil
}

// Create inserts a formation and its categorie links.
func Create(ctx context.Context, db *gorm.DB, in Input) (*models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var f models.Formation

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return write(tx, &f, in)
	})
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// Update replaces the fields and relations of formation id.
func Update(ctx context.Context, db *gorm.DB, id uint, in Input) (*models.Formation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var f *models.Formation

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if f, err = get(tx, id); err != nil {
			return err
		}

		return write(tx, f, in)
	})
	if err != nil {
		return nil, err
	}

	return f, nil
}

func write(tx *gorm.DB, f *models.Formation, in Input) error {
	if in.PlaylistID != nil {
		var n int64
		if err := tx.Model(&models.Playlist{}).Where("id = ?", *in.PlaylistID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "failed to check playlist")
		}

		if n == 0 {
			return ErrUnknownPlaylist
		}
	}

	categories, err := lookupCategories(tx, in.CategorieIDs)
	if err != nil {
		return err
	}

	f.Title = in.Title
	f.Description = in.Description
	f.VideoID = in.VideoID
	f.PublishedAt = in.PublishedAt
	f.PlaylistID = in.PlaylistID
	f.Playlist = nil

	if err := tx.Omit(clause.Associations).Save(f).Error; err != nil {
		return errors.Wrap(err, "failed to save formation")
	}

	assoc := tx.Model(f).Association("Categories")
	if len(categories) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(categories)
	}

	if err != nil {
		return errors.Wrap(err, "failed to link categories")
	}

	f.Categories = categories

	return nil
}

func lookupCategories(tx *gorm.DB, ids []uint) ([]models.Categorie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var categories []models.Categorie
	if err := tx.Where("id IN ?", ids).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load categories")
	}

	if len(categories) != len(unique) {
		return nil, ErrUnknownCategorie
	}

	return categories, nil
}

// Delete detaches formation id from its playlist and categories, then
// removes it.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		f, err := get(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(f).Association("Categories").Clear(); err != nil {
			return errors.Wrap(err, "failed to detach categories")
		}

		if err := tx.Model(f).Update("playlist_id", nil).Error; err != nil {
			return errors.Wrap(err, "failed to detach playlist")
		}

		if err := tx.Delete(f).Error; err != nil {
			return errors.Wrap(err, "failed to delete formation")
		}

		return nil
	})
}
