// Package playlist reads and writes playlists.
//
// Playlists never store their formations: counts and categorie names are
// computed from formations.playlist_id when a playlist is read.
package playlist

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/db/query"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = stderrors.New("database connection is nil")
	// ErrNotFound is returned when no playlist has the requested id.
	ErrNotFound = stderrors.New("playlist not found")
	// ErrHasFormations is returned when deleting a playlist that still owns formations.
	ErrHasFormations = stderrors.New("playlist still has formations")
)

// Input holds the writable fields of a playlist.
type Input struct {
	Name        string
	Description string
}

// List returns the playlists selected by p with their counts and
// categorie names.
func List(ctx context.Context, db *gorm.DB, p query.Params) ([]models.Playlist, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	list, err := query.List[models.Playlist](ctx, db, query.Playlists, p)
	if err != nil {
		return nil, err
	}

	return list, fillCategorieNames(ctx, db, list)
}

// ListAll returns every playlist by name.
func ListAll(ctx context.Context, db *gorm.DB) ([]models.Playlist, error) {
	return List(ctx, db, query.Params{Mode: query.ModeDefault})
}

// ListOrderedBy returns every playlist ordered by field, which may be
// "nombreformations".
func ListOrderedBy(ctx context.Context, db *gorm.DB, field string, dir query.Direction) ([]models.Playlist, error) {
	return List(ctx, db, query.Params{Mode: query.ModeSort, Field: field, Direction: dir})
}

// ListContaining returns the playlists whose field of table contains value.
func ListContaining(ctx context.Context, db *gorm.DB, field, value, table string) ([]models.Playlist, error) {
	return List(ctx, db, query.Params{Mode: query.ModeSearch, Field: field, Value: value, Table: table})
}

// ListContainingOrderedByCount filters like ListContaining and orders by
// formation count.
func ListContainingOrderedByCount(ctx context.Context, db *gorm.DB, field, value, table string, dir query.Direction) ([]models.Playlist, error) {
	return List(ctx, db, query.Params{
		Mode:      query.ModeSearch,
		Field:     field,
		Value:     value,
		Table:     table,
		Sort:      "nombreformations",
		Direction: dir,
	})
}

// Get returns one playlist with its count and categorie names.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Playlist, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	list, err := query.Find[models.Playlist](ctx, db, query.Playlists.All(), func(tx *gorm.DB) *gorm.DB {
		return tx.Where("playlists.id = ?", id).Limit(1)
	})
	if err != nil {
		return nil, err
	}

	if len(list) == 0 {
		return nil, ErrNotFound
	}

	if err := fillCategorieNames(ctx, db, list); err != nil {
		return nil, err
	}

	return &list[0], nil
}

// Categories returns the distinct categories of the playlist's formations.
func Categories(ctx context.Context, db *gorm.DB, id uint) ([]models.Categorie, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var out []models.Categorie

	err := db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM formation_categories"+
			" JOIN formations ON formations.id = formation_categories.formation_id"+
			" WHERE formation_categories.categorie_id = categories.id"+
			" AND formations.playlist_id = ?)", id).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load categories of playlist %d", id)
	}

	return out, nil
}

// CategorieNames returns, per playlist id, the sorted distinct names of the
// categories of its formations.
func CategorieNames(ctx context.Context, db *gorm.DB, ids []uint) (map[uint][]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	out := make(map[uint][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		PlaylistID uint
		Name       string
	}

	err := db.WithContext(ctx).
		Table("formations").
		Select("DISTINCT formations.playlist_id AS playlist_id, categories.name AS name").
		Joins("JOIN formation_categories ON formation_categories.formation_id = formations.id").
		Joins("JOIN categories ON categories.id = formation_categories.categorie_id").
		Where("formations.playlist_id IN ?", ids).
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load playlist categorie names")
	}

	for _, r := range rows {
		out[r.PlaylistID] = append(out[r.PlaylistID], r.Name)
	}

	return out, nil
}

func fillCategorieNames(ctx context.Context, db *gorm.DB, list []models.Playlist) error {
	ids := make([]uint, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}

	byID, err := CategorieNames(ctx, db, ids)
	if err != nil {
		return err
	}

	for i := range list {
		list[i].CategorieNames = byID[list[i].ID]
	}

	return nil
}

// Create inserts a playlist.
func Create(ctx context.Context, db *gorm.DB, in Input) (*models.Playlist, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	p := &models.Playlist{Name: in.Name, Description: in.Description}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create playlist")
	}

	return p, nil
}

// Update replaces the fields of playlist id.
func Update(ctx context.Context, db *gorm.DB, id uint, in Input) (*models.Playlist, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Playlist

	tx := db.WithContext(ctx)
	if err := tx.First(&p, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "failed to load playlist %d", id)
	}

	p.Name = in.Name
	p.Description = in.Description

	if err := tx.Save(&p).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update playlist")
	}

	return &p, nil
}

// Delete removes playlist id unless it still owns formations.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		var p models.Playlist
		if err := tx.First(&p, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return errors.Wrapf(err, "failed to load playlist %d", id)
		}

		var n int64
		if err := tx.Model(&models.Formation{}).Where("playlist_id = ?", id).Count(&n).Error; err != nil {
			return errors.Wrap(err, "failed to count formations")
		}

		if n > 0 {
			return ErrHasFormations
		}

		if err := tx.Delete(&p).Error; err != nil {
			return errors.Wrap(err, "failed to delete playlist")
		}

		return nil
	})
}
