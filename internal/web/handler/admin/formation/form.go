package formation

import (
	"strings"
	"time"

	"github.com/mediatekformation/mediatekformation/internal/db/controller/formation"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// form is the posted formation.
type form struct {
	Title        string `form:"title"        validate:"required,max=100"`
	Description  string `form:"description"`
	VideoID      string `form:"video_id"     validate:"max=20"`
	PublishedAt  string `form:"published_at" validate:"omitempty,datetime=2006-01-02,notfuture"`
	PlaylistID   uint   `form:"playlist_id"`
	CategorieIDs []uint `form:"categorie_ids"`
}

func fromModel(f *models.Formation) *form {
	out := &form{
		Title:       f.Title,
		Description: f.Description,
		VideoID:     f.VideoID,
		PublishedAt: f.PublishedAtInput(),
	}

	if f.PlaylistID != nil {
		out.PlaylistID = *f.PlaylistID
	}

	for i := range f.Categories {
		out.CategorieIDs = append(out.CategorieIDs, f.Categories[i].ID)
	}

	return out
}

func (f *form) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.VideoID = strings.TrimSpace(f.VideoID)
	f.PublishedAt = strings.TrimSpace(f.PublishedAt)
}

// input converts a validated form.
func (f *form) input() formation.Input {
	in := formation.Input{
		Title:        f.Title,
		Description:  f.Description,
		VideoID:      f.VideoID,
		CategorieIDs: f.CategorieIDs,
	}

	if d, err := time.Parse(models.DateInputLayout, f.PublishedAt); err == nil {
		in.PublishedAt = &d
	}

	if f.PlaylistID != 0 {
		id := f.PlaylistID
		in.PlaylistID = &id
	}

	return in
}

// HasCategorie is used by the template to check boxes.
func (f *form) HasCategorie(id uint) bool {
	for _, c := range f.CategorieIDs {
		if c == id {
			return true
		}
	}

	return false
}
