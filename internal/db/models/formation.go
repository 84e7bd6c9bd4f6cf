package models

import (
	"time"
)

const (
	// DateLayout is the display format of a publication date.
	DateLayout = "02/01/2006"
	// DateInputLayout is the format of an html date input.
	DateInputLayout = "2006-01-02"

	thumbnailBase = "https://i.ytimg.com/vi/"
	embedBase     = "https://www.youtube.com/embed/"
)

// Formation is one video training unit.
// PlaylistID is the owning side of the playlist relation, a playlist never
// stores its formations.
type Formation struct {
	ID          uint        `gorm:"primaryKey"`
	PublishedAt *time.Time  `gorm:"index"`
	Title       string      `gorm:"size:100"`
	Description string      `gorm:"type:text"`
	VideoID     string      `gorm:"size:20"`
	PlaylistID  *uint       `gorm:"index"`
	Playlist    *Playlist   `gorm:"constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	Categories  []Categorie `gorm:"many2many:formation_categories;joinForeignKey:FormationID;joinReferences:CategorieID"`
}

// TableName implements gorm's tabler.
func (Formation) TableName() string { return "formations" }

// PublishedAtString returns the publication date as DD/MM/YYYY, or "" when unset.
func (f *Formation) PublishedAtString() string {
	if f.PublishedAt == nil {
		return ""
	}

	return f.PublishedAt.Format(DateLayout)
}

// PublishedAtInput returns the publication date in html date input format.
func (f *Formation) PublishedAtInput() string {
	if f.PublishedAt == nil {
		return ""
	}

	return f.PublishedAt.Format(DateInputLayout)
}

// Miniature is the small YouTube thumbnail.
func (f *Formation) Miniature() string {
	return thumbnailBase + f.VideoID + "/default.jpg"
}

// Picture is the high quality YouTube thumbnail.
func (f *Formation) Picture() string {
	return thumbnailBase + f.VideoID + "/hqdefault.jpg"
}

// EmbedURL is the player url of the video.
func (f *Formation) EmbedURL() string {
	return embedBase + f.VideoID
}

// HasCategorie reports whether the formation is tagged with categorie id.
func (f *Formation) HasCategorie(id uint) bool {
	for i := range f.Categories {
		if f.Categories[i].ID == id {
			return true
		}
	}

	return false
}

// InPlaylist reports whether the formation belongs to playlist id.
func (f *Formation) InPlaylist(id uint) bool {
	return f.PlaylistID != nil && *f.PlaylistID == id
}

// CategorieNames lists the names of the formation's categories.
func (f *Formation) CategorieNames() []string {
	names := make([]string, 0, len(f.Categories))
	for i := range f.Categories {
		names = append(names, f.Categories[i].Name)
	}

	return names
}
