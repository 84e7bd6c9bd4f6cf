package models

// Playlist groups formations.
//
// FormationCount and CategorieNames are computed by queries, they are never
// written back.
type Playlist struct {
	ID             uint     `gorm:"primaryKey"`
	Name           string   `gorm:"size:100;index"`
	Description    string   `gorm:"type:text"`
	FormationCount int64    `gorm:"->;column:nb_formations;-:migration"`
	CategorieNames []string `gorm:"-"`
}

// TableName implements gorm's tabler.
func (Playlist) TableName() string { return "playlists" }
