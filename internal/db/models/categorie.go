package models

// Categorie tags formations. Names are unique.
type Categorie struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

// TableName implements gorm's tabler.
func (Categorie) TableName() string { return "categories" }
