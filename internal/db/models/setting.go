// Package models contains database model definitions.
package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting is a named JSON value stored in the database.
type Setting struct {
	ID    uint64         `gorm:"primaryKey"`
	Name  string         `gorm:"size:100;uniqueIndex;not null"`
	Value datatypes.JSON `gorm:"type:text;not null"`
}

// TableName implements gorm's tabler.
func (Setting) TableName() string { return "settings" }

// AutoMigrate creates or updates every table of the application.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate( //nolint:wrapcheck
		&Categorie{},
		&Playlist{},
		&Formation{},
		&User{},
		&Setting{},
	)
}
