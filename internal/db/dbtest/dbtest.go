// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mediatekformation/mediatekformation/internal/db/models"
)

// Open returns a fresh, migrated in-memory sqlite database.
// The pool is limited to one connection, each connection would see its own
// empty database otherwise.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// Fixture is a small catalog shared by listing tests.
type Fixture struct {
	Java, UML, Python    models.Categorie
	Eclipse, Empty, Misc models.Playlist
	Formations           []models.Formation
}

// Seed inserts the fixture:
//
//	playlists: "Eclipse et Java" (2 formations), "Playlist vide" (0), "Divers" (1)
//	formations by id:
//	  1 "Eclipse n°1 : installation"  2021-01-04  Eclipse  [Java]
//	  2 "UML : diagramme de classes"   2023-06-12  Misc     [UML]
//	  3 "Java : les bases"             2019-11-20  Eclipse  [Java UML]
//	  4 "Python pour débutants"        nil         none     [Python]
func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Java:    models.Categorie{Name: "Java"},
		UML:     models.Categorie{Name: "UML"},
		Python:  models.Categorie{Name: "Python"},
		Eclipse: models.Playlist{Name: "Eclipse et Java", Description: "Tout sur Eclipse"},
		Empty:   models.Playlist{Name: "Playlist vide"},
		Misc:    models.Playlist{Name: "Divers", Description: "Modélisation"},
	}

	for _, c := range []*models.Categorie{&f.Java, &f.UML, &f.Python} {
		require.NoError(t, db.Create(c).Error)
	}

	for _, p := range []*models.Playlist{&f.Eclipse, &f.Empty, &f.Misc} {
		require.NoError(t, db.Create(p).Error)
	}

	f.Formations = []models.Formation{
		{
			Title: "Eclipse n°1 : installation", PublishedAt: Date(2021, time.January, 4),
			VideoID: "Z4yTTXka958", PlaylistID: &f.Eclipse.ID, Categories: []models.Categorie{f.Java},
		},
		{
			Title: "UML : diagramme de classes", PublishedAt: Date(2023, time.June, 12),
			Description: "Les **classes**", VideoID: "dAPPNnx2ZAk", PlaylistID: &f.Misc.ID,
			Categories: []models.Categorie{f.UML},
		},
		{
			Title: "Java : les bases", PublishedAt: Date(2019, time.November, 20),
			VideoID: "xRIz2xNB4QE", PlaylistID: &f.Eclipse.ID, Categories: []models.Categorie{f.Java, f.UML},
		},
		{
			Title: "Python pour débutants", VideoID: "oUJolR5bX6g",
			Categories: []models.Categorie{f.Python},
		},
	}

	for i := range f.Formations {
		require.NoError(t, db.Omit("Categories.*").Create(&f.Formations[i]).Error)
	}

	return f
}
