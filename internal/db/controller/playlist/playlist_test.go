package playlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediatekformation/mediatekformation/internal/db/dbtest"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/db/query"
)

func TestListAllComputesDerivedFields(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)

	list, err := ListAll(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, list, 3)

	byName := map[string]models.Playlist{}
	for _, p := range list {
		byName[p.Name] = p
	}

	eclipse := byName["Eclipse et Java"]
	assert.EqualValues(t, 2, eclipse.FormationCount)
	assert.Equal(t, []string{"Java", "UML"}, eclipse.CategorieNames)

	empty := byName["Playlist vide"]
	assert.Zero(t, empty.FormationCount)
	assert.Empty(t, empty.CategorieNames)
}

func TestListOrderedByCount(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)

	list, err := ListOrderedBy(context.Background(), db, "nombreformations", query.Desc)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Eclipse et Java", list[0].Name)
	assert.Equal(t, "Playlist vide", list[2].Name)
}

func TestListContainingOrderedByCount(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)

	list, err := ListContainingOrderedByCount(context.Background(), db, "name", "i", "", query.Asc)
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Playlist vide", "Divers", "Eclipse et Java"}, names)
}

func TestListContainingRejectsUnknownTable(t *testing.T) {
	db := dbtest.Open(t)

	_, err := ListContaining(context.Background(), db, "title", "x", "formations")
	require.ErrorIs(t, err, query.ErrUnknownField)
}

func TestGet(t *testing.T) {
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	ctx := context.Background()

	p, err := Get(ctx, db, fx.Misc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Divers", p.Name)
	assert.EqualValues(t, 1, p.FormationCount)
	assert.Equal(t, []string{"UML"}, p.CategorieNames)

	_, err = Get(ctx, db, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategories(t *testing.T) {
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)

	categories, err := Categories(context.Background(), db, fx.Eclipse.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Java", categories[0].Name)
	assert.Equal(t, "UML", categories[1].Name)
}

func TestCreateAndUpdate(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	p, err := Create(ctx, db, Input{Name: "Bases de données", Description: "SQL"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	updated, err := Update(ctx, db, p.ID, Input{Name: "SGBD"})
	require.NoError(t, err)
	assert.Equal(t, "SGBD", updated.Name)
	assert.Empty(t, updated.Description)

	_, err = Update(ctx, db, 999, Input{Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	ctx := context.Background()

	testCases := []struct {
		name          string
		id            uint
		expectedError error
	}{
		{
			name:          "owns formations",
			id:            fx.Eclipse.ID,
			expectedError: ErrHasFormations,
		},
		{
			name:          "missing",
			id:            999,
			expectedError: ErrNotFound,
		},
		{
			name: "empty playlist",
			id:   fx.Empty.ID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Delete(ctx, db, tc.id)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)

			_, err = Get(ctx, db, tc.id)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}

	var owned int64
	db.Model(&models.Formation{}).Where("playlist_id = ?", fx.Eclipse.ID).Count(&owned)
	assert.EqualValues(t, 2, owned)
}
