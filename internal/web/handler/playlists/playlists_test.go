package playlists_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/dbtest"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/playlists"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
	"github.com/mediatekformation/mediatekformation/internal/web/webtest"
)

func newApp(t *testing.T) (*fiber.App, *webtest.RecordingViews, *gorm.DB, dbtest.Fixture) {
	t.Helper()

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	webtest.InitSessions(t)

	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)

	svc := playlists.Service{}
	svc.Init(app, webtest.Config(), db)

	return app, views, db, fx
}

func names(t *testing.T, views *webtest.RecordingViews) []string {
	t.Helper()

	_, data := views.Last()
	list, ok := data["Playlists"].([]models.Playlist)
	require.True(t, ok)

	out := make([]string, 0, len(list))
	for i := range list {
		out = append(out, list[i].Name)
	}

	return out
}

func TestList(t *testing.T) {
	app, views, _, _ := newApp(t)

	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
		want   []string
	}{
		{
			name:   "default by name",
			method: http.MethodGet,
			target: "/playlists",
			want:   []string{"Divers", "Eclipse et Java", "Playlist vide"},
		},
		{
			name:   "by formation count descending",
			method: http.MethodGet,
			target: "/playlists?champ=nombreformations&ordre=DESC",
			want:   []string{"Eclipse et Java", "Divers", "Playlist vide"},
		},
		{
			name:   "posted search on categorie",
			method: http.MethodPost,
			target: "/playlists",
			form:   url.Values{"recherche": {"UML"}, "champ": {"name"}, "table": {"categories"}},
			want:   []string{"Divers", "Eclipse et Java"},
		},
		{
			name:   "search ordered by formation count ascending",
			method: http.MethodGet,
			target: navigation.SearchSortURL(playlists.Path, "li", "name", "", "nombreformations", "ASC"),
			want:   []string{"Playlist vide", "Eclipse et Java"},
		},
		{
			name:   "search ordered by formation count descending",
			method: http.MethodGet,
			target: navigation.SearchSortURL(playlists.Path, "li", "name", "", "nombreformations", "DESC"),
			want:   []string{"Eclipse et Java", "Playlist vide"},
		},
		{
			name:   "posted empty search lists everything",
			method: http.MethodPost,
			target: "/playlists",
			form:   url.Values{"recherche": {""}, "champ": {"name"}},
			want:   []string{"Divers", "Eclipse et Java", "Playlist vide"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, tt.method, tt.target, tt.form)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, playlists.TemplateName, webtest.Body(t, resp))
			assert.Equal(t, tt.want, names(t, views))
		})
	}
}

func TestList_CountsAndCategories(t *testing.T) {
	app, views, _, _ := newApp(t)

	resp := webtest.Do(t, app, http.MethodGet, "/playlists", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data := views.Last()
	list := data["Playlists"].([]models.Playlist)
	require.Len(t, list, 3)

	eclipse := list[1]
	assert.Equal(t, int64(2), eclipse.FormationCount)
	assert.Equal(t, []string{"Java", "UML"}, eclipse.CategorieNames)
	assert.Equal(t, int64(0), list[2].FormationCount)
	assert.Empty(t, list[2].CategorieNames)
}

func TestDetail(t *testing.T) {
	app, views, _, fx := newApp(t)

	resp := webtest.Do(t, app, http.MethodGet, "/playlists/playlist/"+uintString(fx.Eclipse.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, playlists.TemplateDetail, webtest.Body(t, resp))

	_, data := views.Last()
	p := data["Playlist"].(*models.Playlist)
	assert.Equal(t, "Eclipse et Java", p.Name)
	assert.Equal(t, int64(2), p.FormationCount)

	formations := data["Formations"].([]models.Formation)
	require.Len(t, formations, 2)
	assert.Equal(t, "Java : les bases", formations[0].Title)
	assert.Equal(t, "Eclipse n°1 : installation", formations[1].Title)

	categories := data["Categories"].([]models.Categorie)
	require.Len(t, categories, 2)
	assert.Equal(t, "Java", categories[0].Name)
	assert.Equal(t, "UML", categories[1].Name)

	resp = webtest.Do(t, app, http.MethodGet, "/playlists/playlist/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
