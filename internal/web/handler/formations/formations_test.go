package formations_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediatekformation/mediatekformation/internal/db/dbtest"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/formations"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/listing"
	"github.com/mediatekformation/mediatekformation/internal/web/webtest"
)

func titles(t *testing.T, views *webtest.RecordingViews) []string {
	t.Helper()

	_, data := views.Last()
	list, ok := data["Formations"].([]models.Formation)
	require.True(t, ok)

	out := make([]string, 0, len(list))
	for i := range list {
		out = append(out, list[i].Title)
	}

	return out
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)
	webtest.InitSessions(t)

	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)

	svc := formations.Service{}
	svc.Init(app, webtest.Config(), db)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{
			name:   "default",
			target: "/formations",
			want: []string{
				"Eclipse n°1 : installation", "UML : diagramme de classes",
				"Java : les bases", "Python pour débutants",
			},
		},
		{
			name:   "sorted by date ascending",
			target: "/formations?champ=publishedAt&ordre=ASC",
			want: []string{
				"Java : les bases", "Eclipse n°1 : installation",
				"UML : diagramme de classes", "Python pour débutants",
			},
		},
		{
			name:   "sorted by playlist name",
			target: "/formations?champ=name&ordre=ASC&table=playlist",
			want: []string{
				"UML : diagramme de classes", "Eclipse n°1 : installation",
				"Java : les bases", "Python pour débutants",
			},
		},
		{
			name:   "search wins over sort",
			target: "/formations?champ=title&ordre=ASC&recherche=Eclipse",
			want:   []string{"Eclipse n°1 : installation"},
		},
		{
			name:   "search in categorie",
			target: "/formations?recherche=UML&champ=name&table=categories",
			want:   []string{"UML : diagramme de classes", "Java : les bases"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, app, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, formations.TemplateName, webtest.Body(t, resp))
			assert.Equal(t, tt.want, titles(t, views))
		})
	}
}

func TestList_KeepsParamsAndCategories(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)
	webtest.InitSessions(t)

	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)

	svc := formations.Service{}
	svc.Init(app, webtest.Config(), db)

	resp := webtest.Do(t, app, http.MethodGet, "/formations?recherche=java&champ=title", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data := views.Last()
	assert.Equal(t, "java", data["Recherche"])
	assert.Equal(t, "title", data["Champ"])
	assert.Equal(t, true, data["Searching"])

	categories, ok := data["Categories"].([]models.Categorie)
	require.True(t, ok)
	assert.Len(t, categories, 3)
	assert.Equal(t, "Java", categories[0].Name)
}

func TestList_RejectsUnknownField(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Seed(t, db)
	webtest.InitSessions(t)

	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)

	svc := formations.Service{}
	svc.Init(app, webtest.Config(), db)

	resp := webtest.Do(t, app, http.MethodGet, "/formations?champ=password&ordre=ASC", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, handler.TemplateError, webtest.Body(t, resp))

	_, data := views.Last()
	assert.Equal(t, listing.MsgRejected, data["Message"])
}

func TestDetail(t *testing.T) {
	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	webtest.InitSessions(t)

	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)

	svc := formations.Service{}
	svc.Init(app, webtest.Config(), db)

	resp := webtest.Do(t, app, http.MethodGet, "/formations/formation/3", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, formations.TemplateDetail, webtest.Body(t, resp))

	_, data := views.Last()
	f, ok := data["Formation"].(*models.Formation)
	require.True(t, ok)
	assert.Equal(t, fx.Formations[2].ID, f.ID)
	require.NotNil(t, f.Playlist)
	assert.Equal(t, "Eclipse et Java", f.Playlist.Name)
	assert.Equal(t, []string{"Java", "UML"}, f.CategorieNames())

	for _, target := range []string{"/formations/formation/99", "/formations/formation/abc"} {
		resp = webtest.Do(t, app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
	}
}
