package formation_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/db/dbtest"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
	admin "github.com/mediatekformation/mediatekformation/internal/web/handler/admin/formation"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
	"github.com/mediatekformation/mediatekformation/internal/web/validation"
	"github.com/mediatekformation/mediatekformation/internal/web/webtest"
)

type env struct {
	app    *fiber.App
	views  *webtest.RecordingViews
	db     *gorm.DB
	fx     dbtest.Fixture
	tokens *csrf.Manager
	cookie *http.Cookie
}

func setup(t *testing.T) *env {
	t.Helper()

	db := dbtest.Open(t)
	fx := dbtest.Seed(t, db)
	webtest.InitSessions(t)

	cfg := webtest.Config()
	views := &webtest.RecordingViews{}
	app := webtest.NewApp(views)
	tokens := csrf.New(cfg.Webserver.AppSecret)

	svc := admin.Service{}
	svc.Init(app, cfg, db, auth.NewService(db), tokens)

	return &env{
		app:    app,
		views:  views,
		db:     db,
		fx:     fx,
		tokens: tokens,
		cookie: webtest.LoginAs(t, db, "admin@test.fr", models.RoleAdmin),
	}
}

func count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Formation{}).Count(&n).Error)

	return n
}

func TestAccess(t *testing.T) {
	e := setup(t)

	resp := webtest.Do(t, e.app, http.MethodGet, admin.Path, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	visitor := webtest.LoginAs(t, e.db, "visitor@test.fr")
	resp = webtest.Do(t, e.app, http.MethodGet, admin.Path, nil, visitor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = webtest.Do(t, e.app, http.MethodGet, admin.Path, nil, e.cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, admin.TemplateList, webtest.Body(t, resp))

	_, data := e.views.Last()
	assert.Len(t, data["Formations"], 4)

	token, ok := data["DeleteToken"].(func(uint) string)
	require.True(t, ok)
	assert.Equal(t, e.tokens.Token(e.cookie.Value, "formation_delete_1"), token(1))
}

func TestCreate(t *testing.T) {
	validation.Now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { validation.Now = time.Now })

	e := setup(t)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantErrors []string
		wantCount  int64
	}{
		{
			name:       "blank title",
			form:       url.Values{"title": {"   "}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: []string{"title"},
			wantCount:  4,
		},
		{
			name:       "date in the future",
			form:       url.Values{"title": {"Demain"}, "published_at": {"2024-03-16"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: []string{"published_at"},
			wantCount:  4,
		},
		{
			name: "unknown categorie",
			form: url.Values{
				"title": {"Orpheline"}, "categorie_ids": {"1", "99"},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: []string{"categorie_ids"},
			wantCount:  4,
		},
		{
			name: "valid",
			form: url.Values{
				"title":         {"Go : les goroutines"},
				"description":   {"Concurrence"},
				"video_id":      {"f6kdp27TYZs"},
				"published_at":  {"2024-03-15"},
				"playlist_id":   {"3"},
				"categorie_ids": {"1", "2"},
			},
			wantStatus: http.StatusSeeOther,
			wantCount:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.Do(t, e.app, http.MethodPost, admin.Path, tt.form, e.cookie)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCount, count(t, e.db))

			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, admin.Path, resp.Header.Get(fiber.HeaderLocation))
				return
			}

			_, data := e.views.Last()
			errs, ok := data["Errors"].(validation.FieldErrors)
			require.True(t, ok)

			for _, field := range tt.wantErrors {
				assert.Contains(t, errs, field)
			}
		})
	}

	var created models.Formation
	require.NoError(t, e.db.Preload("Categories").Where("title = ?", "Go : les goroutines").First(&created).Error)
	require.NotNil(t, created.PlaylistID)
	assert.Equal(t, e.fx.Misc.ID, *created.PlaylistID)
	assert.Equal(t, "15/03/2024", created.PublishedAtString())
	assert.ElementsMatch(t, []string{"Java", "UML"}, created.CategorieNames())

	flashes := webtest.Flashes(t, e.cookie)
	require.NotEmpty(t, flashes)
	assert.Equal(t, session.FlashSuccess, flashes[len(flashes)-1].Kind)
}

func TestEditAndUpdate(t *testing.T) {
	e := setup(t)

	resp := webtest.Do(t, e.app, http.MethodGet, admin.Path+"/3/edit", nil, e.cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data := e.views.Last()
	assert.Equal(t, admin.Path+"/3", data["Action"])
	assert.Equal(t, false, data["IsCreate"])

	resp = webtest.Do(t, e.app, http.MethodGet, admin.Path+"/99/edit", nil, e.cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = webtest.Do(t, e.app, http.MethodPost, admin.Path+"/3", url.Values{
		"title":         {"Java : les bases (2e édition)"},
		"published_at":  {"2019-11-20"},
		"categorie_ids": {"3"},
	}, e.cookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var updated models.Formation
	require.NoError(t, e.db.Preload("Categories").First(&updated, 3).Error)
	assert.Equal(t, "Java : les bases (2e édition)", updated.Title)
	assert.Nil(t, updated.PlaylistID)
	assert.Equal(t, []string{"Python"}, updated.CategorieNames())
}

func TestDelete(t *testing.T) {
	e := setup(t)

	resp := webtest.Do(t, e.app, http.MethodPost, admin.Path+"/99/delete",
		url.Values{csrf.FieldName: {"x"}}, e.cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = webtest.Do(t, e.app, http.MethodPost, admin.Path+"/1/delete",
		url.Values{csrf.FieldName: {"forged"}}, e.cookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, int64(4), count(t, e.db))

	flashes := webtest.Flashes(t, e.cookie)
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashError, flashes[0].Kind)

	token := e.tokens.Token(e.cookie.Value, csrf.DeleteIntent(admin.Kind, 1))
	resp = webtest.Do(t, e.app, http.MethodPost, admin.Path+"/1/delete",
		url.Values{csrf.FieldName: {token}}, e.cookie)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, int64(3), count(t, e.db))

	var links int64
	require.NoError(t, e.db.Table("formation_categories").Where("formation_id = ?", 1).Count(&links).Error)
	assert.Zero(t, links)
}
