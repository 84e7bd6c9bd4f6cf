// Package webtest builds fiber apps, sessions and requests for handler tests.
package webtest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

// RecordingViews is a fiber view engine writing the template name and
// keeping the data of the last render.
type RecordingViews struct {
	mu   sync.Mutex
	name string
	data fiber.Map
}

// Load implements fiber.Views.
func (v *RecordingViews) Load() error { return nil }

// Render implements fiber.Views.
func (v *RecordingViews) Render(w io.Writer, name string, data any, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	v.data, _ = data.(fiber.Map)

	_, err := io.WriteString(w, name)

	return err //nolint:wrapcheck
}

// Last returns the template name and data of the last render.
func (v *RecordingViews) Last() (string, fiber.Map) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.name, v.data
}

// Config returns a configuration fit for handler tests.
func Config() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "MediaTek Formation",
		Webserver: config.Webserver{
			URL:        "http://localhost",
			Port:       3000,
			AppSecret:  "test-secret",
			Session:    config.Session{ExpiryTime: time.Minute},
			LoginRate:  100,
			LoginBurst: 100,
		},
	}
}

// NewApp returns a fiber app rendering with views and the error page handler.
func NewApp(views fiber.Views) *fiber.App {
	return fiber.New(fiber.Config{
		Views:             views,
		ErrorHandler:      handler.ErrorHandler,
		PassLocalsToViews: true,
	})
}

// InitSessions keeps sessions in memory for the test.
func InitSessions(t *testing.T) {
	t.Helper()

	session.Init(nil, time.Minute)
}

// LoginAs creates a user with roles and an open session for it. The
// returned cookie authenticates requests.
func LoginAs(t *testing.T, db *gorm.DB, email string, roles ...string) *http.Cookie {
	t.Helper()

	user, err := auth.NewLocalProvider(db).UpsertUser(context.Background(), email, "secret", roles)
	require.NoError(t, err)

	id, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: *user}
	require.NoError(t, data.Write(id))

	return &http.Cookie{Name: session.CookieName, Value: id}
}

// Do sends a request to app. A non-nil form is posted url-encoded.
func Do(t *testing.T, app *fiber.App, method, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

// Body reads and closes the body of resp.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(out)
}

// Flashes reads the pending notices of the session behind cookie.
func Flashes(t *testing.T, cookie *http.Cookie) []session.Flash {
	t.Helper()

	data := new(session.Data)
	require.NoError(t, data.Read(cookie.Value))

	return data.Flashes
}
