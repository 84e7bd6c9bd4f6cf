package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediatekformation/mediatekformation/internal/db/dbtest"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

func TestRolePermissions(t *testing.T) {
	assert.Equal(t,
		[]string{PermCategorieManage, PermFormationManage, PermPlaylistManage},
		RolePermissions([]string{models.RoleAdmin, models.RoleAdmin}),
	)
	assert.Empty(t, RolePermissions([]string{"ROLE_USER"}))
	assert.Empty(t, RolePermissions(nil))
}

func TestLocalProvider(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	lp := NewLocalProvider(db)

	_, err := lp.UpsertUser(ctx, " ", "pw", nil)
	require.ErrorIs(t, err, ErrEmailEmpty)

	_, err = lp.UpsertUser(ctx, "a@b.fr", "", nil)
	require.ErrorIs(t, err, ErrPasswordEmpty)

	created, err := lp.UpsertUser(ctx, "admin@mediatekformation.fr", "admin", []string{models.RoleAdmin})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	user, err := lp.Authenticate(ctx, "admin@mediatekformation.fr", "admin")
	require.NoError(t, err)
	assert.True(t, user.HasRole(models.RoleAdmin))

	_, err = lp.Authenticate(ctx, "admin@mediatekformation.fr", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = lp.Authenticate(ctx, "nobody@mediatekformation.fr", "admin")
	require.ErrorIs(t, err, ErrUserNotFound)

	updated, err := lp.UpsertUser(ctx, "admin@mediatekformation.fr", "changed", nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	_, err = lp.Authenticate(ctx, "admin@mediatekformation.fr", "changed")
	require.NoError(t, err)

	n, err := lp.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestService_HasPermission(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	lp := NewLocalProvider(db)
	s := NewService(db)

	admin, err := lp.UpsertUser(ctx, "admin@mediatekformation.fr", "admin", []string{models.RoleAdmin})
	require.NoError(t, err)

	visitor, err := lp.UpsertUser(ctx, "visitor@mediatekformation.fr", "visitor", []string{"ROLE_USER"})
	require.NoError(t, err)

	ok, err := s.HasPermission(ctx, admin.ID, PermPlaylistManage)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasPermission(ctx, visitor.ID, PermPlaylistManage)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.HasAnyPermission(ctx, admin.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.HasPermission(ctx, 999, PermPlaylistManage)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequirePermission(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	lp := NewLocalProvider(db)
	session.Init(nil, time.Minute)

	admin, err := lp.UpsertUser(ctx, "admin@mediatekformation.fr", "admin", []string{models.RoleAdmin})
	require.NoError(t, err)

	visitor, err := lp.UpsertUser(ctx, "visitor@mediatekformation.fr", "visitor", nil)
	require.NoError(t, err)

	login := func(u *models.User) string {
		id, err := session.GenerateSessionID()
		require.NoError(t, err)
		require.NoError(t, (&session.Data{User: *u}).Write(id))

		return id
	}

	app := fiber.New()
	app.Get("/admin", RequirePermission(NewService(db), PermFormationManage), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/any", RequireAnyPermission(NewService(db), "report.read", PermCategorieManage), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/none", RequireAnyPermission(NewService(db), "report.read"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	testCases := []struct {
		name   string
		target string
		cookie string
		status int
	}{
		{name: "anonymous", target: "/admin", status: fiber.StatusUnauthorized},
		{name: "unknown session", target: "/admin", cookie: "nope", status: fiber.StatusUnauthorized},
		{name: "no role", target: "/admin", cookie: login(visitor), status: fiber.StatusForbidden},
		{name: "admin", target: "/admin", cookie: login(admin), status: fiber.StatusOK},
		{name: "any of, one granted", target: "/any", cookie: login(admin), status: fiber.StatusOK},
		{name: "any of, no role", target: "/any", cookie: login(visitor), status: fiber.StatusForbidden},
		{name: "any of, none granted", target: "/none", cookie: login(admin), status: fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tc.cookie})
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
