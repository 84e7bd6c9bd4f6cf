// Package playlists serves the public playlist pages.
package playlists

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/categorie"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/formation"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/playlist"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/listing"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
)

const (
	// Path is the playlist listing.
	Path = handler.RootPath + "playlists"

	// DetailPath shows one playlist.
	DetailPath = Path + "/playlist/:id"

	// TemplateName is the listing template.
	TemplateName = "pages/playlists"

	// TemplateDetail is the detail template.
	TemplateDetail = "pages/playlist"
)

// Service is the public playlist handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public playlist handler.
var Handler = Service{}

// Init registers the routes. Search forms post to the listing.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.List)
	app.Post(Path, s.List)
	app.Get(DetailPath, s.Detail)
	app.Post(DetailPath, s.Detail)
}

// List renders the playlists with their formation count and categories.
func (s *Service) List(c *fiber.Ctx) error {
	list, p, err := listing.Load(c, s.db, playlist.List)
	if err != nil {
		return err
	}

	categories, err := categorie.ListByName(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	data := listing.Data(p)
	data["Playlists"] = list
	data["Categories"] = categories
	data["BasePath"] = Path

	nav := navigation.Public("Playlists", "playlists").
		AddBreadcrumb("Playlists", Path, true)

	return handler.Render(c, TemplateName, nav, data)
}

// Detail renders a playlist, its formations oldest first and its categories.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	p, err := playlist.Get(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, playlist.ErrNotFound) {
			return fiber.ErrNotFound
		}

		return err //nolint:wrapcheck
	}

	formations, err := formation.ListByPlaylist(ctx, s.db, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	categories, err := playlist.Categories(ctx, s.db, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	nav := navigation.Public(p.Name, "playlists").
		AddBreadcrumb("Playlists", Path, false).
		AddBreadcrumb(p.Name, c.Path(), true)

	return handler.Render(c, TemplateDetail, nav, fiber.Map{
		"Playlist":   p,
		"Formations": formations,
		"Categories": categories,
	})
}
