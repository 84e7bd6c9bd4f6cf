// Package formations serves the public formation catalog.
package formations

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/categorie"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/formation"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/listing"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
)

const (
	// Path is the formation listing.
	Path = handler.RootPath + "formations"

	// DetailPath shows one formation.
	DetailPath = Path + "/formation/:id"

	// TemplateName is the listing template.
	TemplateName = "pages/formations"

	// TemplateDetail is the detail template.
	TemplateDetail = "pages/formation"
)

// Service is the public formation handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public formation handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.List)
	app.Get(DetailPath, s.Detail)
}

// List renders the formations sorted or filtered by the request parameters.
func (s *Service) List(c *fiber.Ctx) error {
	list, p, err := listing.Load(c, s.db, formation.List)
	if err != nil {
		return err
	}

	categories, err := categorie.ListByName(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	data := listing.Data(p)
	data["Formations"] = list
	data["Categories"] = categories
	data["BasePath"] = Path

	nav := navigation.Public("Formations", "formations").
		AddBreadcrumb("Formations", Path, true)

	return handler.Render(c, TemplateName, nav, data)
}

// Detail renders one formation with its player and description.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	f, err := formation.Get(c.UserContext(), s.db, id)
	if err != nil {
		if errors.Is(err, formation.ErrNotFound) {
			return fiber.ErrNotFound
		}

		return err //nolint:wrapcheck
	}

	nav := navigation.Public(f.Title, "formations").
		AddBreadcrumb("Formations", Path, false).
		AddBreadcrumb(f.Title, c.Path(), true)

	return handler.Render(c, TemplateDetail, nav, fiber.Map{
		"Formation": f,
	})
}
