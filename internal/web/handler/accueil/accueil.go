// Package accueil serves the home page and the terms of use.
package accueil

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/formation"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
)

const (
	// Path is the home page.
	Path = handler.RootPath

	// CGUPath is the terms of use page.
	CGUPath = handler.RootPath + "cgu"

	// TemplateName is the home page template.
	TemplateName = "pages/accueil"

	// TemplateCGU is the terms of use template.
	TemplateCGU = "pages/cgu"

	// LatestCount is the number of formations shown on the home page.
	LatestCount = 2
)

// Service is the home page handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the home page handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)
	app.Get(CGUPath, s.CGU)
}

// Get renders the latest published formations.
func (s *Service) Get(c *fiber.Ctx) error {
	latest, err := formation.Latest(c.UserContext(), s.db, LatestCount)
	if err != nil {
		return err //nolint:wrapcheck
	}

	nav := navigation.NewContext("Accueil", navigation.SectionPublic, "accueil")

	return handler.Render(c, TemplateName, nav, fiber.Map{
		"Formations": latest,
		"Title":      s.cfg.Title,
	})
}

// CGU renders the terms of use.
func (s *Service) CGU(c *fiber.Ctx) error {
	nav := navigation.Public("Conditions générales d'utilisation", "cgu").
		AddBreadcrumb("CGU", CGUPath, true)

	return handler.Render(c, TemplateCGU, nav, fiber.Map{
		"Title": s.cfg.Title,
		"URL":   s.cfg.Webserver.URL,
	})
}
