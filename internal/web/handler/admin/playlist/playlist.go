// Package playlist provides the back-office pages managing playlists.
package playlist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/categorie"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/formation"
	"github.com/mediatekformation/mediatekformation/internal/db/controller/playlist"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/metrics"
	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/listing"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
	"github.com/mediatekformation/mediatekformation/internal/web/validation"
)

const (
	// Path is the base path for playlist management.
	Path = handler.AdminPath + "/playlists"

	// TemplateList is the template for listing playlists.
	TemplateList = "admin/playlist/list"
	// TemplateForm is the template for creating/updating a playlist.
	TemplateForm = "admin/playlist/form"

	// Kind names playlists in delete tokens and metrics.
	Kind = "playlist"

	navPage = "playlists"
)

type form struct {
	Name        string `form:"name"        validate:"required,max=100"`
	Description string `form:"description"`
}

// Service provides CRUD operations for playlists.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	tokens *csrf.Manager
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, tokens *csrf.Manager) {
	if app == nil || cfg == nil || db == nil || authService == nil || tokens == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.tokens = tokens

	guard := auth.RequirePermission(authService, auth.PermPlaylistManage)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

// List shows the playlists with their formation count.
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
	data["DeleteToken"] = handler.DeleteTokens(c, s.tokens, Kind)
	data["TokenField"] = csrf.FieldName

	nav := navigation.Admin("Gestion des playlists", navPage).
		AddBreadcrumb("Playlists", Path, true)

	return handler.Render(c, TemplateList, nav, data)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, 0, &form{}, nil)
}

// Create creates a playlist.
func (s *Service) Create(c *fiber.Ctx) error {
	in, errs, err := parse(c)
	if err != nil {
		return err
	}

	if errs != nil {
		return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), 0, in, errs)
	}

	created, err := playlist.Create(c.UserContext(), s.db, playlist.Input{Name: in.Name, Description: in.Description})
	if err != nil {
		return err //nolint:wrapcheck
	}

	metrics.AdminWrites.WithLabelValues(Kind, "create").Inc()
	log.Info().Uint("playlist_id", created.ID).Msg("playlist created")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La playlist \"%s\" a été ajoutée.", created.Name), Path)
}

// Edit shows the edit form with the formations of the playlist.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	p, err := playlist.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	return s.renderForm(c, id, &form{Name: p.Name, Description: p.Description}, nil)
}

// Update replaces the fields of a playlist.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	if _, err = playlist.Get(c.UserContext(), s.db, id); err != nil {
		return notFound(err)
	}

	in, errs, err := parse(c)
	if err != nil {
		return err
	}

	if errs != nil {
		return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), id, in, errs)
	}

	updated, err := playlist.Update(c.UserContext(), s.db, id, playlist.Input{Name: in.Name, Description: in.Description})
	if err != nil {
		return notFound(err)
	}

	metrics.AdminWrites.WithLabelValues(Kind, "update").Inc()
	log.Info().Uint("playlist_id", id).Msg("playlist updated")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La playlist \"%s\" a été modifiée.", updated.Name), Path)
}

// Delete removes an empty playlist after checking the anti-forgery token.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	p, err := playlist.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	if !handler.ValidDeleteToken(c, s.tokens, Kind, id) {
		log.Warn().Uint("playlist_id", id).Msg("playlist delete with invalid token")
		return handler.FlashRedirect(c, session.FlashError, "Jeton de sécurité invalide, suppression annulée.", Path)
	}

	if err = playlist.Delete(c.UserContext(), s.db, id); err != nil {
		if errors.Is(err, playlist.ErrHasFormations) {
			return handler.FlashRedirect(c, session.FlashError,
				fmt.Sprintf("La playlist \"%s\" contient des formations, elle ne peut pas être supprimée.", p.Name), Path)
		}

		return notFound(err)
	}

	metrics.AdminWrites.WithLabelValues(Kind, "delete").Inc()
	log.Info().Uint("playlist_id", id).Msg("playlist deleted")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La playlist \"%s\" a été supprimée.", p.Name), Path)
}

func parse(c *fiber.Ctx) (*form, validation.FieldErrors, error) {
	in := new(form)
	if err := c.BodyParser(in); err != nil {
		log.Debug().Err(err).Msg("invalid playlist form")
		return nil, nil, fiber.ErrBadRequest
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	return in, validation.Struct(in), nil
}

func (s *Service) renderForm(c *fiber.Ctx, id uint, in *form, errs validation.FieldErrors) error {
	title, action := "Nouvelle playlist", Path

	var formations []models.Formation

	if id != 0 {
		title, action = "Modifier la playlist", Path+"/"+strconv.FormatUint(uint64(id), 10)

		var err error
		if formations, err = formation.ListByPlaylist(c.UserContext(), s.db, id); err != nil {
			return err //nolint:wrapcheck
		}
	}

	nav := navigation.Admin(title, navPage).
		AddBreadcrumb("Playlists", Path, false).
		AddBreadcrumb(title, c.Path(), true)

	return handler.Render(c, TemplateForm, nav, fiber.Map{
		"Form":       in,
		"Errors":     errs,
		"Action":     action,
		"IsCreate":   id == 0,
		"Formations": formations,
	})
}

func notFound(err error) error {
	if errors.Is(err, playlist.ErrNotFound) {
		return fiber.ErrNotFound
	}

	return err
}
