// Package formation provides the back-office pages managing formations.
package formation

import (
	"errors"
	"fmt"
	"strconv"

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
	// Path is the base path for formation management.
	Path = handler.AdminPath + "/formations"

	// TemplateList is the template for listing formations.
	TemplateList = "admin/formation/list"
	// TemplateForm is the template for creating/updating a formation.
	TemplateForm = "admin/formation/form"

	// Kind names formations in delete tokens and metrics.
	Kind = "formation"

	navPage = "formations"
)

// Service provides CRUD operations for formations.
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

	guard := auth.RequirePermission(authService, auth.PermFormationManage)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

// List shows the formations with the public sort and search controls.
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
	data["DeleteToken"] = handler.DeleteTokens(c, s.tokens, Kind)
	data["TokenField"] = csrf.FieldName

	nav := navigation.Admin("Gestion des formations", navPage).
		AddBreadcrumb("Formations", Path, true)

	return handler.Render(c, TemplateList, nav, data)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, 0, &form{}, nil)
}

// Create creates a formation.
func (s *Service) Create(c *fiber.Ctx) error {
	in, errs, err := s.parse(c)
	if err != nil {
		return err
	}

	if errs != nil {
		return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), 0, in, errs)
	}

	created, err := formation.Create(c.UserContext(), s.db, in.input())
	if err != nil {
		if errs = relationErrors(err); errs != nil {
			return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), 0, in, errs)
		}

		return err //nolint:wrapcheck
	}

	metrics.AdminWrites.WithLabelValues(Kind, "create").Inc()
	log.Info().Uint("formation_id", created.ID).Msg("formation created")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La formation \"%s\" a été ajoutée.", created.Title), Path)
}

// Edit shows the edit form for a formation.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	f, err := formation.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	return s.renderForm(c, id, fromModel(f), nil)
}

// Update replaces the fields and relations of a formation.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	if _, err = formation.Get(c.UserContext(), s.db, id); err != nil {
		return notFound(err)
	}

	in, errs, err := s.parse(c)
	if err != nil {
		return err
	}

	if errs != nil {
		return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), id, in, errs)
	}

	updated, err := formation.Update(c.UserContext(), s.db, id, in.input())
	if err != nil {
		if errs = relationErrors(err); errs != nil {
			return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), id, in, errs)
		}

		return notFound(err)
	}

	metrics.AdminWrites.WithLabelValues(Kind, "update").Inc()
	log.Info().Uint("formation_id", id).Msg("formation updated")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La formation \"%s\" a été modifiée.", updated.Title), Path)
}

// Delete removes a formation after checking the anti-forgery token.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	f, err := formation.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	if !handler.ValidDeleteToken(c, s.tokens, Kind, id) {
		log.Warn().Uint("formation_id", id).Msg("formation delete with invalid token")
		return handler.FlashRedirect(c, session.FlashError, "Jeton de sécurité invalide, suppression annulée.", Path)
	}

	if err = formation.Delete(c.UserContext(), s.db, id); err != nil {
		return notFound(err)
	}

	metrics.AdminWrites.WithLabelValues(Kind, "delete").Inc()
	log.Info().Uint("formation_id", id).Msg("formation deleted")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La formation \"%s\" a été supprimée.", f.Title), Path)
}

func (s *Service) parse(c *fiber.Ctx) (*form, validation.FieldErrors, error) {
	in := new(form)
	if err := c.BodyParser(in); err != nil {
		log.Debug().Err(err).Msg("invalid formation form")
		return nil, nil, fiber.ErrBadRequest
	}

	in.normalize()

	return in, validation.Struct(in), nil
}

func (s *Service) renderForm(c *fiber.Ctx, id uint, in *form, errs validation.FieldErrors) error {
	ctx := c.UserContext()

	playlists, err := playlist.ListAll(ctx, s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	categories, err := categorie.ListByName(ctx, s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	title, action := "Nouvelle formation", Path
	if id != 0 {
		title, action = "Modifier la formation", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	nav := navigation.Admin(title, navPage).
		AddBreadcrumb("Formations", Path, false).
		AddBreadcrumb(title, c.Path(), true)

	return handler.Render(c, TemplateForm, nav, fiber.Map{
		"Form":       in,
		"Errors":     errs,
		"Action":     action,
		"IsCreate":   id == 0,
		"Playlists":  playlists,
		"Categories": categories,
		"MaxDate":    validation.Now().Format(models.DateInputLayout),
	})
}

func relationErrors(err error) validation.FieldErrors {
	switch {
	case errors.Is(err, formation.ErrUnknownPlaylist):
		return validation.FieldErrors{"playlist_id": "Cette playlist n'existe pas."}
	case errors.Is(err, formation.ErrUnknownCategorie):
		return validation.FieldErrors{"categorie_ids": "Une des catégories n'existe pas."}
	default:
		return nil
	}
}

func notFound(err error) error {
	if errors.Is(err, formation.ErrNotFound) {
		return fiber.ErrNotFound
	}

	return err
}
