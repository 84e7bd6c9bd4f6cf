// Package categorie provides the back-office pages managing categories.
package categorie

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
	"github.com/mediatekformation/mediatekformation/internal/metrics"
	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/listing"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
	"github.com/mediatekformation/mediatekformation/internal/web/validation"
)

const (
	// Path is the base path for categorie management.
	Path = handler.AdminPath + "/categories"

	// TemplateList is the template for listing categories.
	TemplateList = "admin/categorie/list"
	// TemplateForm is the template for creating/renaming a categorie.
	TemplateForm = "admin/categorie/form"

	// Kind names categories in delete tokens and metrics.
	Kind = "categorie"

	navPage = "categories"

	msgDuplicate = "Cette catégorie existe déjà."
)

type form struct {
	Name string `form:"name" validate:"required,max=50"`
}

// Service provides CRUD operations for categories.
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

	guard := auth.RequirePermission(authService, auth.PermCategorieManage)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/new", guard, s.New)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id/edit", guard, s.Edit)
	app.Post(Path+"/:id", guard, s.Update)
	app.Post(Path+"/:id/delete", guard, s.Delete)
}

// List shows the categories with an inline creation form.
func (s *Service) List(c *fiber.Ctx) error {
	return s.renderList(c, &form{}, nil)
}

func (s *Service) renderList(c *fiber.Ctx, in *form, errs validation.FieldErrors) error {
	list, p, err := listing.Load(c, s.db, categorie.List)
	if err != nil {
		return err
	}

	data := listing.Data(p)
	data["Categories"] = list
	data["BasePath"] = Path
	data["Form"] = in
	data["Errors"] = errs
	data["DeleteToken"] = handler.DeleteTokens(c, s.tokens, Kind)
	data["TokenField"] = csrf.FieldName

	nav := navigation.Admin("Gestion des catégories", navPage).
		AddBreadcrumb("Catégories", Path, true)

	return handler.Render(c, TemplateList, nav, data)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, 0, &form{}, nil)
}

// Create adds a categorie with an unused name.
func (s *Service) Create(c *fiber.Ctx) error {
	in, errs, err := parse(c)
	if err != nil {
		return err
	}

	if errs == nil {
		created, err := categorie.Create(c.UserContext(), s.db, in.Name)

		switch {
		case err == nil:
			metrics.AdminWrites.WithLabelValues(Kind, "create").Inc()
			log.Info().Uint("categorie_id", created.ID).Msg("categorie created")

			return handler.FlashRedirect(c, session.FlashSuccess,
				fmt.Sprintf("La catégorie \"%s\" a été ajoutée.", created.Name), Path)
		case errors.Is(err, categorie.ErrDuplicateName), errors.Is(err, categorie.ErrNameEmpty):
			errs = nameError(err)
		default:
			return err //nolint:wrapcheck
		}
	}

	return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), 0, in, errs)
}

// Edit shows the rename form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	cat, err := categorie.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	return s.renderForm(c, id, &form{Name: cat.Name}, nil)
}

// Update renames a categorie.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	if _, err = categorie.Get(c.UserContext(), s.db, id); err != nil {
		return notFound(err)
	}

	in, errs, err := parse(c)
	if err != nil {
		return err
	}

	if errs == nil {
		renamed, err := categorie.Rename(c.UserContext(), s.db, id, in.Name)

		switch {
		case err == nil:
			metrics.AdminWrites.WithLabelValues(Kind, "update").Inc()
			log.Info().Uint("categorie_id", id).Msg("categorie renamed")

			return handler.FlashRedirect(c, session.FlashSuccess,
				fmt.Sprintf("La catégorie \"%s\" a été modifiée.", renamed.Name), Path)
		case errors.Is(err, categorie.ErrDuplicateName), errors.Is(err, categorie.ErrNameEmpty):
			errs = nameError(err)
		default:
			return notFound(err)
		}
	}

	return s.renderForm(c.Status(fiber.StatusUnprocessableEntity), id, in, errs)
}

// Delete removes an unused categorie after checking the anti-forgery token.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c)
	if err != nil {
		return err
	}

	cat, err := categorie.Get(c.UserContext(), s.db, id)
	if err != nil {
		return notFound(err)
	}

	if !handler.ValidDeleteToken(c, s.tokens, Kind, id) {
		log.Warn().Uint("categorie_id", id).Msg("categorie delete with invalid token")
		return handler.FlashRedirect(c, session.FlashError, "Jeton de sécurité invalide, suppression annulée.", Path)
	}

	if err = categorie.Delete(c.UserContext(), s.db, id); err != nil {
		if errors.Is(err, categorie.ErrInUse) {
			return handler.FlashRedirect(c, session.FlashError,
				fmt.Sprintf("La catégorie \"%s\" est utilisée par des formations, elle ne peut pas être supprimée.", cat.Name), Path)
		}

		return notFound(err)
	}

	metrics.AdminWrites.WithLabelValues(Kind, "delete").Inc()
	log.Info().Uint("categorie_id", id).Msg("categorie deleted")

	return handler.FlashRedirect(c, session.FlashSuccess,
		fmt.Sprintf("La catégorie \"%s\" a été supprimée.", cat.Name), Path)
}

func parse(c *fiber.Ctx) (*form, validation.FieldErrors, error) {
	in := new(form)
	if err := c.BodyParser(in); err != nil {
		log.Debug().Err(err).Msg("invalid categorie form")
		return nil, nil, fiber.ErrBadRequest
	}

	in.Name = strings.TrimSpace(in.Name)

	return in, validation.Struct(in), nil
}

func (s *Service) renderForm(c *fiber.Ctx, id uint, in *form, errs validation.FieldErrors) error {
	title, action := "Nouvelle catégorie", Path
	if id != 0 {
		title, action = "Renommer la catégorie", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	nav := navigation.Admin(title, navPage).
		AddBreadcrumb("Catégories", Path, false).
		AddBreadcrumb(title, c.Path(), true)

	return handler.Render(c, TemplateForm, nav, fiber.Map{
		"Form":     in,
		"Errors":   errs,
		"Action":   action,
		"IsCreate": id == 0,
	})
}

func nameError(err error) validation.FieldErrors {
	if errors.Is(err, categorie.ErrDuplicateName) {
		return validation.FieldErrors{"name": msgDuplicate}
	}

	return validation.FieldErrors{"name": "Ce champ est obligatoire."}
}

func notFound(err error) error {
	if errors.Is(err, categorie.ErrNotFound) {
		return fiber.ErrNotFound
	}

	return err
}
