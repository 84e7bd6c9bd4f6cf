// Package login provides the back-office login page.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/metrics"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/middleware/ratelimit"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
	"github.com/mediatekformation/mediatekformation/internal/web/validation"
)

const (
	// Path is the path to the login page.
	Path = handler.RootPath + "login"

	// TemplateName is the login template.
	TemplateName = "login"

	// RedirectPath is where a successful login lands.
	RedirectPath = handler.AdminPath
)

type form struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. Posts are rate limited per client ip.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)

	limiter := ratelimit.New(ratelimit.Config{
		Rate:         cfg.Webserver.LoginRate,
		Burst:        cfg.Webserver.LoginBurst,
		LimitReached: s.limitReached,
	})

	app.Get(Path, s.Get)
	app.Post(Path, limiter, s.Post)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", "")
}

// Post checks the credentials and opens a session.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(form)
	if err := c.BodyParser(in); err != nil {
		return s.render(c.Status(fiber.StatusBadRequest), "", MsgInvalidFormData)
	}

	if errs := validation.Struct(in); errs != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return s.render(c.Status(fiber.StatusUnprocessableEntity), in.Email, MsgInvalidFormData)
	}

	user, err := s.provider.Authenticate(c.UserContext(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			log.Info().Str("email", in.Email).Str("ip", c.IP()).Msg("login failed")

			return s.render(c.Status(fiber.StatusUnauthorized), in.Email, MsgInvalidCredentials)
		}

		log.Error().Err(err).Msg("failed to authenticate")

		return s.render(c.Status(fiber.StatusInternalServerError), in.Email, MsgInternalServerError)
	}

	// never reuse a session id from before the login
	if err = session.Destroy(c.Cookies(session.CookieName)); err != nil {
		log.Warn().Err(err).Msg("failed to drop previous session")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.render(c.Status(fiber.StatusInternalServerError), in.Email, MsgInternalServerError)
	}

	userSession := &session.Data{User: *user}
	userSession.AddFlash(session.FlashSuccess, "Vous êtes connecté.")

	if err = userSession.Write(sessionID); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c.Status(fiber.StatusInternalServerError), in.Email, MsgInternalServerError)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(session.Expiry().Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info().Uint64("user_id", user.ID).Msg("user logged in")

	return c.Redirect(RedirectPath, fiber.StatusSeeOther)
}

func (s *Service) limitReached(c *fiber.Ctx) error {
	metrics.LoginAttempts.WithLabelValues("throttled").Inc()

	return s.render(c.Status(fiber.StatusTooManyRequests), c.FormValue("email"), MsgTooManyAttempts)
}

func (s *Service) render(c *fiber.Ctx, email, message string) error {
	nav := navigation.Public("Connexion", "login").
		AddBreadcrumb("Connexion", Path, true)

	return handler.Render(c, TemplateName, nav, fiber.Map{
		"Email": email,
		"Error": message,
	})
}
