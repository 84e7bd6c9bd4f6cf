// Package handler holds what the page handlers share: layout constants,
// rendering with navigation and notices, and the error page.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

var errorMessages = map[int]string{ //nolint:gochecknoglobals
	fiber.StatusBadRequest:          "La requête est invalide.",
	fiber.StatusUnauthorized:        "Vous devez être connecté pour accéder à cette page.",
	fiber.StatusForbidden:           "Vous n'avez pas accès à cette page.",
	fiber.StatusNotFound:            "La page demandée n'existe pas.",
	fiber.StatusTooManyRequests:     "Trop de requêtes, réessayez plus tard.",
	fiber.StatusInternalServerError: "Une erreur interne est survenue.",
}

// Render renders tpl in the base layout with the navigation and the pending
// notices of the session.
func Render(c *fiber.Ctx, tpl string, nav *navigation.Context, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav
	data["Flashes"] = session.PopFlashes(c)

	return c.Render(tpl, data, BaseLayout)
}

// FlashRedirect queues a notice and redirects to location.
func FlashRedirect(c *fiber.Ctx, kind, message, location string) error {
	if err := session.AddFlash(c, kind, message); err != nil {
		log.Warn().Err(err).Str("path", c.Path()).Msg("failed to queue flash notice")
	}

	return c.Redirect(location, fiber.StatusSeeOther)
}

// ParamID reads the :id route parameter. Anything but a positive integer
// is a missing page.
func ParamID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}

	return uint(id), nil
}

// DeleteTokens returns a template func giving the delete token of a record
// of kind for the current session.
func DeleteTokens(c *fiber.Ctx, tokens *csrf.Manager, kind string) func(uint) string {
	sessionID := c.Cookies(session.CookieName)

	return func(id uint) string {
		return tokens.Token(sessionID, csrf.DeleteIntent(kind, id))
	}
}

// ValidDeleteToken checks the token posted to delete record id of kind.
func ValidDeleteToken(c *fiber.Ctx, tokens *csrf.Manager, kind string, id uint) bool {
	return tokens.Valid(c.Cookies(session.CookieName), csrf.DeleteIntent(kind, id), c.FormValue(csrf.FieldName))
}

// ErrorHandler renders every error returned by a handler as the error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	message := errorMessages[code]
	if fe != nil && fe.Message != "" && fe.Message != utils.StatusMessage(code) {
		message = fe.Message
	}

	if message == "" {
		message = utils.StatusMessage(code)
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	c.Status(code)

	if renderErr := c.Render(TemplateError, fiber.Map{
		"Navigation": navigation.Public("Erreur", "error"),
		"Status":     code,
		"Message":    message,
	}, BaseLayout); renderErr != nil {
		log.Error().Err(renderErr).Msg("failed to render error page")

		return c.Status(code).SendString(message)
	}

	return nil
}
