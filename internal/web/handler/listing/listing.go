// Package listing runs the sortable and searchable listings shared by the
// public pages and the back-office.
package listing

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/db/query"
)

// MsgRejected is shown for a sort or search on a field that is not offered.
const MsgRejected = "Paramètres de recherche ou de tri invalides."

// Lister loads the records selected by p.
type Lister[T any] func(ctx context.Context, db *gorm.DB, p query.Params) ([]T, error)

// Args collects the query string and, for POST requests, the form body.
// Body values win.
func Args(c *fiber.Ctx) map[string]string {
	args := c.Queries()

	if c.Method() == fiber.MethodPost {
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			args[string(key)] = string(value)
		})
	}

	return args
}

// Load resolves the listing parameters of the request and runs lister.
// A rejected field or value becomes a 400 error.
func Load[T any](c *fiber.Ctx, db *gorm.DB, lister Lister[T]) ([]T, query.Params, error) {
	p := query.Resolve(Args(c))

	list, err := lister(c.UserContext(), db, p)
	if err != nil {
		if query.IsRejected(err) {
			log.Debug().Err(err).Str("path", c.Path()).Str("mode", p.Mode.String()).Msg("listing rejected")
			return nil, p, fiber.NewError(fiber.StatusBadRequest, MsgRejected)
		}

		return nil, p, err
	}

	return list, p, nil
}

// Data exposes p to the templates so forms and sort links keep their state.
func Data(p query.Params) fiber.Map {
	return fiber.Map{
		"Recherche": p.Value,
		"Champ":     p.Field,
		"Table":     p.Table,
		"Ordre":     string(p.Direction),
		"Searching": p.Mode == query.ModeSearch,
	}
}
