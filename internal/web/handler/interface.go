package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
)

// Service is the interface for a public web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB)
}

// AdminService is the interface for a back-office handler service.
type AdminService interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, tokens *csrf.Manager)
}
