package config

import (
	"time"

	"github.com/mediatekformation/mediatekformation/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Admin     Admin
	Metrics   Metrics
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	ListenAddress  string  // interface to bind, empty means all
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	AppSecret      string  // key for anti-forgery tokens, generated and stored in db when empty
	Session        Session // session settings
	LoginRate      float64 // login attempts per second and client ip
	LoginBurst     int
}

// Admin holds the account seeded into an empty users table.
type Admin struct {
	Email    string
	Password string
}

// Metrics settings.
type Metrics struct {
	Enabled bool
	Path    string
}
