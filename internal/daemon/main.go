// Package daemon wires the database, the session store and the web service.
package daemon

import (
	"context"
	"net"
	"strconv"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mediatekformation/mediatekformation/internal/config"
	"github.com/mediatekformation/mediatekformation/internal/db/dsn"
	"github.com/mediatekformation/mediatekformation/internal/db/models"
	"github.com/mediatekformation/mediatekformation/internal/web"
	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	addr := net.JoinHostPort(d.cfg.Webserver.ListenAddress, strconv.Itoa(d.cfg.Webserver.Port))

	log.Info().Str("addr", addr).Str("engine", d.cfg.DB.GormEngine).Msg("starting web service")

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}

// New opens and migrates the database, seeds the first admin account and
// builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = models.AutoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	ctx := context.Background()

	if err = seedAdmin(ctx, cfg, db); err != nil {
		return nil, err
	}

	if cfg.Webserver.AppSecret == "" {
		if cfg.Webserver.AppSecret, err = loadAppSecret(ctx, db); err != nil {
			return nil, err
		}
	}

	sessionStorage, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage, cfg.Webserver.Session.ExpiryTime)

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db),
	}, nil
}

// OpenDB connects to the configured engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(source)
	case config.EngineSQLite:
		dialector = sqlite.Open(source)
	default:
		dialector = gormmysql.Open(source)
	}

	logLevel := gormlogger.Silent
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", cfg.DB.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database pool")
	}

	switch {
	case cfg.DB.GormEngine == config.EngineSQLite:
		// one writer, and ":memory:" is private to its connection
		sqlDB.SetMaxOpenConns(1)
	case cfg.DB.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	return db, nil
}

// newSessionStorage returns the session table of the configured engine.
// Sessions of the sqlite engine live in memory.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineSQLite:
		return nil, nil //nolint:nilnil
	case config.EnginePostgres:
		uri, err := dsn.Postgres(cfg.DB)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: uri,
			Table:         sessionTable,
		}), nil
	default:
		uri, err := dsn.MySQL(cfg.DB)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: uri,
			Table:         sessionTable,
		}), nil
	}
}
