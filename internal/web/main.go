package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/auth"
	"github.com/mediatekformation/mediatekformation/internal/config"
	fiberlog "github.com/mediatekformation/mediatekformation/internal/logger/adapter/fiber"
	"github.com/mediatekformation/mediatekformation/internal/web/csrf"
	"github.com/mediatekformation/mediatekformation/internal/web/handler"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/accueil"
	admincategorie "github.com/mediatekformation/mediatekformation/internal/web/handler/admin/categorie"
	adminformation "github.com/mediatekformation/mediatekformation/internal/web/handler/admin/formation"
	adminplaylist "github.com/mediatekformation/mediatekformation/internal/web/handler/admin/playlist"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/formations"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/login"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/logout"
	"github.com/mediatekformation/mediatekformation/internal/web/handler/playlists"
	"github.com/mediatekformation/mediatekformation/internal/web/markup"
	authmiddleware "github.com/mediatekformation/mediatekformation/internal/web/middleware/auth"
	"github.com/mediatekformation/mediatekformation/internal/web/navigation"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
// Sessions must be initialized and cfg.Webserver.AppSecret set.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if cfg.Webserver.AppSecret == "" {
		panic("app secret cannot be empty")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           "MediaTek Formation",
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             newTemplateEngine(cfg),
			PassLocalsToViews: true,
			ErrorHandler:      handler.ErrorHandler,
			JSONEncoder:       json.Marshal,
			JSONDecoder:       json.Unmarshal,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  auth.NewService(db),
		fastShutDown: cfg.DevMode,
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: fiberlog.ConfigDefault.RequestIDKey,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Next: func(c *fiber.Ctx) bool {
			return cfg.Metrics.Enabled && c.Path() == cfg.Metrics.Path
		},
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.Alive() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("AppTitle", cfg.Title)
		return c.Next()
	})

	app.Use(authmiddleware.Middleware)

	// Add permissions to fiber.Locals middleware (after auth)
	app.Use(auth.AddPermissionsToLocals(service.authService))

	tokens := csrf.New(cfg.Webserver.AppSecret)

	// public pages
	accueil.Handler.Init(app, cfg, db)
	formations.Handler.Init(app, cfg, db)
	playlists.Handler.Init(app, cfg, db)
	login.Handler.Init(app, cfg, db)
	logout.Handler.Init(app, cfg)

	// back-office, each route checks its permission
	app.Get(handler.AdminPath,
		auth.RequireAnyPermission(service.authService,
			auth.PermFormationManage, auth.PermPlaylistManage, auth.PermCategorieManage),
		func(c *fiber.Ctx) error {
			return c.Redirect(adminformation.Path)
		})

	adminformation.Handler.Init(app, cfg, db, service.authService, tokens)
	adminplaylist.Handler.Init(app, cfg, db, service.authService, tokens)
	admincategorie.Handler.Init(app, cfg, db, service.authService, tokens)

	app.Use(func(_ *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return service
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		if _, err := os.Stat("./internal/web/templates"); err == nil {
			templateEngine = html.New("./internal/web/templates", ".gohtml")
			templateEngine.ShouldReload = true

			log.Warn().Msg("debug mode enabled: using local filesystem for templates")
		}
	}

	addFuncs(templateEngine)

	return templateEngine
}

// addFuncs registers the template helper functions.
func addFuncs(engine *html.Engine) {
	engine.AddFunc("markdown", markup.Markdown)
	engine.AddFunc("sortURL", navigation.SortURL)
	engine.AddFunc("searchSortURL", navigation.SearchSortURL)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	engine.AddFunc("eqID", func(a, b uint) bool {
		return a == b
	})
}
