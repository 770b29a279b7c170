package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/assets"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/jobs"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/markdown"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/middleware"
	"github.com/Zachkp/portfolio/internal/navigation"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/session"
	"github.com/Zachkp/portfolio/web"
)

const (
	housekeepingSchedule = "@every 10m"
	limiterIdle          = time.Hour
	jobTimeout           = time.Minute
)

// server bundles everything the routes need. tracker and stats are nil when
// analytics are disabled.
type server struct {
	app      *portfolio.App
	sessions *session.Manager
	metrics  *metrics.Metrics
	limiter  *middleware.IPRateLimiter
	tracker  *analytics.Tracker
	stats    *analytics.Store
	retain   time.Duration
	token    string
	version  string
	log      logger.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portfolio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(logger.String("service", cfg.Service.Name), logger.String("version", cfg.Service.Version))

	site, err := loadContent(cfg.Content.Path)
	if err != nil {
		log.Error("Failed to load content", logger.Error(err))
		return err
	}

	m := metrics.New()
	app, err := portfolio.New(site, assets.NewLoader(cfg.Content.ImageWidth), markdown.New(), m,
		portfolio.DiscardRelay{Log: log}, log)
	if err != nil {
		return fmt.Errorf("build portfolio: %w", err)
	}

	scheduler := jobs.New(log, jobTimeout)

	store, closeStore, err := sessionStore(cfg.Session, scheduler, log)
	if err != nil {
		log.Error("Failed to create session store", logger.Error(err))
		return err
	}
	defer closeStore()

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, log)

	srv := &server{
		app:      app,
		sessions: sessions,
		metrics:  m,
		limiter:  middleware.NewIPRateLimiter(cfg.Contact.PerMinute, cfg.Contact.Burst),
		retain:   cfg.Analytics.Retention,
		token:    cfg.Analytics.AdminToken,
		version:  cfg.Service.Version,
		log:      log,
	}

	if err := scheduler.Add("contact-limiter-prune", housekeepingSchedule, func(context.Context) error {
		srv.limiter.Prune(limiterIdle)
		return nil
	}); err != nil {
		return err
	}

	if cfg.Analytics.Enabled {
		if err := srv.enableAnalytics(cfg.Analytics, scheduler); err != nil {
			log.Error("Failed to enable analytics", logger.Error(err))
			return err
		}
		defer func() { _ = srv.stats.Close() }()
	}

	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := newRouter(srv)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
		IdleTimeout:  cfg.Service.IdleTimeout,
	}

	if err := scheduler.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", logger.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", logger.Error(err))
			return err
		}
	case sig := <-quit:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Error(err))
	}
	if err := scheduler.Stop(ctx); err != nil {
		log.Warn("Scheduler stop timed out", logger.Error(err))
	}
	if srv.tracker != nil {
		srv.tracker.Wait()
	}

	log.Info("Server stopped")
	return nil
}

func loadContent(path string) (*content.Content, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

// sessionStore picks Redis when an address is configured and the in-memory
// store otherwise. The returned func releases the store.
func sessionStore(cfg config.SessionConfig, scheduler *jobs.Scheduler, log logger.Logger) (session.Store, func(), error) {
	if cfg.RedisAddress != "" {
		client, err := session.NewRedisClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using Redis session store", logger.String("address", cfg.RedisAddress))
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	store := session.NewMemoryStore()
	err := scheduler.Add("session-prune", housekeepingSchedule, func(context.Context) error {
		if n := store.Prune(); n > 0 {
			log.Debug("Pruned expired sessions", logger.Int("removed", n))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func (s *server) enableAnalytics(cfg config.AnalyticsConfig, scheduler *jobs.Scheduler) error {
	store, err := analytics.Open(cfg.DatabasePath, s.log)
	if err != nil {
		return err
	}

	salt := cfg.HashSalt
	if salt == "" {
		if salt, err = analytics.RandomSalt(); err != nil {
			_ = store.Close()
			return err
		}
		s.log.Warn("No analytics salt configured, visitor hashes reset on restart")
	}

	retention := store.Retention(cfg.Retention, s.log)
	if err := scheduler.Add("analytics-retention", cfg.CleanupSchedule, retention); err != nil {
		_ = store.Close()
		return err
	}
	if err := scheduler.Run(context.Background(), "analytics-retention", retention); err != nil {
		s.log.Warn("Initial analytics cleanup failed", logger.Error(err))
	}

	s.stats = store
	s.tracker = analytics.NewTracker(store, analytics.NewHasher(salt), s.log)

	s.log.Info("Analytics enabled with hashed IP addresses",
		logger.String("database", cfg.DatabasePath),
		logger.Bool("admin", cfg.AdminToken != ""),
	)
	return nil
}

func newRouter(s *server) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID(), middleware.Logger(s.log, s.metrics), middleware.Recovery(s.log))
	if s.tracker != nil {
		r.Use(s.tracker.Middleware())
	}

	r.StaticFS("/static", web.Static())

	r.GET("/", func(c *gin.Context) {
		s.render(c, s.sessions.Current(c), "")
	})

	// Plain links for clients without HTMX, fragment swaps for the rest
	r.GET("/section/:slug", func(c *gin.Context) {
		section, ok := navigation.Parse(c.Param("slug"))
		if !ok {
			c.String(http.StatusNotFound, sectionNotFound)
			return
		}
		if err := s.sessions.Select(c, section); err != nil {
			_ = c.Error(fmt.Errorf("save selection: %w", err))
		}
		s.render(c, section, "")
	})

	r.POST("/contact", s.limiter.Handler(), func(c *gin.Context) {
		var sub portfolio.ContactSubmission
		// any input, including none, is acknowledged
		_ = c.ShouldBind(&sub)

		ack := portfolio.Acknowledgment
		if middleware.Throttled(c) {
			s.log.Debug("Contact submission throttled, not relayed")
		} else {
			ack = s.app.Acknowledge(c.Request.Context(), sub)
		}

		if isHTMX(c) {
			c.HTML(http.StatusOK, "contact-success.html", ack)
			return
		}
		if err := s.sessions.Select(c, navigation.Contact); err != nil {
			_ = c.Error(fmt.Errorf("save selection: %w", err))
		}
		s.render(c, navigation.Contact, ack)
	})

	r.GET("/resume", func(c *gin.Context) {
		dl, err := s.app.ResumeDownload()
		if err != nil {
			c.String(http.StatusNotFound, portfolio.ResumeWarning)
			return
		}

		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
		c.Data(http.StatusOK, dl.ContentType, dl.Data)
	})

	r.GET("/projects/:key/visit", func(c *gin.Context) {
		visit, ok := s.app.Visit(c.Param("key"))
		if !ok {
			c.String(http.StatusNotFound, projectNotFound)
			return
		}
		if s.tracker != nil {
			s.tracker.ProjectClick(c, visit.Key)
		}

		if visit.Redirect {
			c.Redirect(http.StatusFound, visit.Link)
			return
		}
		c.HTML(http.StatusOK, "visit.html", visit)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    healthStatus,
			"version":   s.version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	if s.stats != nil && s.token != "" {
		setupAdminRoutes(r, s)
	}

	return r, nil
}

// render writes the page for section, as a fragment for HTMX requests.
// A non-empty ack replaces the contact form.
func (s *server) render(c *gin.Context, section navigation.Section, ack string) {
	page, err := s.app.Render(section)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, renderFailed)
		return
	}
	if page.Contact != nil {
		page.Contact.Acknowledgment = ack
	}

	c.Header("Vary", "HX-Request")
	if isHTMX(c) {
		c.HTML(http.StatusOK, "section.html", page)
		return
	}
	c.HTML(http.StatusOK, "layout.html", page)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
