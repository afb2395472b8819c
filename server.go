package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spahuja/portfolio/internal/contact"
	"github.com/spahuja/portfolio/internal/eventloop"
	"github.com/spahuja/portfolio/internal/logging"
	"github.com/spahuja/portfolio/internal/metrics"
	"github.com/spahuja/portfolio/internal/pages"
	"github.com/spahuja/portfolio/internal/profile"
)

// site holds what the handlers need.
type site struct {
	cfg       appConfig
	pages     *pages.Registry
	profile   *profile.Profile
	validator *contact.Validator
	log       *slog.Logger
	started   time.Time
}

func runServe(ctx context.Context, cfg appConfig) error {
	log, err := logging.Configure(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	p, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := eventloop.New(cfg.LoopQueueSize)
	go loop.Run(loopCtx)

	registry := pages.NewRegistry(loop, pages.Config{TTL: cfg.PageTTL, Logger: log})
	go registry.RunReaper(ctx, cfg.ReapInterval)

	s := &site{
		cfg:       cfg,
		pages:     registry,
		profile:   p,
		validator: contact.NewValidator(),
		log:       log,
		started:   time.Now(),
	}
	gin.SetMode(cfg.GinMode)
	r, err := s.router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: boot progress is streamed for the life of the page.
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("portfolio listening", "addr", cfg.Addr, "base_path", cfg.BasePath, "config", cfg.ConfigPath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := registry.Shutdown(shutdownCtx); err != nil {
		log.Warn("closing page sessions", "err", err)
	}
	return srv.Shutdown(shutdownCtx)
}

func (s *site) router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	base := s.cfg.BasePath
	r.SetFuncMap(template.FuncMap{
		"asset": func(p string) string { return joinBase(base, p) },
		"join":  strings.Join,
		"add":   func(a, b int) int { return a + b },
	})
	if err := loadTemplates(r, s.cfg.TemplatesDir); err != nil {
		return nil, err
	}

	g := r.Group(base + "/")
	g.Static("/images", s.cfg.ImagesDir)
	g.Static("/static", s.cfg.StaticDir)

	g.GET("/", s.handleIndex)
	g.POST("/pages/:id/boot", s.handleBoot)
	g.GET("/pages/:id/state", s.handleState)
	g.GET("/pages/:id/events", s.handleEvents)
	g.GET("/pages/:id/content", s.handleContent)
	g.POST("/pages/:id/close", s.handleClose)

	g.POST("/contact", s.handleContact)
	g.POST("/theme", s.handleTheme)

	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"pages":  s.pages.Len(),
			"uptime": time.Since(s.started).Round(time.Second).String(),
		})
	})
	if s.cfg.MetricsEnabled {
		g.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	return r, nil
}

func loadTemplates(r *gin.Engine, dir string) (err error) {
	// LoadHTMLGlob panics on a bad pattern or an empty match.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("loading templates from %s: %v", dir, rec)
		}
	}()
	r.LoadHTMLGlob(path.Join(dir, "*"))
	return nil
}

// requestLogger logs one line per request, skipping static assets.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.Contains(p, "/static/") || strings.Contains(p, "/images/") || strings.HasSuffix(p, "/favicon.ico") {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", p,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func joinBase(base, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "mailto:") {
		return p
	}
	return base + "/" + strings.TrimPrefix(p, "/")
}
