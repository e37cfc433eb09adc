// Package folio serves a personal blog/portfolio: a layout shell with a
// sticky navigation header, a light/dark theme switch that remembers each
// visitor's choice, and pages composed from a site metadata file.
//
// Pages are templ components supplied through ViewFuncs; the defaults live in
// the views package.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/theme"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the components the App renders. Nil fields fall back to
// the views package.
type ViewFuncs struct {
	Home        func(props views.PageProps) templ.Component
	About       func(props views.PageProps) templ.Component
	ThemeSwitch func() templ.Component
	NotFound    func(props views.PageProps) templ.Component
	ServerError func(props views.PageProps) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.HomePage
	}
	if v.About == nil {
		v.About = views.AboutPage
	}
	if v.ThemeSwitch == nil {
		v.ThemeSwitch = views.ThemeSwitchPartial
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFoundPage
	}
	if v.ServerError == nil {
		v.ServerError = views.ServerErrorPage
	}
}

// App wires together the preference store, theme registry, content source,
// handlers, and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *PrefStore // nil when a store is supplied with WithPreferenceStore
	Themes  *theme.Registry
	Content *content.Source
	Views   ViewFuncs
	Metrics *Metrics

	prefStore     theme.Store
	toggleLimiter *ToggleLimiter
	avatar        []byte
	customRoutes  []func(*App)
	staticDir     string

	initOnce sync.Once
	initErr  error
	stops    []func()
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, vf ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	vf.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     vf,
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, resolves site content, and registers middleware and
// routes. Background work started here stops when ctx is cancelled or Close
// is called. Init is safe to call more than once; only the first call runs.
func (a *App) Init(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.initErr = a.init(ctx)
	})
	return a.initErr
}

func (a *App) init(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}
	logger := a.Echo.Logger

	if a.prefStore == nil {
		store, err := NewPrefStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init store: %w", err)
		}
		a.Store = store
		a.prefStore = store
	}

	a.Themes = theme.NewRegistry(a.prefStore,
		theme.WithDefault(a.Config.DefaultTheme),
		theme.WithIdleTTL(a.Config.SwitchIdleTTL),
		theme.WithLogger(logger),
	)
	a.stops = append(a.stops, a.Themes.StartPruner(time.Minute))

	if a.Content == nil {
		src, err := content.NewSource(a.Config.ContentPath)
		if err != nil {
			return fmt.Errorf("folio: load content: %w", err)
		}
		a.Content = src
		if a.Config.WatchContent {
			watchCtx, cancel := context.WithCancel(ctx)
			a.stops = append(a.stops, cancel)
			if err := src.Watch(watchCtx, 200*time.Millisecond, logger, nil); err != nil {
				logger.Warnf("folio: content watch disabled: %v", err)
			}
		}
	}

	if a.Config.AvatarPath != "" {
		b, err := loadAvatar(a.Config.AvatarPath, avatarSize)
		if err != nil {
			return fmt.Errorf("folio: load avatar: %w", err)
		}
		a.avatar = b
	}

	a.Metrics = newMetrics(a.Themes)
	a.toggleLimiter = NewToggleLimiter(a.Config.ToggleLimit, a.Config.ToggleWindow)
	a.stops = append(a.stops, a.toggleLimiter.Stop)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the App and serves until the listener fails.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run initializes the App, serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/theme.js", a.handleEmbedded("theme.js"))
	e.GET("/public/site.css", a.handleEmbedded("site.css"))
	if a.avatar != nil {
		e.GET("/public/avatar.jpg", a.handleAvatar)
	}
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", a.Metrics.Handler())

	e.GET("/", a.handleHome)
	e.GET("/about", a.handleAbout)
	e.POST("/theme/toggle", a.handleThemeToggle)
	e.GET("/theme/events", a.handleThemeEvents)
}

// Close stops background work and closes the store. Call this when the app
// is shutting down.
func (a *App) Close() error {
	for _, stop := range a.stops {
		stop()
	}
	a.stops = nil
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
