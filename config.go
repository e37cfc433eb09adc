package folio

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/theme"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	URL string // Canonical URL used when site metadata has no siteUrl (default "http://localhost:3000")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path for theme preferences (default "data/folio.db")
	ContentPath  string // Site metadata YAML (default "content/site.yaml")
	AvatarPath   string // Optional profile picture, resized at startup
	WatchContent bool   // Reload ContentPath on change

	SessionSecret string // Required: visitor cookie signing secret
	CookieSecure  bool   // Set true for HTTPS

	DefaultTheme  theme.Theme   // Theme when nothing is stored and no hint is sent (default light)
	SwitchIdleTTL time.Duration // Idle time before a visitor's switch is evicted (default 30min)
	ToggleLimit   int           // Toggles allowed per IP per ToggleWindow (default 30, at least 1)
	ToggleWindow  time.Duration // default 1min; non-positive values use the default

	LogLevel string // debug, info, warn, error (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.ContentPath == "" {
		c.ContentPath = "content/site.yaml"
	}
	if !c.DefaultTheme.Valid() {
		c.DefaultTheme = theme.Light
	}
	if c.SwitchIdleTTL == 0 {
		c.SwitchIdleTTL = 30 * time.Minute
	}
	switch {
	case c.ToggleLimit == 0:
		c.ToggleLimit = 30
	case c.ToggleLimit < 0:
		c.ToggleLimit = 1
	}
	if c.ToggleWindow <= 0 {
		c.ToggleWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig builds a SiteConfig from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()

	cfg := SiteConfig{
		URL:           EnvOr("SITE_URL", ""),
		Addr:          EnvOr("ADDR", ""),
		DatabasePath:  EnvOr("DATABASE_PATH", ""),
		ContentPath:   EnvOr("CONTENT_PATH", ""),
		AvatarPath:    EnvOr("AVATAR_PATH", ""),
		WatchContent:  envBool("WATCH_CONTENT"),
		SessionSecret: EnvOr("SESSION_SECRET", ""),
		CookieSecure:  envBool("COOKIE_SECURE"),
		LogLevel:      EnvOr("LOG_LEVEL", ""),
	}
	if t, err := theme.Parse(EnvOr("DEFAULT_THEME", "")); err == nil {
		cfg.DefaultTheme = t
	}
	if d, err := time.ParseDuration(EnvOr("SWITCH_IDLE_TTL", "")); err == nil {
		cfg.SwitchIdleTTL = d
	}
	if n, err := strconv.Atoi(EnvOr("TOGGLE_LIMIT", "")); err == nil {
		cfg.ToggleLimit = max(n, 1)
	}
	if d, err := time.ParseDuration(EnvOr("TOGGLE_WINDOW", "")); err == nil {
		cfg.ToggleWindow = d
	}
	cfg.setDefaults()
	return cfg
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(EnvOr(key, "false"))
	return err == nil && v
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithPreferenceStore replaces the SQLite preference store. The App does not
// close a store supplied this way.
func WithPreferenceStore(s theme.Store) Option {
	return func(a *App) {
		a.prefStore = s
	}
}

// WithContent serves data instead of reading ContentPath.
func WithContent(data content.PageData) Option {
	return func(a *App) {
		a.Content = content.Static(data)
	}
}
