package folio

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/folio/theme"
	"github.com/eringen/folio/views"
)

const (
	sessionName = "folio_visitor"
	visitorKey  = "id"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(a.Metrics.Middleware())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public/") || path == "/theme/events"
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper:        isInfraPath,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(cacheControlMiddleware)
	e.Use(a.themeMiddleware)
}

// isInfraPath reports paths that never render a page and so need neither a
// visitor cookie nor a theme.
func isInfraPath(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/public/") ||
		path == "/metrics" || path == "/healthz" ||
		path == "/sitemap.xml" || path == "/robots.txt"
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(path, "/public/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/robots.txt":
			h.Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/theme/") || path == "/metrics" || path == "/healthz":
			h.Set("Cache-Control", "no-store")
		default:
			// Pages embed the visitor's theme and CSRF token.
			h.Set("Cache-Control", "private, no-cache")
			h.Add("Vary", "Cookie")
			h.Add("Vary", theme.HintHeader)
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// themeMiddleware resolves the visitor's theme switch and makes it, along
// with the values pages read from Env, available on the request context.
func (a *App) themeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if isInfraPath(c) {
			return next(c)
		}
		req := c.Request()
		c.Response().Header().Set("Accept-CH", theme.HintHeader)
		c.Response().Header().Set("Critical-CH", theme.HintHeader)

		hint, hinted := theme.FromHint(req.Header.Get(theme.HintHeader))
		sw := a.Themes.Resolve(req.Context(), VisitorID(c), hint, hinted)

		ctx := theme.NewContext(req.Context(), sw)
		ctx = views.WithEnv(ctx, a.env(c))
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (a *App) env(c echo.Context) views.Env {
	env := views.Env{
		SiteURL:   a.siteURL(),
		CSRFToken: CsrfToken(c),
	}
	if a.avatar != nil {
		env.AvatarURL = "/public/avatar.jpg"
	}
	return env
}

func (a *App) siteURL() string {
	if m := a.Content.Current().Metadata(); m.SiteURL != "" {
		return m.SiteURL
	}
	return a.Config.URL
}

// VisitorID returns the id stored in the visitor cookie, issuing a new one
// when the cookie is missing or unreadable. If the cookie cannot be written
// the id still serves this request.
func VisitorID(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		c.Logger().Warnf("folio: visitor session: %v", err)
		if sess == nil {
			return uuid.NewString()
		}
	}
	if id, ok := sess.Values[visitorKey].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Values[visitorKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("folio: save visitor session: %v", err)
	}
	return id
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
