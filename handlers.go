package folio

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/theme"
)

const ssePing = 25 * time.Second

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Home(a.pageProps(c)))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.pageProps(c)))
}

// handleThemeToggle flips the visitor's theme, or sets it when the form
// carries a theme field. The response shape follows the caller: JSON for
// fetch, the switch fragment for htmx, and a redirect back for plain forms.
func (a *App) handleThemeToggle(c echo.Context) error {
	if !a.toggleLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many theme changes. Try again shortly.")
	}
	sw, ok := theme.SwitchFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "theme switch missing from context")
	}

	ctx := c.Request().Context()
	var current theme.Theme
	if raw := c.FormValue("theme"); raw != "" {
		t, err := theme.Parse(raw)
		if err != nil {
			return c.String(http.StatusBadRequest, "Unknown theme")
		}
		if err := sw.Set(ctx, t); err != nil {
			return err
		}
		current = t
	} else {
		current = sw.Toggle(ctx)
	}
	a.Metrics.recordToggle(current)

	switch {
	case strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON):
		return c.JSON(http.StatusOK, map[string]string{"theme": current.String()})
	case c.Request().Header.Get("HX-Request") == "true":
		c.Response().Header().Set("HX-Trigger", "themeChanged")
		return Render(c, a.Views.ThemeSwitch())
	default:
		return c.Redirect(http.StatusSeeOther, backPath(c))
	}
}

// backPath returns the path of a same-origin Referer, or "/".
func backPath(c echo.Context) string {
	ref := c.Request().Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request().Host) {
		return "/"
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return u.Path
}

// handleThemeEvents streams the visitor's theme as server-sent events so
// other open tabs follow a toggle. Values the visitor chose are sent as
// "choice" events, values derived from hints or the default as "theme".
// Bursts of changes are coalesced; a client always receives the latest theme.
func (a *App) handleThemeEvents(c echo.Context) error {
	sw, ok := theme.SwitchFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "theme switch missing from context")
	}
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusNotImplemented, "streaming unsupported")
	}

	changed := make(chan struct{}, 1)
	unsubscribe := sw.Subscribe(func(theme.Theme) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	send := func() error {
		event := "theme"
		if sw.Explicit() {
			event = "choice"
		}
		if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, sw.Current()); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	if err := send(); err != nil {
		return nil
	}

	ping := time.NewTicker(ssePing)
	defer ping.Stop()
	done := c.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-changed:
			if err := send(); err != nil {
				return nil
			}
		case <-ping.C:
			if _, err := fmt.Fprint(c.Response(), ": ping\n\n"); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func (a *App) handleEmbedded(name string) echo.HandlerFunc {
	contentType := "application/octet-stream"
	switch path.Ext(name) {
	case ".js":
		contentType = "text/javascript; charset=utf-8"
	case ".css":
		contentType = "text/css; charset=utf-8"
	}
	return func(c echo.Context) error {
		b, err := EmbeddedAssets.ReadFile("embedded/" + name)
		if err != nil {
			return echo.ErrNotFound
		}
		return c.Blob(http.StatusOK, contentType, b)
	}
}

func (a *App) handleAvatar(c echo.Context) error {
	return c.Blob(http.StatusOK, "image/jpeg", a.avatar)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(a.siteURL(), "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.pageProps(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.pageProps(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
