package folio

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/folio/theme"
)

// Metrics holds the App's Prometheus collectors. Each App has its own
// registry so several Apps can live in one process.
type Metrics struct {
	Registry *prometheus.Registry
	Toggles  *prometheus.CounterVec
}

func newMetrics(themes *theme.Registry) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "folio",
			Name:      "theme_toggles_total",
			Help:      "Theme changes made by visitors, by resulting theme.",
		}, []string{"theme"}),
	}
	reg.MustRegister(
		m.Toggles,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "folio",
			Name:      "theme_switches",
			Help:      "Visitor theme switches held in memory.",
		}, func() float64 { return float64(themes.Len()) }),
	)
	return m
}

// Middleware records request counts and latencies.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "folio",
		Registerer: m.Registry,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/metrics" || path == "/healthz" || strings.HasPrefix(path, "/theme/events")
		},
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.Registry})
}

func (m *Metrics) recordToggle(t theme.Theme) {
	m.Toggles.WithLabelValues(t.String()).Inc()
}
