package theme

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Switch) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SwitchFromContext returns the switch stored by NewContext, if any.
func SwitchFromContext(ctx context.Context) (*Switch, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Switch)
	return s, ok && s != nil
}

// FromContext returns the theme in effect for ctx, or Light when no switch
// is attached.
func FromContext(ctx context.Context) Theme {
	if s, ok := SwitchFromContext(ctx); ok {
		return s.Current()
	}
	return Light
}

// ExplicitFromContext reports whether the visitor in ctx has chosen a theme,
// as opposed to following the browser or the default.
func ExplicitFromContext(ctx context.Context) bool {
	if s, ok := SwitchFromContext(ctx); ok {
		return s.Explicit()
	}
	return false
}
