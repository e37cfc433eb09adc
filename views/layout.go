package views

import (
	"context"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/eringen/folio/theme"
)

// Document is the full HTML page: <head> from seo, the theme applied to the
// root element, and body as the only child of <body>.
func Document(ctx context.Context, seo SeoProps, body g.Node) g.Node {
	current := theme.FromContext(ctx)
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Class(current.String()),
			g.Attr("data-theme", current.String()),
			g.Attr("data-theme-explicit", strconv.FormatBool(theme.ExplicitFromContext(ctx))),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.Meta(h.Name("color-scheme"), h.Content("light dark")),
				Seo(ctx, seo),
				h.Link(h.Rel("stylesheet"), h.Href("/public/site.css")),
				h.Script(h.Src("/public/theme.js"), h.Defer()),
			),
			h.Body(body),
		),
	)
}

// Layout is the shell shared by every page: the theme switch pinned top
// right, the header, and a scrollable main region holding children.
func Layout(ctx context.Context, p LayoutProps) g.Node {
	children := p.Children
	if children == nil {
		children = g.Group(nil)
	}
	return h.Div(
		h.Class("relative antialiased flex flex-col h-screen md:flex-row overflow-hidden selection:bg-yellow-200 selection:text-black"),
		h.Div(
			h.Class("absolute top-0 right-0 my-5 mx-10 z-50"),
			ThemeSwitch(ctx),
		),
		Header(EmptyProps{}),
		h.Main(
			h.Class("flex-1 bg-gradient-to-br from-skin-primary to-skin-secondary transition-colors px-8 lg:px-24 py-8 md:py-16 overflow-y-auto"),
			children,
		),
	)
}

const navLinkClass = "rounded-md text-skin-header-fg focus:outline-none focus-visible:ring-2 focus-visible:ring-inset focus-visible:ring-skin-focus"

// Header is the sticky navigation bar with icon links to / and /about.
func Header(EmptyProps) g.Node {
	return h.Header(
		h.Class("sticky top-0 z-10 bg-skin-header backdrop-blur-md backdrop-saturate-150 bg-opacity-70"),
		h.Div(
			h.Class("max-w-7xl mx-auto px-4 sm:px-6"),
			h.Nav(
				h.Class("flex justify-between items-center py-6 md:justify-start md:space-x-10"),
				g.Attr("aria-label", "Primary"),
				h.Div(
					h.Class("flex justify-start space-x-10 md:space-x-0 md:flex-col md:space-y-10"),
					navLink("/", "Home", homeIconPath),
					navLink("/about", "About", identificationIconPath),
				),
			),
		),
	)
}

func navLink(href, label, iconPath string) g.Node {
	return h.A(
		h.Href(href),
		h.Class(navLinkClass),
		g.Attr("aria-label", label),
		icon(iconPath, "h-8 w-auto"),
	)
}

// ThemeSwitch renders the toggle for the theme in ctx. It is a plain form so
// it works without JavaScript; theme.js upgrades it to an in-place toggle.
func ThemeSwitch(ctx context.Context) g.Node {
	current := theme.FromContext(ctx)
	next := current.Complement()
	iconPath := moonIconPath
	if current == theme.Dark {
		iconPath = sunIconPath
	}
	return h.Form(
		h.ID("theme-switch"),
		h.Method("post"),
		h.Action("/theme/toggle"),
		g.Attr("data-theme-current", current.String()),
		h.Input(h.Type("hidden"), h.Name("_csrf"), h.Value(EnvFrom(ctx).CSRFToken)),
		h.Button(
			h.Type("submit"),
			g.Attr("data-icon-light", moonIconPath),
			g.Attr("data-icon-dark", sunIconPath),
			h.Class("rounded-full p-2 text-skin-header-fg focus:outline-none focus-visible:ring-2 focus-visible:ring-skin-focus"),
			g.Attr("aria-label", "Switch to "+next.String()+" theme"),
			h.Title("Switch to "+next.String()+" theme"),
			icon(iconPath, "h-6 w-6"),
		),
	)
}
