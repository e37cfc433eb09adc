package views

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/eringen/folio/content"
)

// Seo emits the document title and meta tags for a page.
func Seo(ctx context.Context, p SeoProps) g.Node {
	title := DocumentTitle(p.Title, p.SiteTitle)
	ogType := p.OGType
	if ogType == "" {
		ogType = "website"
	}
	return g.Group{
		h.TitleEl(g.Text(title)),
		g.If(p.Description != "", h.Meta(h.Name("description"), h.Content(p.Description))),
		h.Meta(g.Attr("property", "og:title"), h.Content(title)),
		g.If(p.Description != "", h.Meta(g.Attr("property", "og:description"), h.Content(p.Description))),
		h.Meta(g.Attr("property", "og:type"), h.Content(ogType)),
		g.If(p.URL != "", h.Meta(g.Attr("property", "og:url"), h.Content(p.URL))),
		g.If(p.URL != "", h.Link(h.Rel("canonical"), h.Href(p.URL))),
		h.Meta(h.Name("twitter:card"), h.Content("summary")),
		g.If(p.Twitter != "", h.Meta(h.Name("twitter:creator"), h.Content(twitterHandle(p.Twitter)))),
		h.Meta(h.Name("twitter:title"), h.Content(title)),
	}
}

// Bio is the author block: avatar, name, summary and a social link.
func Bio(p BioProps) g.Node {
	var social g.Node
	switch {
	case p.Social.Twitter != "":
		social = h.A(h.Href("https://twitter.com/"+p.Social.Twitter), h.Class("underline"), g.Text("You should follow them on Twitter"))
	case p.Social.GitHub != "":
		social = h.A(h.Href("https://github.com/"+p.Social.GitHub), h.Class("underline"), g.Text("Find them on GitHub"))
	}
	return h.Div(
		h.Class("bio flex items-center gap-4"),
		g.If(p.AvatarURL != "", h.Img(
			h.Class("bio-avatar rounded-full"),
			h.Src(p.AvatarURL),
			h.Alt("Profile picture"),
			h.Width("50"),
			h.Height("50"),
		)),
		g.If(p.Author.Name != "", h.P(
			g.Text("Written by "),
			h.Strong(g.Text(p.Author.Name)),
			g.If(p.Author.Summary != "", g.Text(" "+p.Author.Summary)),
			g.If(social != nil, g.Group{g.Text(" "), social}),
		)),
	)
}

func bioProps(ctx context.Context, m content.SiteMetadata) BioProps {
	return BioProps{Author: m.Author, Social: m.Social, AvatarURL: EnvFrom(ctx).AvatarURL}
}

func seoProps(ctx context.Context, title string, p PageProps) SeoProps {
	m := p.Data.Metadata()
	base := m.SiteURL
	if base == "" {
		base = EnvFrom(ctx).SiteURL
	}
	seo := SeoProps{
		Title:       title,
		SiteTitle:   p.Data.SiteTitle(),
		Description: m.Description,
		Twitter:     m.Social.Twitter,
	}
	if base != "" {
		seo.URL = CanonicalURL(base, p.Location)
	}
	return seo
}

// About renders the about page: the author biography inside the layout.
func About(ctx context.Context, p PageProps) g.Node {
	siteTitle := p.Data.SiteTitle()
	return Document(ctx, seoProps(ctx, "About", p), Layout(ctx, LayoutProps{
		Location: p.Location,
		Title:    siteTitle,
		Children: h.Div(
			h.Class("flex flex-col items-center w-full h-full"),
			Bio(bioProps(ctx, p.Data.Metadata())),
		),
	}))
}

// Home renders the landing page.
func Home(ctx context.Context, p PageProps) g.Node {
	siteTitle := p.Data.SiteTitle()
	m := p.Data.Metadata()
	siteURL := m.SiteURL
	if siteURL == "" {
		siteURL = EnvFrom(ctx).SiteURL
	}
	return Document(ctx, seoProps(ctx, "Home", p), Layout(ctx, LayoutProps{
		Location: p.Location,
		Title:    siteTitle,
		Children: h.Section(
			h.Class("flex flex-col gap-6"),
			h.H1(h.Class("text-4xl font-bold"), g.Text(siteTitle)),
			g.If(m.Description != "", h.P(h.Class("text-lg"), g.Text(m.Description))),
			Bio(bioProps(ctx, m)),
			h.Script(h.Type("application/ld+json"), g.Raw(WebsiteJsonLD(siteTitle, siteURL, m.Description, m.Author.Name))),
		),
	}))
}

// ErrorPage renders a status page inside the layout.
func ErrorPage(ctx context.Context, p PageProps, code int) g.Node {
	msg := http.StatusText(code)
	if msg == "" {
		msg = "Error"
	}
	return Document(ctx, seoProps(ctx, msg, p), Layout(ctx, LayoutProps{
		Location: p.Location,
		Title:    p.Data.SiteTitle(),
		Children: h.Div(
			h.Class("flex flex-col items-center gap-4"),
			h.H1(h.Class("text-4xl font-bold"), g.Text(strconv.Itoa(code))),
			h.P(g.Text(msg)),
			h.A(h.Href("/"), h.Class("underline"), g.Text("Back home")),
		),
	}))
}

// AboutPage is About as a templ component.
func AboutPage(p PageProps) templ.Component {
	return Component(func(ctx context.Context) g.Node { return About(ctx, p) })
}

// HomePage is Home as a templ component.
func HomePage(p PageProps) templ.Component {
	return Component(func(ctx context.Context) g.Node { return Home(ctx, p) })
}

// NotFoundPage renders the 404 page.
func NotFoundPage(p PageProps) templ.Component {
	return Component(func(ctx context.Context) g.Node { return ErrorPage(ctx, p, http.StatusNotFound) })
}

// ServerErrorPage renders the 500 page.
func ServerErrorPage(p PageProps) templ.Component {
	return Component(func(ctx context.Context) g.Node { return ErrorPage(ctx, p, http.StatusInternalServerError) })
}

// ThemeSwitchPartial renders only the switch, for in-place updates.
func ThemeSwitchPartial() templ.Component {
	return Component(ThemeSwitch)
}
