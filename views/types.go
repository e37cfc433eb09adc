package views

import (
	"net/url"

	g "maragu.dev/gomponents"

	"github.com/eringen/folio/content"
)

// EmptyProps marks components that take no input.
type EmptyProps struct{}

// PageProps is what the router and the content query hand to a page.
type PageProps struct {
	Data     content.PageData
	Location *url.URL
}

// LayoutProps is owned by the page for one render. Location and Title are
// accepted for callers that want them; the layout itself does not read them.
type LayoutProps struct {
	Location *url.URL
	Title    string
	Children g.Node
}

// SeoProps carries per-page OpenGraph and SEO metadata into <head>.
type SeoProps struct {
	Title       string
	SiteTitle   string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Twitter     string
}

// BioProps describes the author block.
type BioProps struct {
	Author    content.Author
	Social    content.Social
	AvatarURL string
}
