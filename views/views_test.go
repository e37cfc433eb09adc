package views

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/theme"
)

func renderNode(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func withTheme(t *testing.T, th theme.Theme) context.Context {
	t.Helper()
	r := theme.NewRegistry(theme.NewMemoryStore(), theme.WithDefault(th))
	s := r.Resolve(context.Background(), "visitor", "", false)
	return theme.NewContext(context.Background(), s)
}

func aboutURL() *url.URL {
	return &url.URL{Path: "/about"}
}

var titleRe = regexp.MustCompile(`<title>([^<]*)</title>`)

func documentTitle(t *testing.T, html string) string {
	t.Helper()
	m := titleRe.FindStringSubmatch(html)
	require.Len(t, m, 2, "no <title> in output")
	return m[1]
}

func TestAboutTitleFallback(t *testing.T) {
	ctx := context.Background()

	html, err := RenderString(ctx, AboutPage(PageProps{Location: aboutURL()}))
	require.NoError(t, err)
	assert.Equal(t, "About | Title", documentTitle(t, html))

	data := content.PageData{Site: content.Site{SiteMetadata: &content.SiteMetadata{}}}
	html, err = RenderString(ctx, AboutPage(PageProps{Data: data, Location: aboutURL()}))
	require.NoError(t, err)
	assert.Equal(t, "About | Title", documentTitle(t, html))

	data.Site.SiteMetadata.Title = "My Blog"
	html, err = RenderString(ctx, AboutPage(PageProps{Data: data, Location: aboutURL()}))
	require.NoError(t, err)
	assert.Equal(t, "About | My Blog", documentTitle(t, html))
}

func TestAboutRendersBio(t *testing.T) {
	data := content.PageData{Site: content.Site{SiteMetadata: &content.SiteMetadata{
		Title:   "My Blog",
		SiteURL: "https://example.com",
		Author:  content.Author{Name: "Jane Doe", Summary: "who writes about Go."},
		Social:  content.Social{Twitter: "janedoe"},
	}}}
	ctx := WithEnv(context.Background(), Env{AvatarURL: "/public/avatar.jpg"})

	html, err := RenderString(ctx, AboutPage(PageProps{Data: data, Location: aboutURL()}))
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Jane Doe</strong> who writes about Go.")
	assert.Contains(t, html, `href="https://twitter.com/janedoe"`)
	assert.Contains(t, html, `src="/public/avatar.jpg"`)
	assert.Contains(t, html, `<link rel="canonical" href="https://example.com/about">`)
	assert.Contains(t, html, `content="@janedoe"`)
}

func TestHeaderHasExactlyTwoLinks(t *testing.T) {
	html := renderNode(t, Header(EmptyProps{}))

	links := regexp.MustCompile(`<a href="([^"]*)"`).FindAllStringSubmatch(html, -1)
	require.Len(t, links, 2)
	assert.Equal(t, "/", links[0][1])
	assert.Equal(t, "/about", links[1][1])
	assert.NotContains(t, html, "tabindex")
	assert.Equal(t, 2, strings.Count(html, "focus-visible:ring-2"))
	assert.Contains(t, html, `aria-label="Home"`)
	assert.Contains(t, html, `aria-label="About"`)
}

func TestLayoutProjectsChildren(t *testing.T) {
	ctx := context.Background()
	html := renderNode(t, Layout(ctx, LayoutProps{
		Title:    "ignored",
		Children: h.P(g.Text("hello <world>")),
	}))
	assert.Regexp(t, `<main class="[^"]*overflow-y-auto[^"]*"><p>hello &lt;world&gt;</p></main>`, html)
	assert.NotContains(t, html, "ignored")
	assert.Contains(t, html, `id="theme-switch"`)
	assert.Contains(t, html, "<header")
}

func TestLayoutWithoutChildren(t *testing.T) {
	html := renderNode(t, Layout(context.Background(), LayoutProps{}))
	assert.Regexp(t, `<main class="[^"]*"></main>`, html)
}

func TestThemeSwitchReflectsContext(t *testing.T) {
	dark := renderNode(t, ThemeSwitch(withTheme(t, theme.Dark)))
	assert.Contains(t, dark, `data-theme-current="dark"`)
	assert.Contains(t, dark, `aria-label="Switch to light theme"`)
	assert.Contains(t, dark, sunIconPath)
	assert.Contains(t, dark, `data-icon-light="`+moonIconPath+`"`)
	assert.Contains(t, dark, `data-icon-dark="`+sunIconPath+`"`)

	light := renderNode(t, ThemeSwitch(withTheme(t, theme.Light)))
	assert.Contains(t, light, `data-theme-current="light"`)
	assert.Contains(t, light, moonIconPath)

	ctx := WithEnv(withTheme(t, theme.Light), Env{CSRFToken: "tok"})
	assert.Contains(t, renderNode(t, ThemeSwitch(ctx)), `name="_csrf" value="tok"`)
}

func TestDocumentAppliesTheme(t *testing.T) {
	html, err := RenderString(withTheme(t, theme.Dark), HomePage(PageProps{Location: &url.URL{Path: "/"}}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<html lang="en" class="dark" data-theme="dark" data-theme-explicit="false">`)
	assert.Equal(t, "Home | Title", documentTitle(t, html))
}

func TestErrorPages(t *testing.T) {
	html, err := RenderString(context.Background(), NotFoundPage(PageProps{}))
	require.NoError(t, err)
	assert.Contains(t, html, "404")
	assert.Equal(t, "Not Found | Title", documentTitle(t, html))

	html, err = RenderString(context.Background(), ServerErrorPage(PageProps{}))
	require.NoError(t, err)
	assert.Contains(t, html, "500")
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Title", DocumentTitle("", "Title"))
	assert.Equal(t, "My Blog", DocumentTitle("My Blog", "My Blog"))
	assert.Equal(t, "About | My Blog", DocumentTitle("About", "My Blog"))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://example.com/", CanonicalURL("https://example.com", nil))
	assert.Equal(t, "https://example.com/about", CanonicalURL("https://example.com/", &url.URL{Path: "/about"}))
}
