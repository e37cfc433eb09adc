package folio

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapPaths are the pages the header links to.
var sitemapPaths = []string{"/", "/about"}

func (a *App) handleSitemap(c echo.Context) error {
	base := strings.TrimRight(a.siteURL(), "/")
	urls := make([]sitemapURL, 0, len(sitemapPaths))
	for _, p := range sitemapPaths {
		urls = append(urls, sitemapURL{Loc: base + p})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
