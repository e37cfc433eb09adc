package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// buildURL joins path segments onto a base URL. Unlike the blog permalinks
// this site uses no trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}

// CanonicalURL returns the absolute URL of loc on the site at base.
func CanonicalURL(base string, loc *url.URL) string {
	if loc == nil {
		return buildURL(base)
	}
	return buildURL(base, loc.Path)
}

// DocumentTitle formats the <title> of a page. The page title is dropped when
// empty or equal to the site title.
func DocumentTitle(pageTitle, siteTitle string) string {
	pageTitle = strings.TrimSpace(pageTitle)
	if pageTitle == "" || pageTitle == siteTitle {
		return siteTitle
	}
	return pageTitle + " | " + siteTitle
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(siteTitle, siteURL, description, author string) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     siteTitle,
		"url":      buildURL(siteURL),
	}
	if description != "" {
		data["description"] = description
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func twitterHandle(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if name == "" {
		return ""
	}
	return "@" + name
}
