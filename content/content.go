// Package content resolves the site metadata every page is rendered from.
//
// The metadata lives in a YAML file shaped like
//
//	siteMetadata:
//	  title: My Blog
//	  description: Notes on systems and tools
//	  siteUrl: https://example.com
//	  author:
//	    name: Jane Doe
//	    summary: who writes about Go.
//	  social:
//	    twitter: janedoe
//	    github: janedoe
//
// and is read once before serving. A missing file yields empty metadata.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// FallbackTitle is shown wherever the site has no configured title.
const FallbackTitle = "Title"

// PageData is the resolved query result handed to pages.
type PageData struct {
	Site Site `yaml:"site"`
}

// Site wraps the metadata block. SiteMetadata is nil when the file has none.
type Site struct {
	SiteMetadata *SiteMetadata `yaml:"siteMetadata"`
}

// SiteMetadata describes the site and its author.
type SiteMetadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"siteUrl"`
	Author      Author `yaml:"author"`
	Social      Social `yaml:"social"`
}

type Author struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
}

type Social struct {
	Twitter string `yaml:"twitter"`
	GitHub  string `yaml:"github"`
}

// SiteTitle returns the configured title, or FallbackTitle when the query
// produced none.
func (d PageData) SiteTitle() string {
	if m := d.Site.SiteMetadata; m != nil {
		if t := strings.TrimSpace(m.Title); t != "" {
			return t
		}
	}
	return FallbackTitle
}

// Metadata returns the metadata block, or a zero value when absent.
func (d PageData) Metadata() SiteMetadata {
	if d.Site.SiteMetadata == nil {
		return SiteMetadata{}
	}
	return *d.Site.SiteMetadata
}

// Parse decodes a metadata document. The siteMetadata block may sit at the
// top level or under a site key.
func Parse(b []byte) (PageData, error) {
	var doc struct {
		Site         Site          `yaml:"site"`
		SiteMetadata *SiteMetadata `yaml:"siteMetadata"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return PageData{}, fmt.Errorf("content: parse metadata: %w", err)
	}
	data := PageData{Site: doc.Site}
	if doc.SiteMetadata != nil {
		data.Site.SiteMetadata = doc.SiteMetadata
	}
	return data, nil
}

// Query reads and parses the metadata file at path.
func Query(path string) (PageData, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return PageData{}, nil
	}
	if err != nil {
		return PageData{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(b)
}

// Source holds the latest resolved PageData. It is safe for concurrent use.
type Source struct {
	path string
	data atomic.Pointer[PageData]
}

// NewSource resolves path once and returns a Source serving the result.
func NewSource(path string) (*Source, error) {
	data, err := Query(path)
	if err != nil {
		return nil, err
	}
	s := &Source{path: path}
	s.data.Store(&data)
	return s, nil
}

// Static returns a Source serving data that never reloads.
func Static(data PageData) *Source {
	s := &Source{}
	s.data.Store(&data)
	return s
}

// Path returns the file the source was resolved from.
func (s *Source) Path() string {
	return s.path
}

// Current returns the most recently resolved data.
func (s *Source) Current() PageData {
	return *s.data.Load()
}

// Reload re-runs the query. On error the previous data is kept.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := Query(s.path)
	if err != nil {
		return err
	}
	s.data.Store(&data)
	return nil
}
