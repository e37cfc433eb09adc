package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteTitleFallback(t *testing.T) {
	assert.Equal(t, "Title", PageData{}.SiteTitle())
	assert.Equal(t, "Title", PageData{Site: Site{SiteMetadata: &SiteMetadata{}}}.SiteTitle())
	assert.Equal(t, "Title", PageData{Site: Site{SiteMetadata: &SiteMetadata{Title: "   "}}}.SiteTitle())
	assert.Equal(t, "My Blog", PageData{Site: Site{SiteMetadata: &SiteMetadata{Title: "My Blog"}}}.SiteTitle())
}

func TestParse(t *testing.T) {
	data, err := Parse([]byte(`
siteMetadata:
  title: My Blog
  description: Notes
  author:
    name: Jane Doe
    summary: who writes about Go.
  social:
    github: janedoe
`))
	require.NoError(t, err)
	assert.Equal(t, "My Blog", data.SiteTitle())
	m := data.Metadata()
	assert.Equal(t, "Jane Doe", m.Author.Name)
	assert.Equal(t, "janedoe", m.Social.GitHub)

	nested, err := Parse([]byte("site:\n  siteMetadata:\n    title: Nested\n"))
	require.NoError(t, err)
	assert.Equal(t, "Nested", nested.SiteTitle())

	empty, err := Parse([]byte("siteMetadata:\n"))
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, empty.SiteTitle())
	assert.Equal(t, SiteMetadata{}, empty.Metadata())

	_, err = Parse([]byte("siteMetadata: [unclosed"))
	assert.Error(t, err)
}

func TestQueryMissingFileIsEmpty(t *testing.T) {
	data, err := Query(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, data.SiteTitle())
}

func TestSourceReloadKeepsDataOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("siteMetadata:\n  title: First\n"), 0o644))

	s, err := NewSource(path)
	require.NoError(t, err)
	assert.Equal(t, "First", s.Current().SiteTitle())

	require.NoError(t, os.WriteFile(path, []byte("siteMetadata: [broken"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, "First", s.Current().SiteTitle())

	require.NoError(t, os.WriteFile(path, []byte("siteMetadata:\n  title: Second\n"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "Second", s.Current().SiteTitle())
}

type testLogger struct{ t *testing.T }

func (l testLogger) Infof(format string, args ...interface{}) { l.t.Logf(format, args...) }
func (l testLogger) Warnf(format string, args ...interface{}) { l.t.Logf(format, args...) }

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("siteMetadata:\n  title: Before\n"), 0o644))
	s, err := NewSource(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan PageData, 4)
	require.NoError(t, s.Watch(ctx, 10*time.Millisecond, testLogger{t}, func(d PageData) { reloaded <- d }))

	require.NoError(t, os.WriteFile(path, []byte("siteMetadata:\n  title: After\n"), 0o644))
	select {
	case d := <-reloaded:
		assert.Equal(t, "After", d.SiteTitle())
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
	assert.Equal(t, "After", s.Current().SiteTitle())
}

func TestWatchStaticSourceFails(t *testing.T) {
	s := Static(PageData{})
	assert.Error(t, s.Watch(context.Background(), time.Millisecond, testLogger{t}, nil))
	assert.NoError(t, s.Reload())
}
