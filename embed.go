package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// theme.js, site.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
