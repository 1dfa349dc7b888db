// Package web provides embedded static assets (CSS) and the Markdown
// source of the informational pages (about, FAQ, terms...).
package web

import "embed"

// StaticFS embeds the web/static/ directory tree, served at /static/.
//
//go:embed all:static
var StaticFS embed.FS

// ContentFS embeds the Markdown pages under web/content/, one file per
// route, e.g. content/about.md for /about.
//
//go:embed content/*.md
var ContentFS embed.FS
