// Package web embeds the HTML pages and static assets served by the portal.
package web

import (
	"embed"
	"io/fs"
)

//go:embed pages/*.html
var pages embed.FS

//go:embed static
var static embed.FS

// Pages returns the HTML pages rooted at their directory.
func Pages() fs.FS {
	sub, err := fs.Sub(pages, "pages")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the CSS and JavaScript assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
