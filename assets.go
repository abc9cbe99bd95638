//go:build !dev

package main

import (
	"embed"
	"io/fs"
)

//go:embed web
var embeddedWeb embed.FS

func getFrontendFS() (fs.FS, error) {
	return fs.Sub(embeddedWeb, "web")
}
