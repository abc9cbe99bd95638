//go:build dev

package main

import (
	"io/fs"
	"os"
)

// getFrontendFS reads the web directory from disk in dev mode so edits show up
// on reload without rebuilding.
func getFrontendFS() (fs.FS, error) {
	return os.DirFS("web"), nil
}
