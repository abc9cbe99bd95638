package cmd

import "io/fs"

// WebFS is set by main() before Execute() is called.
// It holds the flashcard UI assets, embedded or read from disk in dev builds.
var WebFS fs.FS
