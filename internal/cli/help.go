package cli

import (
	"embed"
	"io/fs"
)

//go:embed help
var helpFiles embed.FS

// helpTopics returns the embedded help topics rooted at the help folder
func helpTopics() fs.FS {
	sub, err := fs.Sub(helpFiles, "help")
	if err != nil {
		panic(err)
	}
	return sub
}
