// Package content bundles the default lesson script and its images.
package content

import (
	"embed"
	"io/fs"
)

// DefaultLesson is the path of the bundled lesson inside FS.
const DefaultLesson = "lessons/ball-drop.yaml"

// ImagesDir is the directory of the bundled images inside FS.
const ImagesDir = "images"

//go:embed lessons/*.yaml images/*.svg
var files embed.FS

// FS returns the bundled content.
func FS() fs.FS {
	return files
}

// Lesson reads the bundled default script.
func Lesson() ([]byte, error) {
	return fs.ReadFile(files, DefaultLesson)
}
