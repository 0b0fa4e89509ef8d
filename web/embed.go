// Package web bundles the blog's templates and stylesheet into the binary.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed all:templates
	templates embed.FS

	//go:embed static
	static embed.FS
)

// TemplateFS holds templates/layouts and templates/pages.
var TemplateFS fs.FS = templates

// Static returns the assets served under /static/, rooted at the static
// directory.
func Static() (fs.FS, error) {
	return fs.Sub(static, "static")
}
