// Package assets bundles the files the binary needs at runtime: the default
// sentence catalog, HTML templates, and static files for the activity page.
package assets

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed sentences.yaml templates/*.tmpl static/*
var FS embed.FS

// Sentences returns the embedded default catalog (YAML).
func Sentences() ([]byte, error) {
	return FS.ReadFile("sentences.yaml")
}

// StaticFS returns a file system for serving /static assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(FS, "templates/*.tmpl"))
}
