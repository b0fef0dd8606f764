package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

//go:embed assets/*.css
var embeddedAssets embed.FS

// TemplatesFS exposes the built-in templates so callers can extend or
// override them with WithTemplatesFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the default stylesheet (lazyform.css) the rendered markup
// is styled by.
//
// Typical mount:
//
//	mux.Handle("/lazyform/",
//	  http.StripPrefix("/lazyform/",
//	    http.FileServerFS(html.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
