package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/pkg/errors"
)

// Page names understood by a Renderer.
const (
	PageHome       = "home"
	PageUsers      = "users"
	PageUserNew    = "user_new"
	PageUserDetail = "user_detail"
	PageUserEdit   = "user_edit"
	PagePostNew    = "post_new"
	PagePostDetail = "post_detail"
	PagePostEdit   = "post_edit"
	PageTags       = "tags"
	PageTagNew     = "tag_new"
	PageTagDetail  = "tag_detail"
	PageTagEdit    = "tag_edit"
	PageNotFound   = "not_found"
	PageError      = "error"
)

var pages = []string{
	PageHome, PageUsers, PageUserNew, PageUserDetail, PageUserEdit,
	PagePostNew, PagePostDetail, PagePostEdit,
	PageTags, PageTagNew, PageTagDetail, PageTagEdit,
	PageNotFound, PageError,
}

// Renderer turns a page name and its data into a response.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

//go:embed templates/*.html
var templateFS embed.FS

// HTMLRenderer renders the embedded html/template pages inside base.html.
type HTMLRenderer struct {
	pages map[string]*template.Template
}

// NewHTMLRenderer parses every page once.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", page)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (r *HTMLRenderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return errors.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return errors.Wrapf(err, "execute %s", page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err //nolint:wrapcheck // client went away
}
