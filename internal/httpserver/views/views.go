// Package views renders the HTML pages of the web front.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	PageIndex    = "index.html"
	PageShared   = "shared.html"
	PageNotFound = "notfound.html"
)

var shared = []string{"templates/layout.html", "templates/offers.html"}

// IndexPage is the search form and result list.
type IndexPage struct {
	View      session.View
	Catalog   *catalog.Catalog
	Form      domain.Address
	FormError string
}

// SharedPage is the read-only view of a share snapshot.
type SharedPage struct {
	ShareID string
	Offers  []session.Card
	Error   string
}

// NotFoundPage is rendered for unknown paths.
type NotFoundPage struct {
	Path string
}

// Renderer holds one template set per page, each combined with the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"contains":    contains,
		"detailLabel": func(d domain.Detail) string { l, _ := d.Label(); return l },
		"detailRest":  func(d domain.Detail) string { _, r := d.Label(); return r },
		"num":         num,
		"months":      months,
	}

	r := &Renderer{pages: make(map[string]*template.Template, 3)}
	for _, page := range []string{PageIndex, PageShared, PageNotFound} {
		files := append(append([]string{}, shared...), "templates/"+page)
		t, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse templates for %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render executes page into a buffer and writes it with status, so a
// template error never produces a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return domain.FormatNumber(*v)
}

func months(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v) + " months"
}
