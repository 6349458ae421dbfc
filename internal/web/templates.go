package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/desertthunder/walkerbrain/internal/formatter"
	"github.com/desertthunder/walkerbrain/internal/server"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Shared templates parsed into every page set.
var sharedTemplates = []string{"templates/layout.html", "templates/partials.html"}

// Templates holds one parsed set per page template, each carrying the layout and partials.
type Templates struct {
	sets map[string]*template.Template
}

var funcMap = template.FuncMap{
	"humanize": formatter.Humanize,
	"title":    formatter.Title,
	"truncate": formatter.Truncate,
	"shortID":  formatter.ShortID,
	"count":    formatter.FormatCount,
	"number":   formatter.FormatNumber,
	"join":     strings.Join,
	"has":      func(list []string, v string) bool { return slices.Contains(list, v) },
	"figure":   figureJSON,
	"pct":      func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"add":      func(a, b int) int { return a + b },
}

func figureJSON(f *Figure) string {
	if f == nil {
		return ""
	}
	return f.JSON()
}

// ParseTemplates parses the embedded templates. Every file other than the shared ones becomes
// a set named after the file without its extension.
func ParseTemplates() (*Templates, error) {
	base, err := template.New("base").Funcs(funcMap).ParseFS(templateFS, sharedTemplates...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse shared templates: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	t := &Templates{sets: map[string]*template.Template{}}
	for _, file := range files {
		if slices.Contains(sharedTemplates, file) {
			continue
		}
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		t.sets[strings.TrimSuffix(path.Base(file), ".html")] = set
	}
	return t, nil
}

// Has reports whether a template set exists.
func (t *Templates) Has(name string) bool {
	_, ok := t.sets[name]
	return ok
}

// Render executes the entry template of the named set into a buffer so a failure never
// leaves a half-written page.
func (t *Templates) Render(name, entry string, data any) ([]byte, error) {
	set, ok := t.sets[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, entry, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// NavItem is one navigation link.
type NavItem struct {
	Label  string
	URL    string
	Active bool
	Admin  bool
}

// PageLayout is the data the layout template executes with.
type PageLayout struct {
	View    *View
	Nav     []NavItem
	Session server.SessionContext
	Role    string
}

func newPageLayout(v *View, sess server.SessionContext) PageLayout {
	l := PageLayout{View: v, Session: sess, Role: sess.Role.String()}
	for _, p := range Pages() {
		if !p.Visible(sess) {
			continue
		}
		l.Nav = append(l.Nav, NavItem{
			Label:  p.Label(),
			URL:    p.Path(),
			Active: p == v.Page,
			Admin:  p.AdminOnly(),
		})
	}
	return l
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
