package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aimerkz/yatube/internal/middleware"
	"github.com/aimerkz/yatube/internal/models"
)

//go:embed templates
var templateFS embed.FS

// view is the data every page template receives.
type view struct {
	Title   string
	User    *models.User
	Flashes []string
	Data    any
}

// textPolicy only lets through the <br> tags richText inserts.
var textPolicy = bluemonday.NewPolicy().AllowElements("br")

// richText renders user text as plain text with line breaks. Markup in the
// text is shown escaped, never interpreted.
func richText(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	escaped := template.HTMLEscapeString(text)
	return template.HTML(textPolicy.Sanitize(strings.ReplaceAll(escaped, "\n", "<br>")))
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006 15:04")
}

func mediaURL(name string) string {
	return "/media/" + name
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// NewRenderer parses the embedded templates. Each page is parsed together
// with base.html and the shared includes.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"richtext": richText,
		"date":     formatDate,
		"media":    mediaURL,
	}

	includes, err := fs.Glob(templateFS, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}

	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, includes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse includes: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template), fragments: fragments}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		files := append([]string{"templates/base.html", page}, includes...)
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Fragment renders a shared include, such as "feed", to bytes.
func (r *Renderer) Fragment(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// page renders a full page inside the base layout. The output is buffered
// so a template error still produces a clean 500.
func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := s.renderer.pages[name]
	if !ok {
		s.logger.Error("Unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	v := view{
		Title:   title,
		User:    middleware.CurrentUser(r.Context()),
		Flashes: s.flashes.Pop(w, r),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", v); err != nil {
		s.logger.Error("Template execution failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("Response write failed", "error", err)
	}
}

// serverError logs err and renders the 500 page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	s.page(w, r, http.StatusInternalServerError, "server_error.html", "Server error", nil)
}

// notFound renders the 404 page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusNotFound, "not_found.html", "Page not found", struct{ Path string }{r.URL.Path})
}
