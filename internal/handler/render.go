// Package handler contains the HTTP handlers: form parsing, template
// rendering, and the mapping from domain errors to redirects, flashes, and
// status codes. No business rules live here.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/flash"
)

// Renderer holds the parsed page templates. Each page is parsed together
// with layout.html and executed through the "layout" root template.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewRenderer parses every *.html page in templateDir against layout.html.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("handler: globbing templates: %w", err)
	}

	// safeHTML marks a string as pre-sanitized HTML. Only use it for post
	// and comment bodies, which the sanitizer cleaned before storage.
	funcs := template.FuncMap{
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFiles(layout, page)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("handler: no page templates found in %s", templateDir)
	}

	return &Renderer{templates: templates, logger: logger}, nil
}

// Render executes the named page template with the given status and data.
// The logged-in user and any pending flash message are injected into the
// data under "User" and "Flash", so every page can show the nav state and
// one-shot notifications without each handler wiring them.
//
// Output is buffered so a mid-render failure produces a clean 500 instead
// of half a page with a 200 already sent.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, status int, data map[string]any) {
	t, ok := rn.templates[name]
	if !ok {
		rn.logger.Error("unknown template", slog.String("name", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = make(map[string]any)
	}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data["User"] = user
	}
	if msg, ok := flash.Pop(w, r); ok {
		data["Flash"] = msg
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError maps a domain error to an HTTP error response. Handlers call
// this for failures that don't have a more specific redirect or re-render.
func (rn *Renderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, apperror.ErrForbidden):
		http.Error(w, "Access Forbidden", http.StatusForbidden)
	case errors.Is(err, apperror.ErrUnauthenticated):
		flash.Set(w, userMessage(err, "You need to log in or register to do that."), flash.Error)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		rn.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// userMessage extracts the user-facing message from an AppError, falling
// back when the error carries none.
func userMessage(err error, fallback string) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
