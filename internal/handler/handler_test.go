package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/handler"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/repository/sqlite"
	"github.com/sakif/blogstack/internal/service"
)

// env wires real services over an in-memory database, with templates
// reduced to the fields the assertions look for.
type env struct {
	db       *sqlite.DB
	sessions *auth.SessionService
	auths    *service.AuthService
	blog     *service.BlogService

	authH  *handler.AuthHandler
	blogH  *handler.BlogHandler
	adminH *handler.AdminHandler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	writeTestTemplates(t, dir)

	logger := testLogger()
	renderer, err := handler.NewRenderer(dir, logger)
	require.NoError(t, err)

	sessions, err := auth.NewSessionService("test-secret-0123456789abcdef", false)
	require.NoError(t, err)

	auths := service.NewAuthService(db, auth.NewPasswordServiceForTest(4), logger)
	blog := service.NewBlogService(db, db, logger)

	return &env{
		db:       db,
		sessions: sessions,
		auths:    auths,
		blog:     blog,
		authH:    handler.NewAuthHandler(auths, sessions, renderer, logger),
		blogH:    handler.NewBlogHandler(blog, renderer, logger),
		adminH:   handler.NewAdminHandler(blog, renderer, logger),
	}
}

func writeTestTemplates(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"layout.html": `{{define "layout"}}{{with .Flash}}[flash:{{.Category}}:{{.Text}}]{{end}}{{template "content" .}}{{end}}`,
		"index.html": `{{define "content"}}{{range .Posts}}<post>{{.Title}} by {{.AuthorName}}</post>{{end}}{{end}}`,
		"post.html": `{{define "content"}}<h1>{{.Post.Title}}</h1>{{safeHTML .Post.Body}}{{range .Comments}}<comment avatar="{{.AvatarURL}}">{{safeHTML .Body}}</comment>{{end}}{{end}}`,
		"login.html": `{{define "content"}}login{{with .Error}}<error>{{.}}</error>{{end}}{{end}}`,
		"register.html": `{{define "content"}}register{{with .Error}}<error>{{.}}</error>{{end}}{{end}}`,
		"make-post.html": `{{define "content"}}{{.Heading}}{{with .Error}}<error>{{.}}</error>{{end}}<title-field>{{.Form.Title}}</title-field>{{end}}`,
		"about.html":   `{{define "content"}}about{{end}}`,
		"contact.html": `{{define "content"}}contact{{end}}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
}

// registerUser creates an account through the service. The first call per
// env produces the admin.
func (e *env) registerUser(t *testing.T, name, email, password string) *model.User {
	t.Helper()
	user, err := e.auths.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return user
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// asUser attaches a logged-in user to the request, standing in for the
// WithUser middleware.
func asUser(req *http.Request, user *model.User) *http.Request {
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func cookieValue(t *testing.T, rr *httptest.ResponseRecorder, name string) (string, bool) {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
