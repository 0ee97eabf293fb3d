package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/flash"
	"github.com/sakif/blogstack/internal/service"
)

// AuthHandler serves the register, login, and logout routes.
type AuthHandler struct {
	auths    *service.AuthService
	sessions *auth.SessionService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auths *service.AuthService, sessions *auth.SessionService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:    auths,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "register", http.StatusOK, nil)
}

// HandleRegister creates an account from the submitted form and logs the new
// user straight in. A duplicate email redirects to the login page with a
// flash instead of re-rendering the form.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auths.Register(r.Context(), name, email, password)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			flash.Set(w, userMessage(err, "You've already signed up with that email. Login instead."), flash.Error)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, apperror.ErrValidation):
			h.renderer.Render(w, r, "register", http.StatusUnprocessableEntity, map[string]any{
				"Error": userMessage(err, "Please fill in all fields."),
				"Name":  name,
				"Email": email,
			})
		default:
			h.renderer.renderError(w, r, err)
		}
		return
	}

	if err := h.sessions.SetCookie(w, user.ID); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginPage renders the login form.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "login", http.StatusOK, nil)
}

// HandleLogin checks the submitted credentials and issues a session. Any
// credential failure shows the same flash and never says which part failed.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auths.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			flash.Set(w, userMessage(err, "Incorrect login information."), flash.Error)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	if err := h.sessions.SetCookie(w, user.ID); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	flash.Set(w, "You have been successfully logged in.", flash.Success)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie and sends the user home.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	flash.Set(w, "You have been successfully logged out.", flash.Success)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
