package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/flash"
	"github.com/sakif/blogstack/internal/gravatar"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/service"
)

// BlogHandler serves the public pages: post list, individual posts with
// their comments, and the static about/contact pages.
type BlogHandler struct {
	blog     *service.BlogService
	renderer *Renderer
	logger   *slog.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(blog *service.BlogService, renderer *Renderer, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, renderer: renderer, logger: logger}
}

// commentView pairs a comment with its author's avatar URL for the template.
type commentView struct {
	model.Comment
	AvatarURL string
}

// HandleIndex renders the home page with every post, newest first.
func (h *BlogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.Render(w, r, "index", http.StatusOK, map[string]any{
		"Posts": posts,
	})
}

// HandleShowPost renders a single post with its comments. An id that doesn't
// resolve to a post is a 404, whether it never existed or was deleted.
func (h *BlogHandler) HandleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, comments, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	views := make([]commentView, len(comments))
	for i, c := range comments {
		views[i] = commentView{
			Comment:   c,
			AvatarURL: gravatar.URL(c.AuthorEmail),
		}
	}

	h.renderer.Render(w, r, "post", http.StatusOK, map[string]any{
		"Post":     post,
		"Comments": views,
	})
}

// HandleCreateComment saves a comment on the post and redirects back to it.
// The route is behind RequireUser; the service refuses anonymous authors
// regardless.
func (h *BlogHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	if _, err := h.blog.CreateComment(r.Context(), user, id, r.FormValue("comment")); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			flash.Set(w, userMessage(err, "Your comment could not be posted."), flash.Error)
			http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

// HandleAbout renders the about page.
func (h *BlogHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "about", http.StatusOK, nil)
}

// HandleContact renders the contact page.
func (h *BlogHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "contact", http.StatusOK, nil)
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("handler: invalid id %q", r.PathValue("id"))
	}
	return id, nil
}
