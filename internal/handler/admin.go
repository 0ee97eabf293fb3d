package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/auth"
	"github.com/sakif/blogstack/internal/service"
)

// AdminHandler serves the post authoring routes. Every route here sits
// behind the RequireAdmin guard.
type AdminHandler struct {
	blog     *service.BlogService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(blog *service.BlogService, renderer *Renderer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{blog: blog, renderer: renderer, logger: logger}
}

// postForm carries the authoring form fields through validation failures so
// the re-rendered form keeps what the admin typed.
type postForm struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func readPostForm(r *http.Request) postForm {
	return postForm{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		ImgURL:   r.FormValue("img_url"),
		Body:     r.FormValue("body"),
	}
}

// HandleNewPostPage renders the empty authoring form.
func (h *AdminHandler) HandleNewPostPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "make-post", http.StatusOK, map[string]any{
		"Heading": "New Post",
		"Form":    postForm{},
	})
}

// HandleCreatePost creates a post from the submitted form. Validation and
// duplicate-title failures re-render the form with the submitted values and
// nothing written.
func (h *AdminHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	form := readPostForm(r)
	user, _ := auth.UserFromContext(r.Context())

	_, err := h.blog.CreatePost(r.Context(), user, form.Title, form.Subtitle, form.ImgURL, form.Body)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
			h.renderer.Render(w, r, "make-post", http.StatusUnprocessableEntity, map[string]any{
				"Heading": "New Post",
				"Error":   userMessage(err, "Please fill in all fields."),
				"Form":    form,
			})
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleEditPostPage renders the authoring form pre-filled with the post.
func (h *AdminHandler) HandleEditPostPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, _, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, "make-post", http.StatusOK, map[string]any{
		"Heading": "Edit Post",
		"PostID":  post.ID,
		"Form": postForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			ImgURL:   post.ImgURL,
			Body:     post.Body,
		},
	})
}

// HandleUpdatePost rewrites the post from the submitted form. Authorship
// moves to the editing admin; the displayed date stays as first published.
func (h *AdminHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form := readPostForm(r)
	user, _ := auth.UserFromContext(r.Context())

	_, err = h.blog.UpdatePost(r.Context(), user, id, form.Title, form.Subtitle, form.ImgURL, form.Body)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
			h.renderer.Render(w, r, "make-post", http.StatusUnprocessableEntity, map[string]any{
				"Heading": "Edit Post",
				"PostID":  id,
				"Error":   userMessage(err, "Please fill in all fields."),
				"Form":    form,
			})
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

// HandleDeletePost removes the post and its comments, then returns home.
func (h *AdminHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.blog.DeletePost(r.Context(), id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
