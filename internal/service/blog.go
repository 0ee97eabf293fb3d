package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/repository"
	"github.com/sakif/blogstack/internal/sanitizer"
)

// Validation limits for post and comment fields.
const (
	MaxTitleLength    = 250
	MaxSubtitleLength = 250
	MaxImgURLLength   = 250
	MaxBodyLength     = 200000
	MaxCommentLength  = 10000
)

// postDateFormat renders dates like "October 10, 2022". The string is
// stamped once at creation and stored; it is display text, not a timestamp.
const postDateFormat = "January 2, 2006"

// BlogService handles the business rules for posts and comments.
type BlogService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger

	// now is swappable in tests to pin the stamped date.
	now func() time.Time
}

// NewBlogService creates a BlogService.
func NewBlogService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		logger:   logger,
		now:      time.Now,
	}
}

// ListPosts returns every post, newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a post with its comments. Returns apperror.ErrNotFound
// when the ID doesn't resolve.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*model.Post, []model.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.ListCommentsByPost(ctx, id)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.Int64("postID", id),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("listing comments for post %d: %w", id, err)
	}

	return post, comments, nil
}

// CreatePost validates the form fields, sanitizes the body, stamps the
// display date, and saves the post attributed to author. A duplicate title
// propagates as apperror.ErrConflict with nothing written.
func (s *BlogService) CreatePost(ctx context.Context, author *model.User, title, subtitle, imgURL, body string) (*model.Post, error) {
	if author == nil {
		return nil, apperror.Unauthenticated("login required")
	}

	if err := validatePostFields(&title, &subtitle, &imgURL, body); err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID: author.ID,
		Title:    title,
		Subtitle: subtitle,
		Date:     s.now().Format(postDateFormat),
		Body:     sanitizer.PostBody(body),
		ImgURL:   imgURL,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.String("title", post.Title),
		slog.Int64("authorID", author.ID),
	)

	return post, nil
}

// UpdatePost rewrites an existing post's title, subtitle, image, and body,
// and reassigns authorship to the editing admin. The stored date string is
// left untouched.
func (s *BlogService) UpdatePost(ctx context.Context, editor *model.User, id int64, title, subtitle, imgURL, body string) (*model.Post, error) {
	if editor == nil {
		return nil, apperror.Unauthenticated("login required")
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePostFields(&title, &subtitle, &imgURL, body); err != nil {
		return nil, err
	}

	post.Title = title
	post.Subtitle = subtitle
	post.ImgURL = imgURL
	post.Body = sanitizer.PostBody(body)
	post.AuthorID = editor.ID

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated",
		slog.Int64("postID", post.ID),
		slog.Int64("editorID", editor.ID),
	)

	return post, nil
}

// DeletePost removes a post and (via the store's cascade) its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post deleted", slog.Int64("postID", id))
	return nil
}

// CreateComment validates and saves a comment by author on the given post.
// The author must be authenticated — the guard enforces it at the route, and
// this check backs it up so no call path can write an unattributed comment.
func (s *BlogService) CreateComment(ctx context.Context, author *model.User, postID int64, body string) (*model.Comment, error) {
	if author == nil {
		return nil, apperror.Unauthenticated("You need to log in or register to comment.")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperror.ValidationFailed("comment", "comment cannot be empty")
	}
	if len(body) > MaxCommentLength {
		return nil, apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	// Confirm the post still exists so the user gets a 404 rather than a
	// bare constraint error if it was deleted meanwhile.
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		Body:     sanitizer.CommentBody(body),
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.Int64("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
		slog.Int64("authorID", author.ID),
	)

	return comment, nil
}

func validatePostFields(title, subtitle, imgURL *string, body string) error {
	*title = strings.TrimSpace(*title)
	*subtitle = strings.TrimSpace(*subtitle)
	*imgURL = strings.TrimSpace(*imgURL)

	switch {
	case *title == "":
		return apperror.ValidationFailed("title", "title is required")
	case len(*title) > MaxTitleLength:
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	case *subtitle == "":
		return apperror.ValidationFailed("subtitle", "subtitle is required")
	case len(*subtitle) > MaxSubtitleLength:
		return apperror.ValidationFailed("subtitle",
			fmt.Sprintf("subtitle must be %d characters or less", MaxSubtitleLength))
	case *imgURL == "":
		return apperror.ValidationFailed("img_url", "image URL is required")
	case len(*imgURL) > MaxImgURLLength:
		return apperror.ValidationFailed("img_url",
			fmt.Sprintf("image URL must be %d characters or less", MaxImgURLLength))
	case strings.TrimSpace(body) == "":
		return apperror.ValidationFailed("body", "body is required")
	case len(body) > MaxBodyLength:
		return apperror.ValidationFailed("body",
			fmt.Sprintf("body must be %d characters or less", MaxBodyLength))
	}
	return nil
}
