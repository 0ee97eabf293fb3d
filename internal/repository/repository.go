// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage is the only implementation; tests use
// hand-written in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/blogstack/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new account. The very first account in the store
	// is created with the admin flag set. Returns apperror.ErrConflict when
	// the email is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type PostRepository interface {
	// CreatePost inserts a post. Returns apperror.ErrConflict when the title
	// is already taken.
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	// DeletePost removes the post and, through the schema's ON DELETE
	// CASCADE, every comment attached to it.
	DeletePost(ctx context.Context, id int64) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}
