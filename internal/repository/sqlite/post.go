package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/model"
	"github.com/sakif/blogstack/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// CreatePost inserts a new post and fills in the generated ID. The Date
// display string is stamped by the service before this call and stored as-is.
// A duplicate title surfaces as apperror.ErrConflict.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, subtitle, date, body, img_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
	)
	if err != nil {
		if isUniqueViolation(err, "posts.title") {
			return apperror.Conflict("title", "A post with that title already exists.")
		}
		return fmt.Errorf("sqlite: creating post %q: %w", post.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetPostByID retrieves a single post joined with its author's display name.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (db *DB) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, u.name
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Subtitle,
		&p.Date,
		&p.Body,
		&p.ImgURL,
		&p.AuthorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &p, nil
}

// ListPosts returns every post, newest first, each joined with its author's
// display name. The home page shows the full list; there is no pagination.
func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, u.name
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Subtitle,
			&p.Date, &p.Body, &p.ImgURL, &p.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePost rewrites the mutable columns of an existing post: title,
// subtitle, img_url, body, and author_id. The date column is immutable —
// posts keep the date string they were published under.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, subtitle = ?, img_url = ?, body = ?, author_id = ?
		 WHERE id = ?`,
		post.Title,
		post.Subtitle,
		post.ImgURL,
		post.Body,
		post.AuthorID,
		post.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "posts.title") {
			return apperror.Conflict("title", "A post with that title already exists.")
		}
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeletePost removes a post. The ON DELETE CASCADE on comments.post_id
// removes its comments in the same statement (foreign_keys pragma is on).
func (db *DB) DeletePost(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
