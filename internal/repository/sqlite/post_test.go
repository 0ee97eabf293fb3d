package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/blogstack/internal/apperror"
	"github.com/sakif/blogstack/internal/model"
)

func createTestPost(t *testing.T, db *DB, authorID int64, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "a subtitle",
		Date:     "October 10, 2022",
		Body:     "<p>hello</p>",
		ImgURL:   "https://example.com/cover.png",
	}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")

	post := createTestPost(t, db, author.ID, "First Post")
	if post.ID == 0 {
		t.Error("CreatePost() did not set post.ID")
	}

	found, err := db.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if found.Title != "First Post" {
		t.Errorf("Title = %q, want %q", found.Title, "First Post")
	}
	if found.Date != "October 10, 2022" {
		t.Errorf("Date = %q, want the stamped string back unchanged", found.Date)
	}
	if found.AuthorName != "Author" {
		t.Errorf("AuthorName = %q, want %q", found.AuthorName, "Author")
	}
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")
	createTestPost(t, db, author.ID, "Unique Title")

	dup := &model.Post{
		AuthorID: author.ID,
		Title:    "Unique Title",
		Subtitle: "s",
		Date:     "d",
		Body:     "b",
		ImgURL:   "i",
	}
	err := db.CreatePost(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreatePost() error = %v, want ErrConflict", err)
	}
}

func TestGetPostByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPostByID(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID() error = %v, want ErrNotFound", err)
	}
}

func TestListPosts_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")

	createTestPost(t, db, author.ID, "older")
	newer := createTestPost(t, db, author.ID, "newer")

	posts, err := db.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPosts() returned %d posts, want 2", len(posts))
	}
	if posts[0].ID != newer.ID {
		t.Errorf("first listed post = %d, want newest %d", posts[0].ID, newer.ID)
	}
}

func TestUpdatePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")
	editor := createTestUser(t, db, "editor@example.com", "Editor")
	post := createTestPost(t, db, author.ID, "Before")

	post.Title = "After"
	post.Subtitle = "new subtitle"
	post.Body = "<p>edited</p>"
	post.AuthorID = editor.ID

	if err := db.UpdatePost(context.Background(), post); err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}

	found, err := db.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID() after update error = %v", err)
	}
	if found.Title != "After" {
		t.Errorf("Title = %q, want %q", found.Title, "After")
	}
	if found.AuthorID != editor.ID {
		t.Errorf("AuthorID = %d, want reassigned to %d", found.AuthorID, editor.ID)
	}
	if found.Date != "October 10, 2022" {
		t.Errorf("Date = %q, want unchanged original date", found.Date)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author@example.com", "Author")

	post := &model.Post{ID: 404, AuthorID: author.ID, Title: "t", Subtitle: "s", Date: "d", Body: "b", ImgURL: "i"}
	if err := db.UpdatePost(context.Background(), post); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdatePost() error = %v, want ErrNotFound", err)
	}
}

func TestDeletePost_CascadesComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	reader := createTestUser(t, db, "reader@example.com", "Reader")
	post := createTestPost(t, db, author.ID, "Commented Post")

	c1 := &model.Comment{PostID: post.ID, AuthorID: reader.ID, Body: "first!"}
	c2 := &model.Comment{PostID: post.ID, AuthorID: reader.ID, Body: "second"}
	if err := db.CreateComment(ctx, c1); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if err := db.CreateComment(ctx, c2); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := db.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}

	if _, err := db.GetPostByID(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetPostByID() after delete: error = %v, want ErrNotFound", err)
	}

	// The cascade must have removed both comments.
	for _, id := range []int64{c1.ID, c2.ID} {
		if _, err := db.GetCommentByID(ctx, id); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("GetCommentByID(%d) after post delete: error = %v, want ErrNotFound", id, err)
		}
	}

	comments, err := db.ListCommentsByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListCommentsByPost() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("ListCommentsByPost() after delete returned %d comments, want 0", len(comments))
	}
}

// The cascade must hold on every connection the pool opens, not just the one
// that was open at startup: foreign_keys is per-connection, so it has to
// arrive via the DSN. This test evicts the startup connection and runs the
// delete on a fresh one.
func TestDeletePost_CascadesOnFreshConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "cascade.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	author := createTestUser(t, db, "author@example.com", "Author")
	post := createTestPost(t, db, author.ID, "Pooled Post")

	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID, Body: "still here?"}
	if err := db.CreateComment(ctx, comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	// Close all idle connections so the next statement opens a new one.
	db.conn.SetMaxIdleConns(0)
	db.conn.SetMaxOpenConns(1)

	if err := db.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}

	if _, err := db.GetCommentByID(ctx, comment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("comment survived post delete on a fresh connection: error = %v, want ErrNotFound", err)
	}
}

func TestDeletePost_NotFound(t *testing.T) {
	db := newTestDB(t)

	if err := db.DeletePost(context.Background(), 404); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("DeletePost() error = %v, want ErrNotFound", err)
	}
}
