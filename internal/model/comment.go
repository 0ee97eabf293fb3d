package model

import "time"

// Comment is a reader's remark on a post. Comments are append-only: no route
// edits or deletes them directly, but deleting the parent post cascades.
type Comment struct {
	ID        int64     `json:"id"        db:"id"`
	PostID    int64     `json:"postId"    db:"post_id"`
	AuthorID  int64     `json:"authorId"  db:"author_id"`
	Body      string    `json:"body"      db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined author fields for rendering.
	AuthorName  string `json:"authorName"  db:"-"`
	AuthorEmail string `json:"authorEmail" db:"-"`
}
