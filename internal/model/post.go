package model

// Post is a blog entry authored by the admin.
//
// Title is UNIQUE at the store level. Date is a display string stamped once
// at creation time (e.g. "October 10, 2022") and never recomputed — the
// detail pages show the wording the author published under, not a live
// timestamp. Body holds sanitized HTML from the rich-text editor.
type Post struct {
	ID       int64  `json:"id"       db:"id"`
	AuthorID int64  `json:"authorId" db:"author_id"`
	Title    string `json:"title"    db:"title"`
	Subtitle string `json:"subtitle" db:"subtitle"`
	Date     string `json:"date"     db:"date"`
	Body     string `json:"body"     db:"body"`
	ImgURL   string `json:"imgUrl"   db:"img_url"`

	// AuthorName is populated by joined reads; it is not a column on posts.
	AuthorName string `json:"authorName" db:"-"`
}
