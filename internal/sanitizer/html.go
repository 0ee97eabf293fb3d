// Package sanitizer strips dangerous HTML from user-submitted content
// before it is stored. Post bodies come from a rich-text editor and keep a
// generous tag set; comments keep only basic formatting.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	postPolicy    *bluemonday.Policy
	commentPolicy *bluemonday.Policy
	initOnce      sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Post bodies: the UGC policy covers the output of a rich-text
		// editor (headings, images, links, formatting) while still removing
		// scripts, event handlers, and javascript: URLs.
		postPolicy = bluemonday.UGCPolicy()

		// Comments: basic inline formatting only.
		commentPolicy = bluemonday.NewPolicy()
		commentPolicy.AllowStandardURLs()
		commentPolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"code", "pre", "blockquote",
		)
		commentPolicy.AllowAttrs("href").OnElements("a")
		commentPolicy.RequireNoFollowOnLinks(true)
	})
}

// PostBody sanitizes a post body for storage.
func PostBody(s string) string {
	initPolicies()
	return postPolicy.Sanitize(s)
}

// CommentBody sanitizes a comment for storage.
func CommentBody(s string) string {
	initPolicies()
	return commentPolicy.Sanitize(s)
}
