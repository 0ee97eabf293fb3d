// Package gravatar builds avatar image URLs for comment authors from their
// email addresses, following the gravatar.com convention: an md5 of the
// trimmed, lowercased email selects the image.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// Defaults match the avatars the blog has always shown: 100px, G-rated,
// "retro" generated fallback for addresses without a gravatar.
const (
	defaultSize   = 100
	defaultRating = "g"
	defaultImage  = "retro"
)

// URL returns the avatar URL for the given email.
func URL(email string) string {
	return URLWithSize(email, defaultSize)
}

// URLWithSize returns the avatar URL at a specific pixel size.
func URLWithSize(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))

	q := url.Values{}
	q.Set("s", fmt.Sprintf("%d", size))
	q.Set("d", defaultImage)
	q.Set("r", defaultRating)

	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
