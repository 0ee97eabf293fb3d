// Package flash implements one-shot notification messages carried in a
// cookie: a handler queues a message, the next rendered page displays it,
// and reading it deletes it.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

// Categories understood by the templates.
const (
	Success = "success"
	Error   = "error"
)

// Message is a single queued notification.
type Message struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Set queues a flash message for the next rendered page. The value is
// base64-encoded JSON so it survives cookie character restrictions; the
// content is server-chosen text, never user input, so it is not signed.
func Set(w http.ResponseWriter, text, category string) {
	data, err := json.Marshal(Message{Text: text, Category: category})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and deletes the pending flash message.
// Returns (Message{}, false) when none is queued or the value is malformed.
func Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return Message{}, false
	}

	// Delete after reading — flash messages show exactly once.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Message{}, false
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, false
	}
	return msg, true
}
