package session

import (
	"net/http"
)

const flashCookie = "flash"

// Flash topics.
const (
	KeyAuth    = "auth"
	KeyAdmin   = "admin"
	KeyProduct = "product"
	KeyOrder   = "order"
	KeyRoot    = "root"
)

// Messages holds queued flash messages by topic.
type Messages map[string][]string

// SetFlash queues msg under key for the next rendered response, replacing
// anything still queued. The cookie is signed with the session key.
func (m *Manager) SetFlash(w http.ResponseWriter, key, msg string) error {
	_, tokenString, err := m.auth.Encode(map[string]interface{}{
		"flash_key": key,
		"flash_msg": msg,
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ConsumeFlash returns the queued messages and clears them. A message is
// never returned twice, and a cookie that fails verification yields none.
func (m *Manager) ConsumeFlash(w http.ResponseWriter, r *http.Request) Messages {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return Messages{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	token, err := m.auth.Decode(c.Value)
	if err != nil || token == nil {
		return Messages{}
	}
	rawKey, _ := token.Get("flash_key")
	rawMsg, _ := token.Get("flash_msg")
	key, _ := rawKey.(string)
	msg, _ := rawMsg.(string)
	if key == "" || msg == "" {
		return Messages{}
	}
	return Messages{key: {msg}}
}
