package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSessionName = "yatube_flash"

// Flashes keeps one-shot messages in a signed cookie between a redirect and
// the page it lands on.
type Flashes struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

// NewFlashes creates a flash store signed with secret.
func NewFlashes(secret string, secure bool, logger *slog.Logger) *Flashes {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store, logger: logger}
}

// Add queues msg for the next rendered page.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) {
	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		// A cookie signed with an old secret decodes to a fresh session.
		f.logger.Debug("flash session decode failed", "error", err)
	}
	session.AddFlash(msg)
	if err := session.Save(r, w); err != nil {
		f.logger.Warn("flash session save failed", "error", err)
	}
}

// Pop returns and clears the queued messages.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []string {
	if _, err := r.Cookie(flashSessionName); err != nil {
		return nil
	}

	session, err := f.store.Get(r, flashSessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		f.logger.Warn("flash session save failed", "error", err)
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
