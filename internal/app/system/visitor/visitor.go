// Package visitor gives every client a stable, anonymous browse id kept in
// a signed cookie. It identifies a browse session; it is not a login.
package visitor

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "studyvault-browse"

const idKey = "browse_id"

type ctxKey string

const visitorIDKey ctxKey = "visitorID"

// Manager issues and reads browse ids.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager builds a cookie store from sessionKey. An empty key gets a
// random one, which means ids do not survive a restart; a key shorter than
// 32 bytes is accepted with a warning.
func NewManager(sessionKey, cookieName string, secure bool, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	key := []byte(sessionKey)
	switch {
	case len(key) == 0:
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("no session key configured; browse ids will reset on restart")
	case len(key) < 32:
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store, name: cookieName, log: logger}
}

// Middleware makes sure the request carries a browse id, issuing a new
// cookie when it does not, and puts the id into the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A cookie signed with a different key yields an error plus a fresh
		// session, which is what we want.
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			m.log.Debug("discarding unreadable browse cookie", zap.Error(err))
		}

		id, _ := sess.Values[idKey].(string)
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.NewString()
			sess.Values[idKey] = id
			if err := sess.Save(r, w); err != nil {
				m.log.Warn("failed to save browse cookie", zap.Error(err))
			}
		}

		next.ServeHTTP(w, WithID(r, id))
	})
}

// ID returns the browse id of the request, if Middleware ran.
func ID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(visitorIDKey).(string)
	return id, ok && id != ""
}

// WithID returns r carrying id. Tests use it to skip the cookie round trip.
func WithID(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), visitorIDKey, id))
}
