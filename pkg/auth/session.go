package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Store is the global session store for the login flow.
// It holds temporary state while the user is redirected to the identity
// provider (anti-forgery state and the URL to return to afterwards).
var Store *sessions.CookieStore

// SessionName is the name of the login-flow session cookie.
const SessionName = "fs-login"

// Session value keys.
const (
	SessionKeyState       = "state"
	SessionKeyOriginalURL = "original_url"
)

// InitSessionStore initializes the cookie-based session store used during
// the login redirect flow.
//
// The secret parameter signs session cookies. It can be any passphrase -
// it is SHA-256 hashed to derive a 32-byte key - and must be consistent
// across server restarts and load-balanced instances.
//
// The session has a short TTL (10 minutes) since it only needs to persist
// for the duration of the redirect to the identity provider and back.
func InitSessionStore(secret string, secure bool) {
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetSession retrieves the login-flow session from the request.
// Creates a new session if one doesn't exist.
func GetSession(r *http.Request) (*sessions.Session, error) {
	return Store.Get(r, SessionName)
}

// SaveSession saves the session to the response.
func SaveSession(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return session.Save(r, w)
}

// ClearSessionValues removes login-flow values from the session.
// Called after the identity provider redirects back successfully.
func ClearSessionValues(session *sessions.Session) {
	delete(session.Values, SessionKeyState)
	delete(session.Values, SessionKeyOriginalURL)
}
