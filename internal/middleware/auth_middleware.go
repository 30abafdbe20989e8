package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the login session, the flash queue
// and the session joined-set.
const SessionName = "chat-session"

// SessionUser is the logged-in identity carried in the session cookie.
type SessionUser struct {
	ID   uint
	Name string
	Role string
}

type contextKey string

const userKey contextKey = "user"

// UserFrom extracts the authenticated user placed in the request
// context by Auth.
func UserFrom(ctx context.Context) (SessionUser, bool) {
	user, ok := ctx.Value(userKey).(SessionUser)
	return user, ok
}

// Auth requires a logged-in session and puts the user in the request
// context; anonymous requests are sent to the login page.
func Auth(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, SessionName)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		id, ok1 := session.Values["id"].(uint)
		name, ok2 := session.Values["name"].(string)
		role, ok3 := session.Values["role"].(string)

		if !(ok1 && ok2 && ok3) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user := SessionUser{ID: id, Name: name, Role: role}
		r = r.WithContext(context.WithValue(r.Context(), userKey, user))

		next(w, r)
	}
}
