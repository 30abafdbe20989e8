package handler

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// Flash is one flash message with its display category, mirroring the
// categories the templates style (success, danger, warning, info).
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
	gob.Register([]uint(nil))
}

func addFlash(session *sessions.Session, category, message string) {
	session.AddFlash(Flash{Category: category, Message: message})
}

// popFlashes drains the session's flash queue for rendering. The
// session must be saved afterwards or the queue is not cleared.
func popFlashes(session *sessions.Session) []Flash {
	raw := session.Flashes()
	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// The session joined-set: group ids this login session has already
// joined. A cache only; durable membership is the source of truth.

func joinedGroups(session *sessions.Session) []uint {
	joined, _ := session.Values["joined_groups"].([]uint)
	return joined
}

func inJoined(session *sessions.Session, groupID uint) bool {
	for _, id := range joinedGroups(session) {
		if id == groupID {
			return true
		}
	}
	return false
}

func addJoined(session *sessions.Session, groupID uint) {
	if inJoined(session, groupID) {
		return
	}
	session.Values["joined_groups"] = append(joinedGroups(session), groupID)
}

func removeJoined(session *sessions.Session, groupID uint) {
	joined := joinedGroups(session)
	kept := joined[:0]
	for _, id := range joined {
		if id != groupID {
			kept = append(kept, id)
		}
	}
	session.Values["joined_groups"] = kept
}

func saveSession(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	_ = session.Save(r, w)
}
