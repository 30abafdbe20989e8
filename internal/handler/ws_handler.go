package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/middleware"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/room"
)

// WSHandler upgrades the browser connection and dispatches its socket
// events to the room service.
type WSHandler struct {
	rooms       *room.Service
	cookieStore *sessions.CookieStore
	upgrader    websocket.Upgrader
	logger      logging.Logger
}

func NewWSHandler(rooms *room.Service, cookieStore *sessions.CookieStore, logger logging.Logger) *WSHandler {
	return &WSHandler{
		rooms:       rooms,
		cookieStore: cookieStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, middleware.SessionName)
	if _, loggedIn := session.Values["id"].(uint); !loggedIn {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	client := room.NewClient(conn, r.RemoteAddr)
	go client.WritePump()

	// ReadPump blocks until the connection drops; whatever rooms the
	// client is still in are then left implicitly.
	if err := client.ReadPump(h.dispatch); err != nil {
		h.logger.Logf("socket read from %s failed: %v", r.RemoteAddr, err)
	}
	h.rooms.Disconnect(client)
}

func (h *WSHandler) dispatch(c *room.Client, env room.Envelope) {
	switch env.Event {
	case room.EventJoin:
		var p room.JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == 0 || p.Username == "" {
			h.rejectPayload(c, env.Event, err)
			return
		}
		h.rooms.Join(p.GroupID, p.Username, c)

	case room.EventSendMessage:
		var p room.SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == 0 || p.UserID == 0 || p.Content == "" {
			h.rejectPayload(c, env.Event, err)
			return
		}
		// Rate-limit and persistence failures are already reported to
		// the sender by the service; nothing more to do here.
		_ = h.rooms.Send(p.GroupID, p.UserID, p.SenderName, p.Content, c)

	case room.EventLeave:
		var p room.LeavePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == 0 || p.Username == "" {
			h.rejectPayload(c, env.Event, err)
			return
		}
		h.rooms.Leave(p.GroupID, p.Username, c)

	default:
		h.rejectPayload(c, env.Event, nil)
	}
}

// rejectPayload reports a malformed event to the sender and logs it.
// The connection stays open.
func (h *WSHandler) rejectPayload(c *room.Client, event string, err error) {
	h.logger.Logf("malformed %q event: %v", event, err)
	c.Emit(room.EventError, room.ErrorPayload{Msg: "malformed event payload"})
}
