package room

import "encoding/json"

// Socket event names, client to server and server to room.
const (
	EventJoin        = "join"
	EventSendMessage = "send_message"
	EventLeave       = "leave"

	EventStatus     = "status"
	EventNewMessage = "new_message"
	EventError      = "error"
)

// Envelope is the wire format in both directions: an event name plus its
// payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinPayload struct {
	GroupID  uint   `json:"group_id"`
	Username string `json:"username"`
}

type SendMessagePayload struct {
	GroupID    uint   `json:"group_id"`
	UserID     uint   `json:"user_id"`
	Content    string `json:"content"`
	SenderName string `json:"sender_name"`
}

type LeavePayload struct {
	GroupID  uint   `json:"group_id"`
	Username string `json:"username"`
}

type StatusPayload struct {
	Msg string `json:"msg"`
}

type NewMessagePayload struct {
	GroupID    uint   `json:"group_id"`
	UserID     uint   `json:"user_id"`
	Content    string `json:"content"`
	SenderName string `json:"sender_name"`
}

type ErrorPayload struct {
	Msg string `json:"msg"`
}

func marshalEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
