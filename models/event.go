package models

// Inbound event kinds delivered by the chat relay.
const (
	EventCommand  = "command"
	EventCallback = "callback"
	EventReply    = "reply"
)

// ChatUser identifies the sender of an inbound event. Display fields
// are denormalized onto reservations at creation time.
type ChatUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
}

// InboundEvent is one user action forwarded by the relay: a command
// (e.g. "/start"), a button press carrying an opaque callback token, or
// a free-text reply to the chat's outstanding prompt.
type InboundEvent struct {
	ChatID  int64    `json:"chatId"`
	User    ChatUser `json:"user"`
	Kind    string   `json:"kind"`
	Command string   `json:"command,omitempty"`
	Token   string   `json:"token,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Option is one selectable button: a label plus the opaque callback
// token the relay echoes back when it is pressed.
type Option struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Prompt is an outbound message, optionally with selectable options.
// The core emits plain text; the relay owns platform markup.
type Prompt struct {
	ChatID  int64    `json:"chatId,omitempty"` // zero for broadcasts
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
}
