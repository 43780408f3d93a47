package models

import "time"

// Chat session states. Level and date selection travel inside callback
// tokens, so only the free-text stages of a flow need session state.
const (
	StateIdle          = "idle"
	StateAwaitStart    = "awaitStart"
	StateAwaitEnd      = "awaitEnd"
	StateAwaitNewStart = "awaitNewStart"
	StateAwaitNewEnd   = "awaitNewEnd"
)

// ChatSession holds the progress of one chat's in-flight booking or
// update flow between webhook events. It is stored as a JSON value in
// redis under a per-chat key with an idle TTL.
type ChatSession struct {
	ChatID        int64     `json:"chatId"`
	State         string    `json:"state"`
	Level         int       `json:"level,omitempty"`
	Date          string    `json:"date,omitempty"`          // "YYYY-MM-DD"
	Start         int       `json:"start,omitempty"`         // accumulated start time, minutes from midnight
	ReservationID string    `json:"reservationId,omitempty"` // set during an update flow
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
