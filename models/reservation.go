package models

import "time"

// Reservation statuses. Cancellation is a soft delete: the document
// stays in the collection until retention pruning removes it.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// DateLayout is the canonical storage format for reservation dates.
// DisplayDateLayout is what users see in prompts and availability views.
const (
	DateLayout        = "2006-01-02"
	DisplayDateLayout = "02/01/2006"
)

// Reservation represents a booking of one lounge level for a time window
// on a calendar date.
type Reservation struct {
	ID        string    `bson:"id" json:"id"`                 // Unique reservation identifier (UUID)
	Level     int       `bson:"level" json:"level"`           // Lounge level (9, 10 or 11)
	Date      string    `bson:"date" json:"date"`             // Reservation date in "YYYY-MM-DD" format
	Start     int       `bson:"start" json:"start"`           // Window start (minutes from midnight)
	End       int       `bson:"end" json:"end"`               // Window end (minutes from midnight), always > Start
	OwnerID   int64     `bson:"owner_id" json:"owner_id"`     // Stable numeric id of the requester
	FirstName string    `bson:"first_name" json:"first_name"` // Display name, denormalized at creation
	Username  string    `bson:"username" json:"username"`     // Handle, denormalized at creation
	CreatedAt time.Time `bson:"created_at" json:"created_at"` // Commit timestamp (UTC), refreshed on reschedule
	Status    string    `bson:"status" json:"status"`         // "active" or "cancelled"
}

// Window is a start/end pair in minutes from midnight.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two windows share any time. Touching
// boundaries (w.End == other.Start) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return !(w.End <= other.Start || w.Start >= other.End)
}

// Lounge levels, in canonical display order.
var Levels = []int{9, 10, 11}

var levelPrefixes = map[int]string{
	9:  "\U0001F467\U0001F467",
	10: "\U0001F466\U0001F466",
	11: "\U0001F466\U0001F467",
}

// ValidLevel reports whether level is one of the bookable lounge levels.
func ValidLevel(level int) bool {
	_, ok := levelPrefixes[level]
	return ok
}

// LevelPrefix returns the emoji marker shown next to a level header.
func LevelPrefix(level int) string {
	return levelPrefixes[level]
}

// DisplayDate converts a stored "YYYY-MM-DD" date to the "DD/MM/YYYY"
// form used in messages. Invalid input is returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayDateLayout)
}
