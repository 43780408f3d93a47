package booking

import (
	"context"
	"time"

	reservationRepo "loungebot/database/repository/reservation"
	"loungebot/models"

	"go.uber.org/zap"
)

// Transport delivers outbound messages to the chat relay. The core
// emits plain text plus (label, token) options; the relay owns all
// platform markup and button rendering.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, options []models.Option) error
	SendBroadcast(ctx context.Context, text string) error
}

// Clock supplies the current time in UTC. All relative-age and
// retention arithmetic runs against it.
type Clock interface {
	Now() time.Time
}

// SessionStore holds per-chat conversation state between webhook
// events. Get returns (nil, nil) when no session exists. Save applies
// the store's idle TTL, refreshing it on every write.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*models.ChatSession, error)
	Save(ctx context.Context, session *models.ChatSession) error
	Delete(ctx context.Context, chatID int64) error
}

// Broadcaster schedules an availability refresh of the shared channel
// for one date. Implementations may run it asynchronously.
type Broadcaster interface {
	BroadcastAvailability(ctx context.Context, date string) error
}

// Engine drives the conversation state machine: it validates each
// input, advances or re-prompts the session, and on terminal steps
// consults the conflict checker and commits to the reservation store.
type Engine struct {
	Repo        reservationRepo.ReservationRepository
	Sessions    SessionStore
	Transport   Transport
	Broadcaster Broadcaster
	Reporter    *Reporter
	Clock       Clock
	Logger      *zap.Logger
}

// UTCClock implements Clock on the system clock.
type UTCClock struct{}

func (UTCClock) Now() time.Time { return time.Now().UTC() }
