package reservationRepo

import (
	"context"
	"errors"
	"time"

	"loungebot/models"
)

// ErrNotFound is returned when a cancel or reschedule targets a
// reservation that does not exist or is no longer active.
var ErrNotFound = errors.New("reservation not found")

// ReservationRepository is the persistence contract for reservations.
// The reservation store exclusively owns these records; listing methods
// return active reservations only.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	ListByDate(ctx context.Context, date string) ([]models.Reservation, error)
	ListByLevelAndDate(ctx context.Context, level int, date string) ([]models.Reservation, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Reservation, error)
	ListUpcoming(ctx context.Context, fromDate string) ([]models.Reservation, error)
	Cancel(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id string, newStart, newEnd int, now time.Time) error
	PruneOlderThan(ctx context.Context, retentionDays int, now time.Time) (int64, error)
}
