package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"loungebot/database"
	"loungebot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoReservationRepo implements ReservationRepository on MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo returns a repository bound to the reservations
// collection of the global client.
func NewMongoReservationRepo() *MongoReservationRepo {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("reservations")
	return &MongoReservationRepo{coll: coll}
}

// Create persists a new active reservation. The conversation engine
// runs the conflict check before calling this; the store does not
// re-check on write.
func (repo *MongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

// ListByDate returns all active reservations on the given date across
// every level, sorted by level then start time.
func (repo *MongoReservationRepo) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	filter := bson.M{"date": date, "status": models.StatusActive}
	sort := bson.D{{Key: "level", Value: 1}, {Key: "start", Value: 1}}
	return repo.list(ctx, filter, sort)
}

// ListByLevelAndDate returns the active reservations on one level and
// date, sorted by start time. This is the conflict checker's feed.
func (repo *MongoReservationRepo) ListByLevelAndDate(ctx context.Context, level int, date string) ([]models.Reservation, error) {
	filter := bson.M{"level": level, "date": date, "status": models.StatusActive}
	sort := bson.D{{Key: "start", Value: 1}}
	return repo.list(ctx, filter, sort)
}

// ListByOwner returns the owner's active reservations across all levels
// and dates, sorted by level, date, then start time.
func (repo *MongoReservationRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Reservation, error) {
	filter := bson.M{"owner_id": ownerID, "status": models.StatusActive}
	sort := bson.D{{Key: "level", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}}
	return repo.list(ctx, filter, sort)
}

// ListUpcoming returns all active reservations dated fromDate or later.
// Dates are stored as "YYYY-MM-DD" strings, so a lexicographic $gte
// comparison is a date comparison.
func (repo *MongoReservationRepo) ListUpcoming(ctx context.Context, fromDate string) ([]models.Reservation, error) {
	filter := bson.M{"date": bson.M{"$gte": fromDate}, "status": models.StatusActive}
	sort := bson.D{{Key: "date", Value: 1}, {Key: "level", Value: 1}, {Key: "start", Value: 1}}
	return repo.list(ctx, filter, sort)
}

func (repo *MongoReservationRepo) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]models.Reservation, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return results, nil
}

// Cancel flips an active reservation to cancelled. Cancelling a missing
// or already-cancelled reservation returns ErrNotFound.
func (repo *MongoReservationRepo) Cancel(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusActive}
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reschedule rewrites the window of an active reservation and refreshes
// its creation timestamp, so "booked N ago" reflects the latest edit.
func (repo *MongoReservationRepo) Reschedule(ctx context.Context, id string, newStart, newEnd int, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": models.StatusActive}
	update := bson.M{"$set": bson.M{
		"start":      newStart,
		"end":        newEnd,
		"created_at": now.UTC(),
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reschedule reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneOlderThan hard-deletes reservations created before
// now − retentionDays, regardless of status. Run once at process start;
// recurring sweeps belong to an external scheduler.
func (repo *MongoReservationRepo) PruneOlderThan(ctx context.Context, retentionDays int, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cutoff := now.UTC().AddDate(0, 0, -retentionDays)
	res, err := repo.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune old reservations: %w", err)
	}
	return res.DeletedCount, nil
}
