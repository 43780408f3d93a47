package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	reservationRepo "loungebot/database/repository/reservation"
	"loungebot/models"

	"go.uber.org/zap"
)

// fakeRepo is an in-memory ReservationRepository for engine tests.
type fakeRepo struct {
	mu           sync.Mutex
	reservations []models.Reservation
	failNext     error
}

func (f *fakeRepo) take() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRepo) Create(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return err
	}
	f.reservations = append(f.reservations, *res)
	return nil
}

func (f *fakeRepo) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.Status == models.StatusActive && res.Date == date {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (f *fakeRepo) ListByLevelAndDate(ctx context.Context, level int, date string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.Status == models.StatusActive && res.Level == level && res.Date == date {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.Status == models.StatusActive && res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListUpcoming(ctx context.Context, fromDate string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.Status == models.StatusActive && res.Date >= fromDate {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return err
	}
	for i := range f.reservations {
		if f.reservations[i].ID == id && f.reservations[i].Status == models.StatusActive {
			f.reservations[i].Status = models.StatusCancelled
			return nil
		}
	}
	return reservationRepo.ErrNotFound
}

func (f *fakeRepo) Reschedule(ctx context.Context, id string, newStart, newEnd int, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.take(); err != nil {
		return err
	}
	for i := range f.reservations {
		if f.reservations[i].ID == id && f.reservations[i].Status == models.StatusActive {
			f.reservations[i].Start = newStart
			f.reservations[i].End = newEnd
			f.reservations[i].CreatedAt = now
			return nil
		}
	}
	return reservationRepo.ErrNotFound
}

func (f *fakeRepo) PruneOlderThan(ctx context.Context, retentionDays int, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := now.AddDate(0, 0, -retentionDays)
	var kept []models.Reservation
	var removed int64
	for _, res := range f.reservations {
		if res.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, res)
	}
	f.reservations = kept
	return removed, nil
}

// fakeSessions keeps sessions in a map, mirroring the redis store's
// get/save/delete contract.
type fakeSessions struct {
	sessions map[int64]*models.ChatSession
	failNext error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[int64]*models.ChatSession)}
}

func (f *fakeSessions) Get(ctx context.Context, chatID int64) (*models.ChatSession, error) {
	if err := f.failNext; err != nil {
		f.failNext = nil
		return nil, err
	}
	session, ok := f.sessions[chatID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessions) Save(ctx context.Context, session *models.ChatSession) error {
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	copied := *session
	f.sessions[session.ChatID] = &copied
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, chatID int64) error {
	delete(f.sessions, chatID)
	return nil
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Options []models.Option
}

// fakeTransport records every outbound message and broadcast.
type fakeTransport struct {
	messages   []sentMessage
	broadcasts []string
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, options []models.Option) error {
	f.messages = append(f.messages, sentMessage{ChatID: chatID, Text: text, Options: options})
	return nil
}

func (f *fakeTransport) SendBroadcast(ctx context.Context, text string) error {
	f.broadcasts = append(f.broadcasts, text)
	return nil
}

func (f *fakeTransport) last() sentMessage {
	if len(f.messages) == 0 {
		return sentMessage{}
	}
	return f.messages[len(f.messages)-1]
}

// fakeClock pins Now to a fixed instant.
type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// fakeBroadcaster records which dates were scheduled for broadcast.
type fakeBroadcaster struct {
	dates []string
	err   error
}

func (f *fakeBroadcaster) BroadcastAvailability(ctx context.Context, date string) error {
	if f.err != nil {
		return f.err
	}
	f.dates = append(f.dates, date)
	return nil
}

var errStoreDown = errors.New("store unavailable")

// newTestEngine wires an Engine over the fakes with a silent logger.
func newTestEngine(repo *fakeRepo, clock fakeClock) (*Engine, *fakeSessions, *fakeTransport, *fakeBroadcaster) {
	sessions := newFakeSessions()
	transport := &fakeTransport{}
	broadcaster := &fakeBroadcaster{}
	engine := &Engine{
		Repo:        repo,
		Sessions:    sessions,
		Transport:   transport,
		Broadcaster: broadcaster,
		Reporter:    &Reporter{Repo: repo, Clock: clock},
		Clock:       clock,
		Logger:      zap.NewNop(),
	}
	return engine, sessions, transport, broadcaster
}
