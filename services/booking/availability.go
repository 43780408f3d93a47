package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	reservationRepo "loungebot/database/repository/reservation"
	"loungebot/models"
)

// Reporter renders the shared availability view: active reservations
// for a date grouped by level, ordered by start time, annotated with
// how long ago each was booked.
type Reporter struct {
	Repo  reservationRepo.ReservationRepository
	Clock Clock
}

// Render produces the availability text for one date.
func (r *Reporter) Render(ctx context.Context, date string) (string, error) {
	reservations, err := r.Repo.ListByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to list reservations for %s: %w", date, err)
	}
	return r.renderBlock(date, reservations), nil
}

// RenderRange renders an ascending run of dates starting at dates[0],
// blocks separated by a blank line. The upcoming set is fetched in one
// query and bucketed per date; dates with no bookings still state so
// explicitly.
func (r *Reporter) RenderRange(ctx context.Context, dates []string) (string, error) {
	if len(dates) == 0 {
		return "", nil
	}
	upcoming, err := r.Repo.ListUpcoming(ctx, dates[0])
	if err != nil {
		return "", fmt.Errorf("failed to list upcoming reservations: %w", err)
	}
	byDate := make(map[string][]models.Reservation)
	for _, res := range upcoming {
		byDate[res.Date] = append(byDate[res.Date], res)
	}

	blocks := make([]string, 0, len(dates))
	for _, date := range dates {
		blocks = append(blocks, r.renderBlock(date, byDate[date]))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// renderBlock formats one date's reservations, grouped by level in
// canonical order. Incoming order per level must already be by start.
func (r *Reporter) renderBlock(date string, reservations []models.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lounge Bookings for %s:\n", models.DisplayDate(date))
	if len(reservations) == 0 {
		b.WriteString("\nAll lounges are unbooked!")
		return b.String()
	}

	now := r.Clock.Now()
	byLevel := make(map[int][]models.Reservation)
	for _, res := range reservations {
		byLevel[res.Level] = append(byLevel[res.Level], res)
	}

	for _, level := range models.Levels {
		group := byLevel[level]
		if len(group) == 0 {
			continue
		}
		prefix := models.LevelPrefix(level)
		fmt.Fprintf(&b, "\n%s Level %d %s\n", prefix, level, prefix)
		for _, res := range group {
			fmt.Fprintf(&b, "• %s - %s by %s (@%s), %s ago\n",
				FormatTimeOfDay(res.Start), FormatTimeOfDay(res.End),
				res.FirstName, res.Username, relativeAge(now.Sub(res.CreatedAt)))
		}
	}
	return b.String()
}

// WeekDates returns the stored-format dates for today plus the next
// days-1 days.
func WeekDates(now time.Time, days int) []string {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(models.DateLayout))
	}
	return dates
}

// relativeAge buckets a duration the way the availability view shows
// it: "seconds" under a minute, then rounded minutes, hours, days.
func relativeAge(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 60:
		return "seconds"
	case secs < 3600:
		return fmt.Sprintf("%d mins", int(math.Round(secs/60)))
	case secs < 86400:
		return fmt.Sprintf("%d hrs", int(math.Round(secs/3600)))
	default:
		return fmt.Sprintf("%d days", int(math.Round(secs/86400)))
	}
}
