package booking

import (
	"context"
	"fmt"
	"sort"

	"loungebot/models"
)

// HasConflict reports whether the candidate window overlaps any active
// reservation on (level, date). Reservations whose ID equals excludeID
// are skipped, so an update flow never conflicts with the reservation
// being edited. The candidate set is sorted by start time so the
// reported clash is deterministic.
//
// The check and the subsequent create/reschedule are not atomic; two
// concurrent flows can both pass before either commits.
func (e *Engine) HasConflict(ctx context.Context, level int, date string, start, end int, excludeID string) (bool, *models.Window, error) {
	existing, err := e.Repo.ListByLevelAndDate(ctx, level, date)
	if err != nil {
		return false, nil, fmt.Errorf("failed to load reservations for conflict check: %w", err)
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i].Start < existing[j].Start })

	candidate := models.Window{Start: start, End: end}
	for _, res := range existing {
		if res.ID == excludeID {
			continue
		}
		w := models.Window{Start: res.Start, End: res.End}
		if candidate.Overlaps(w) {
			return true, &w, nil
		}
	}
	return false, nil, nil
}
