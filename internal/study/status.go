package study

import (
	"time"

	"github.com/localnerve/studyhub/internal/models"
)

// NextStatus returns the status following s in the
// not-started -> in-progress -> completed -> not-started cycle.
// Anything unrecognised restarts the cycle.
func NextStatus(s models.PartStatus) models.PartStatus {
	switch s {
	case models.StatusNotStarted:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	default:
		return models.StatusNotStarted
	}
}

// Toggle advances the part one step around the status cycle.
// CompletedAt is set to now on entering completed and cleared on every other transition.
func Toggle(p *models.Part, now time.Time) models.PartStatus {
	p.Status = NextStatus(p.Status)
	if p.Status == models.StatusCompleted {
		at := now.UTC()
		p.CompletedAt = &at
	} else {
		p.CompletedAt = nil
	}
	return p.Status
}
