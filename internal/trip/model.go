package trip

import (
	"slices"
	"time"
)

// Trip represents a row in the trips table. Participants are user ids.
type Trip struct {
	ID           int64
	Title        string
	Description  *string
	StartDate    *string
	EndDate      *string
	Participants []int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NotParticipating returns the ids that are not among the trip's participants,
// in input order.
func (t *Trip) NotParticipating(ids []int64) []int64 {
	missing := []int64{}
	for _, id := range ids {
		if !slices.Contains(t.Participants, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// UpdateFields holds updatable trip fields. Nil fields are not updated.
type UpdateFields struct {
	Title        *string
	Description  *string
	StartDate    *string
	EndDate      *string
	Participants []int64
}
