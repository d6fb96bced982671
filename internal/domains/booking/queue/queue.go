// Package queue derives a client's place in today's line of appointments.
package queue

import (
	"cmp"
	"math"
	"salon/internal/domains/booking/model"
	"slices"
	"time"
)

type Status struct {
	Total       int
	Position    int
	PeopleAhead int
	WaitMinutes int
	Progress    float64
}

// Compute ranks appointments by start time. Position is 1-based and 0 when id
// is not among appointments.
func Compute(appointments []model.Appointment, id string, now time.Time) Status {
	line := slices.Clone(appointments)
	slices.SortStableFunc(line, func(a, b model.Appointment) int {
		return cmp.Compare(a.StartTime.UnixNano(), b.StartTime.UnixNano())
	})

	status := Status{Total: len(line)}

	index := slices.IndexFunc(line, func(appointment model.Appointment) bool {
		return appointment.ID == id
	})
	if index < 0 {
		return status
	}

	status.Position = index + 1
	status.PeopleAhead = index
	status.Progress = float64(status.Total-status.Position+1) / float64(status.Total) * 100

	if wait := line[index].StartTime.Sub(now); wait > 0 {
		status.WaitMinutes = int(math.Ceil(wait.Minutes()))
	}

	return status
}
