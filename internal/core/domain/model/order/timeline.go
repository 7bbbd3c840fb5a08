package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// TimelineStep is one status an order has been in and for how long.
type TimelineStep struct {
	Status    Status
	From      *Status
	Actor     string
	Role      kernel.Role
	Reason    string
	EnteredAt time.Time
	LeftAt    *time.Time
	Dwell     time.Duration
}

// Timeline is the order history with per-status dwell times. The dwell of the current status
// runs until now, except for terminal statuses which have no dwell.
type Timeline struct {
	OrderID       kernel.UUID
	CurrentStatus Status
	Steps         []TimelineStep
	TotalDuration time.Duration
}

// BuildTimeline reconstructs a timeline from history entries sorted by occurrence.
func BuildTimeline(orderID kernel.UUID, entries []HistoryEntry, now time.Time) (Timeline, error) {
	if len(entries) == 0 {
		return Timeline{}, errs.NewObjectNotFoundError("order history", orderID.String())
	}
	if err := ValidateWalk(entries); err != nil {
		return Timeline{}, err
	}

	steps := make([]TimelineStep, 0, len(entries))
	for i, e := range entries {
		step := TimelineStep{
			Status:    e.ToStatus(),
			From:      e.FromStatus(),
			Actor:     e.Actor().ID(),
			Role:      e.Actor().Role(),
			Reason:    e.Reason(),
			EnteredAt: e.OccurredAt(),
		}

		switch {
		case i+1 < len(entries):
			left := entries[i+1].OccurredAt()
			step.LeftAt = &left
			step.Dwell = left.Sub(step.EnteredAt)
		case !e.ToStatus().IsTerminal():
			step.Dwell = now.Sub(step.EnteredAt)
		}
		steps = append(steps, step)
	}

	last := entries[len(entries)-1]
	end := now
	if last.ToStatus().IsTerminal() {
		end = last.OccurredAt()
	}

	return Timeline{
		OrderID:       orderID,
		CurrentStatus: last.ToStatus(),
		Steps:         steps,
		TotalDuration: end.Sub(entries[0].OccurredAt()),
	}, nil
}

// ValidateWalk checks that history is a valid walk of the transition table starting at PENDING
// and ordered by time.
func ValidateWalk(entries []HistoryEntry) error {
	for i, e := range entries {
		if i == 0 {
			if e.FromStatus() != nil || e.ToStatus() != Pending {
				return errs.NewValueIsInvalidErrorWithCause("order history",
					fmt.Errorf("history must start with the creation entry into %s", Pending))
			}
			continue
		}

		prev := entries[i-1]
		from := e.FromStatus()
		if from == nil || *from != prev.ToStatus() {
			return errs.NewValueIsInvalidErrorWithCause("order history",
				fmt.Errorf("entry %d does not continue from %s", i, prev.ToStatus()))
		}
		if err := prev.ToStatus().ValidateTransition(e.ToStatus()); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("order history", fmt.Errorf("entry %d: %w", i, err))
		}
		if e.OccurredAt().Before(prev.OccurredAt()) {
			return errs.NewValueIsInvalidErrorWithCause("order history",
				fmt.Errorf("entry %d occurred before entry %d", i, i-1))
		}
	}
	return nil
}
