package services

import (
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

// Hold is an active reservation as seen by the conflict scan.
type Hold struct {
	ReservationID kernel.UUID
	OrderID       kernel.UUID
	Quantity      int
	CreatedAt     time.Time
}

// LineHolds is one ledger line with its on-hand stock and the active holds against it.
type LineHolds struct {
	AssignmentID kernel.UUID
	Item         inventory.ItemRef
	OnHand       int
	Holds        []Hold
}

// Conflict is a ledger line whose active holds exceed on-hand stock. Holds are oldest first.
type Conflict struct {
	AssignmentID kernel.UUID
	Item         inventory.ItemRef
	OnHand       int
	Reserved     int
	Shortfall    int
	Holds        []Hold
}

// Suggestion lists the holds to release, newest first, so the remaining ones fit on-hand stock.
type Suggestion struct {
	Conflict          Conflict
	Release           []Hold
	ReleasedQuantity  int
	RemainingReserved int
}

// DetectConflicts reports every line where the sum of active holds is above on-hand stock.
// Conflicts are ordered by shortfall, largest first.
func DetectConflicts(lines []LineHolds) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, line := range lines {
		reserved := 0
		for _, h := range line.Holds {
			reserved += h.Quantity
		}
		if reserved <= line.OnHand {
			continue
		}

		holds := slices.Clone(line.Holds)
		slices.SortStableFunc(holds, func(a, b Hold) int { return a.CreatedAt.Compare(b.CreatedAt) })

		conflicts = append(conflicts, Conflict{
			AssignmentID: line.AssignmentID,
			Item:         line.Item,
			OnHand:       line.OnHand,
			Reserved:     reserved,
			Shortfall:    reserved - max(line.OnHand, 0),
			Holds:        holds,
		})
	}

	slices.SortStableFunc(conflicts, func(a, b Conflict) int { return b.Shortfall - a.Shortfall })
	return conflicts
}

// SuggestReleases walks each conflict from its newest hold backwards until the remaining holds
// fit. Holds are released whole.
func SuggestReleases(conflicts []Conflict) []Suggestion {
	suggestions := make([]Suggestion, 0, len(conflicts))
	for _, c := range conflicts {
		s := Suggestion{Conflict: c, RemainingReserved: c.Reserved}
		for i := len(c.Holds) - 1; i >= 0 && s.RemainingReserved > c.OnHand; i-- {
			s.Release = append(s.Release, c.Holds[i])
			s.ReleasedQuantity += c.Holds[i].Quantity
			s.RemainingReserved -= c.Holds[i].Quantity
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}
