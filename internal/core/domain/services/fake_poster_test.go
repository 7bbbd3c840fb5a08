package services_test

import (
	"context"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
)

type ledgerKey struct {
	assignment kernel.UUID
	item       inventory.ItemRef
}

type posted struct {
	assignment kernel.UUID
	posting    inventory.Posting
	entry      inventory.LogEntry
}

// memoryLedger is an in-memory LedgerPoster.
type memoryLedger struct {
	lines  map[ledgerKey]inventory.Balance
	locks  [][]kernel.UUID
	posted []posted
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{lines: make(map[ledgerKey]inventory.Balance)}
}

func (m *memoryLedger) set(assignment kernel.UUID, item inventory.ItemRef, b inventory.Balance) {
	b.Kind = item.Kind()
	m.lines[ledgerKey{assignment, item}] = b
}

func (m *memoryLedger) get(assignment kernel.UUID, item inventory.ItemRef) inventory.Balance {
	b, ok := m.lines[ledgerKey{assignment, item}]
	if !ok {
		return inventory.Balance{Kind: item.Kind()}
	}
	return b
}

func (m *memoryLedger) Lock(_ context.Context, _ inventory.ItemRef, assignmentIDs ...kernel.UUID) error {
	m.locks = append(m.locks, assignmentIDs)
	return nil
}

func (m *memoryLedger) Post(
	_ context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
	p inventory.Posting,
	entry inventory.LogEntry,
) (inventory.Balance, error) {
	next, err := m.get(assignmentID, item).Apply(p)
	if err != nil {
		return inventory.Balance{}, err
	}
	m.lines[ledgerKey{assignmentID, item}] = next
	m.posted = append(m.posted, posted{assignment: assignmentID, posting: p, entry: entry})
	return next, nil
}
