package inventory

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// TransactionRequest is the input of a ledger transaction. Bucket is required for tank
// returns, transfers and assignments. TargetAssignmentID is required for transfers.
type TransactionRequest struct {
	Type               TransactionType
	Item               ItemRef
	AssignmentID       kernel.UUID
	TargetAssignmentID *kernel.UUID
	Quantity           int
	Bucket             Bucket
	Actor              kernel.Actor
	Reason             string
	OrderID            *kernel.UUID
}

// Kind is the entity kind of the requested item.
func (r TransactionRequest) Kind() EntityKind {
	return r.Item.Kind()
}

// LogEntry carries the audit fields written with every posting of one transaction.
type LogEntry struct {
	TransactionID kernel.UUID
	Type          TransactionType
	Actor         kernel.Actor
	Reason        string
	OrderID       *kernel.UUID
}
