package services

import (
	"context"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// LedgerPoster applies postings to the current ledger lines of assignments. Implementations
// run inside the caller's transaction and must reject a posting that takes a bucket below zero
// without writing anything.
type LedgerPoster interface {
	// Lock takes row locks on the item's line for every assignment, in the order given.
	Lock(ctx context.Context, item inventory.ItemRef, assignmentIDs ...kernel.UUID) error

	// Post applies one signed delta, writes one transaction log row and returns the new balance.
	Post(
		ctx context.Context,
		assignmentID kernel.UUID,
		item inventory.ItemRef,
		posting inventory.Posting,
		entry inventory.LogEntry,
	) (inventory.Balance, error)
}

// Strategy turns a transaction request of one (type, kind) pair into ledger postings.
type Strategy interface {
	Type() inventory.TransactionType
	Kind() inventory.EntityKind

	// Validate rejects a malformed request before anything is locked or written.
	Validate(req inventory.TransactionRequest) error

	// CalculateDelta returns the postings in execution order: outgoing bucket first.
	CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error)

	// Execute validates, locks and posts every leg. Each leg is logged under transactionID.
	Execute(
		ctx context.Context,
		poster LedgerPoster,
		req inventory.TransactionRequest,
		transactionID kernel.UUID,
	) (inventory.Result, error)
}

type strategyBase struct {
	txType inventory.TransactionType
	kind   inventory.EntityKind
}

func (b strategyBase) Type() inventory.TransactionType {
	return b.txType
}

func (b strategyBase) Kind() inventory.EntityKind {
	return b.kind
}

// validateCommon checks the fields every strategy needs. minQuantity is 0 for corrective
// assignments and 1 otherwise.
func (b strategyBase) validateCommon(req inventory.TransactionRequest, minQuantity int) error {
	if req.Type != b.txType {
		return errs.NewValueIsInvalidErrorWithCause("transactionType",
			fmt.Errorf("%s strategy cannot run %s", b.txType, req.Type))
	}
	if err := req.Item.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("item", err)
	}
	if req.Kind() != b.kind {
		return errs.NewValueIsInvalidErrorWithCause("itemType",
			fmt.Errorf("%s strategy cannot post %s", b.kind, req.Kind()))
	}
	if err := req.AssignmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("storeAssignmentId", err)
	}
	if err := req.Actor.Validate(); err != nil {
		return err
	}
	if req.Quantity < minQuantity {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is less than %d", req.Quantity, minQuantity))
	}
	return nil
}

// validateBucket requires an explicit bucket for tanks. Items always post to units.
func (b strategyBase) validateBucket(req inventory.TransactionRequest) error {
	return req.Bucket.ValidateFor(b.kind)
}

// itemBucket is the bucket of an item line, or the chosen bucket of a tank line.
func (b strategyBase) itemBucket(chosen inventory.Bucket) inventory.Bucket {
	if b.kind == inventory.Item {
		return inventory.Units
	}
	return chosen
}

// execute runs the legs returned by s. Both ledger lines of a transfer are locked before the
// first posting, in a deterministic order.
func execute(
	ctx context.Context,
	s Strategy,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	if err := s.Validate(req); err != nil {
		return inventory.Result{}, err
	}

	legs, err := s.CalculateDelta(req)
	if err != nil {
		return inventory.Result{}, err
	}

	if err = poster.Lock(ctx, req.Item, lockOrder(legs)...); err != nil {
		return inventory.Result{}, err
	}

	entry := inventory.LogEntry{
		TransactionID: transactionID,
		Type:          req.Type,
		Actor:         req.Actor,
		Reason:        req.Reason,
		OrderID:       req.OrderID,
	}

	balances := make(map[kernel.UUID]inventory.Balance, 2)
	for _, leg := range legs {
		balance, postErr := poster.Post(ctx, leg.AssignmentID, req.Item, leg.Posting, entry)
		if postErr != nil {
			return inventory.Result{}, postErr
		}
		balances[leg.AssignmentID] = balance
	}

	result := inventory.Result{
		TransactionID: transactionID,
		Type:          req.Type,
		Item:          req.Item,
		AssignmentID:  req.AssignmentID,
		Balance:       balances[req.AssignmentID],
	}
	if req.TargetAssignmentID != nil {
		target := *req.TargetAssignmentID
		if balance, ok := balances[target]; ok {
			result.Target = &inventory.TargetBalance{AssignmentID: target, Balance: balance}
		}
	}
	return result, nil
}

func lockOrder(legs []inventory.Leg) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(legs))
	for _, leg := range legs {
		if !slices.ContainsFunc(ids, leg.AssignmentID.IsEqual) {
			ids = append(ids, leg.AssignmentID)
		}
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int { return a.Compare(b) })
	return ids
}
