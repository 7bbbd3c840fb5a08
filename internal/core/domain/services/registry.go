package services

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type strategyKey struct {
	txType inventory.TransactionType
	kind   inventory.EntityKind
}

// StrategyRegistry resolves the strategy for a (transaction type, entity kind) pair.
//
// Example usage:
//
//	registry := services.NewStrategyRegistry()
//	result, err := registry.Execute(ctx, ledgerRepo, inventory.TransactionRequest{
//	    Type:         inventory.Sale,
//	    Item:         tankRef,
//	    AssignmentID: assignmentID,
//	    Quantity:     2,
//	    Actor:        actor,
//	})
type StrategyRegistry struct {
	strategies map[strategyKey]Strategy
}

// NewStrategyRegistry registers all five transaction types for tanks and items.
func NewStrategyRegistry() *StrategyRegistry {
	r := &StrategyRegistry{strategies: make(map[strategyKey]Strategy)}
	for _, kind := range []inventory.EntityKind{inventory.Tank, inventory.Item} {
		r.Register(NewSaleStrategy(kind))
		r.Register(NewPurchaseStrategy(kind))
		r.Register(NewReturnStrategy(kind))
		r.Register(NewTransferStrategy(kind))
		r.Register(NewAssignmentStrategy(kind))
	}
	return r
}

// Register replaces the strategy for the pair s handles.
func (r *StrategyRegistry) Register(s Strategy) {
	r.strategies[strategyKey{txType: s.Type(), kind: s.Kind()}] = s
}

func (r *StrategyRegistry) Resolve(txType inventory.TransactionType, kind inventory.EntityKind) (Strategy, error) {
	if err := txType.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	s, ok := r.strategies[strategyKey{txType: txType, kind: kind}]
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("transactionType",
			fmt.Errorf("no strategy for %s of %s", txType, kind))
	}
	return s, nil
}

// Execute resolves the strategy for req and runs it under a new transaction id.
func (r *StrategyRegistry) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
) (inventory.Result, error) {
	s, err := r.Resolve(req.Type, req.Kind())
	if err != nil {
		return inventory.Result{}, err
	}
	return s.Execute(ctx, poster, req, kernel.NewUUID())
}
