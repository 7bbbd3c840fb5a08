package services

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// SaleStrategy hands goods to a customer. A tank sale swaps a full tank for the customer's
// empty one.
type SaleStrategy struct {
	strategyBase
}

func NewSaleStrategy(kind inventory.EntityKind) SaleStrategy {
	return SaleStrategy{strategyBase{txType: inventory.Sale, kind: kind}}
}

func (s SaleStrategy) Validate(req inventory.TransactionRequest) error {
	return s.validateCommon(req, 1)
}

func (s SaleStrategy) CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error) {
	if s.kind == inventory.Tank {
		return []inventory.Leg{
			{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Full, Delta: -req.Quantity}},
			{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Empty, Delta: req.Quantity}},
		}, nil
	}
	return []inventory.Leg{
		{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Units, Delta: -req.Quantity}},
	}, nil
}

func (s SaleStrategy) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	return execute(ctx, s, poster, req, transactionID)
}

// PurchaseStrategy receives goods from a supplier. For tanks, empties go back to the supplier
// in exchange for full ones.
type PurchaseStrategy struct {
	strategyBase
}

func NewPurchaseStrategy(kind inventory.EntityKind) PurchaseStrategy {
	return PurchaseStrategy{strategyBase{txType: inventory.Purchase, kind: kind}}
}

func (s PurchaseStrategy) Validate(req inventory.TransactionRequest) error {
	return s.validateCommon(req, 1)
}

func (s PurchaseStrategy) CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error) {
	if s.kind == inventory.Tank {
		return []inventory.Leg{
			{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Empty, Delta: -req.Quantity}},
			{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Full, Delta: req.Quantity}},
		}, nil
	}
	return []inventory.Leg{
		{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: inventory.Units, Delta: req.Quantity}},
	}, nil
}

func (s PurchaseStrategy) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	return execute(ctx, s, poster, req, transactionID)
}

// ReturnStrategy takes goods back into stock. The caller names the tank bucket being returned.
type ReturnStrategy struct {
	strategyBase
}

func NewReturnStrategy(kind inventory.EntityKind) ReturnStrategy {
	return ReturnStrategy{strategyBase{txType: inventory.Return, kind: kind}}
}

func (s ReturnStrategy) Validate(req inventory.TransactionRequest) error {
	if err := s.validateCommon(req, 1); err != nil {
		return err
	}
	return s.validateBucket(req)
}

func (s ReturnStrategy) CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error) {
	return []inventory.Leg{
		{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: s.itemBucket(req.Bucket), Delta: req.Quantity}},
	}, nil
}

func (s ReturnStrategy) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	return execute(ctx, s, poster, req, transactionID)
}

// TransferStrategy moves stock between two assignments. Source debit and target credit are
// posted in the same transaction.
type TransferStrategy struct {
	strategyBase
}

func NewTransferStrategy(kind inventory.EntityKind) TransferStrategy {
	return TransferStrategy{strategyBase{txType: inventory.Transfer, kind: kind}}
}

func (s TransferStrategy) Validate(req inventory.TransactionRequest) error {
	if err := s.validateCommon(req, 1); err != nil {
		return err
	}
	if req.TargetAssignmentID == nil {
		return errs.NewValueIsRequiredError("targetStoreAssignmentId")
	}
	if err := req.TargetAssignmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("targetStoreAssignmentId", err)
	}
	if req.TargetAssignmentID.IsEqual(req.AssignmentID) {
		return errs.NewValueIsInvalidErrorWithCause("targetStoreAssignmentId",
			fmt.Errorf("target %s is the source assignment", req.TargetAssignmentID))
	}
	return s.validateBucket(req)
}

func (s TransferStrategy) CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error) {
	if req.TargetAssignmentID == nil {
		return nil, errs.NewValueIsRequiredError("targetStoreAssignmentId")
	}
	bucket := s.itemBucket(req.Bucket)
	return []inventory.Leg{
		{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: bucket, Delta: -req.Quantity}},
		{AssignmentID: *req.TargetAssignmentID, Posting: inventory.Posting{Bucket: bucket, Delta: req.Quantity}},
	}, nil
}

func (s TransferStrategy) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	return execute(ctx, s, poster, req, transactionID)
}

// AssignmentStrategy stocks a bucket directly, without an exchange. Zero quantity is allowed
// so an empty line can be opened.
type AssignmentStrategy struct {
	strategyBase
}

func NewAssignmentStrategy(kind inventory.EntityKind) AssignmentStrategy {
	return AssignmentStrategy{strategyBase{txType: inventory.Assignment, kind: kind}}
}

func (s AssignmentStrategy) Validate(req inventory.TransactionRequest) error {
	if err := s.validateCommon(req, 0); err != nil {
		return err
	}
	return s.validateBucket(req)
}

func (s AssignmentStrategy) CalculateDelta(req inventory.TransactionRequest) ([]inventory.Leg, error) {
	return []inventory.Leg{
		{AssignmentID: req.AssignmentID, Posting: inventory.Posting{Bucket: s.itemBucket(req.Bucket), Delta: req.Quantity}},
	}, nil
}

func (s AssignmentStrategy) Execute(
	ctx context.Context,
	poster LedgerPoster,
	req inventory.TransactionRequest,
	transactionID kernel.UUID,
) (inventory.Result, error) {
	return execute(ctx, s, poster, req, transactionID)
}
