// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest set of repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	ReservationRepoFactory interface {
		ReservationRepository() ports.ReservationRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	// OrderUoW manages transactions that write orders and their history only.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ReservationUoW manages transactions of the reservation engine: holds are checked
	// against the ledger and bound to orders.
	ReservationUoW interface {
		TxManager
		OrderRepoFactory
		ReservationRepoFactory
		LedgerRepoFactory
	}

	ReservationUoWFactory interface {
		Create() ReservationUoW
	}

	// LedgerUoW manages transactions that post to the ledger or move the snapshot pointer.
	LedgerUoW interface {
		TxManager
		LedgerRepoFactory
	}

	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// UoW spans orders, history, reservations and the ledger. Used by transitions whose
	// side effects reserve, fulfill or release stock.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... transition, reserve, append history
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
		ReservationRepoFactory
		LedgerRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
