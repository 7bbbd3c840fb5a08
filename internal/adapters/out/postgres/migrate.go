package postgres

import (
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/reservationrepo"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, in creation order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&orderrepo.NumberSequenceDTO{},
		&orderrepo.StatusHistoryDTO{},
		&reservationrepo.ReservationDTO{},
		&ledgerrepo.PointerDTO{},
		&ledgerrepo.TankLineDTO{},
		&ledgerrepo.ItemLineDTO{},
		&ledgerrepo.TransactionDTO{},
	}
}

// Migrate creates or alters the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// TruncateAll empties every table. Used by integration tests.
func TruncateAll(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE orders, order_lines, order_number_sequences, order_status_history,
		inventory_reservations, current_inventory_pointers, inventory_tank_lines, inventory_item_lines,
		inventory_transactions`).Error
}
