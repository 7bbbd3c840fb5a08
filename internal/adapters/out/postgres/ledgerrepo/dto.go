// Package ledgerrepo persists the snapshot pointers, the per-snapshot ledger lines and the
// inventory transaction log.
package ledgerrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PointerDTO names the current snapshot of an assignment's ledger.
type PointerDTO struct {
	StoreAssignmentID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationID         uuid.UUID `gorm:"type:uuid;not null;index"`
	CurrentInventoryID uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (PointerDTO) TableName() string {
	return "current_inventory_pointers"
}

type TankLineDTO struct {
	CurrentInventoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TankTypeID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullTanks          int       `gorm:"not null;check:chk_tank_lines_full,full_tanks >= 0"`
	EmptyTanks         int       `gorm:"not null;check:chk_tank_lines_empty,empty_tanks >= 0"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (TankLineDTO) TableName() string {
	return "inventory_tank_lines"
}

type ItemLineDTO struct {
	CurrentInventoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	InventoryItemID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity           int       `gorm:"not null;check:chk_item_lines_quantity,quantity >= 0"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (ItemLineDTO) TableName() string {
	return "inventory_item_lines"
}

// TransactionDTO is one posting of a ledger transaction. A transfer writes two rows with the
// same transaction id.
type TransactionDTO struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement"`
	TransactionID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransactionType    string     `gorm:"type:varchar(16);not null"`
	StoreAssignmentID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CurrentInventoryID uuid.UUID  `gorm:"type:uuid;not null"`
	ItemType           string     `gorm:"type:varchar(8);not null"`
	TankTypeID         *uuid.UUID `gorm:"type:uuid"`
	InventoryItemID    *uuid.UUID `gorm:"type:uuid"`
	Bucket             string     `gorm:"type:varchar(8);not null"`
	Delta              int        `gorm:"not null"`
	BalanceAfter       int        `gorm:"not null"`
	ActorID            string     `gorm:"type:varchar(128);not null"`
	ActorRole          string     `gorm:"type:varchar(16);not null"`
	Reason             string     `gorm:"type:text"`
	OrderID            *uuid.UUID `gorm:"type:uuid;index"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;index;autoCreateTime:false"`
}

func (TransactionDTO) TableName() string {
	return "inventory_transactions"
}
