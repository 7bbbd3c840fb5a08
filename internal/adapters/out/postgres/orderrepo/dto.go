// Package orderrepo persists order aggregates, their lines and the append-only status history.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgconv"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the orders row. Lines live in order_lines and are written once, with the order.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	Status        string          `gorm:"type:varchar(16);index;not null"`
	PaymentStatus string          `gorm:"type:varchar(16);not null"`
	Priority      string          `gorm:"type:varchar(16);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LocationID    *uuid.UUID      `gorm:"type:uuid;index"`
	AssignmentID  *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedBy     string          `gorm:"type:varchar(128);not null"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time       `gorm:"not null;index;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderLineDTO struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	OrderID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position        int             `gorm:"not null"`
	ItemType        string          `gorm:"type:varchar(8);not null"`
	TankTypeID      *uuid.UUID      `gorm:"type:uuid;check:chk_order_lines_item,(tank_type_id IS NULL) <> (inventory_item_id IS NULL)"`
	InventoryItemID *uuid.UUID      `gorm:"type:uuid"`
	Quantity        int             `gorm:"not null;check:chk_order_lines_quantity,quantity > 0"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// NumberSequenceDTO holds the last allocated order number of one year.
type NumberSequenceDTO struct {
	Year      int   `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64 `gorm:"not null"`
}

func (NumberSequenceDTO) TableName() string {
	return "order_number_sequences"
}

// StatusHistoryDTO is one row of order_status_history. Rows are only ever inserted.
type StatusHistoryDTO struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_order_status_history_order_time,priority:1"`
	FromStatus *string        `gorm:"type:varchar(16)"`
	ToStatus   string         `gorm:"type:varchar(16);not null;index"`
	ActorID    string         `gorm:"type:varchar(128);not null"`
	ActorRole  string         `gorm:"type:varchar(16);not null"`
	Reason     string         `gorm:"type:text"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime:false;index:idx_order_status_history_order_time,priority:2"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) (OrderDTO, []OrderLineDTO) {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		Number:        o.Number().String(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		Priority:      o.Priority().String(),
		TotalAmount:   o.TotalAmount(),
		LocationID:    pgconv.ToNullable(o.LocationID()),
		AssignmentID:  pgconv.ToNullable(o.AssignmentID()),
		CreatedBy:     o.CreatedBy(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	lines := make([]OrderLineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		cols := pgconv.FromItemRef(l.Item())
		lines = append(lines, OrderLineDTO{
			OrderID:         dto.ID,
			Position:        i,
			ItemType:        cols.ItemType,
			TankTypeID:      cols.TankTypeID,
			InventoryItemID: cols.InventoryItemID,
			Quantity:        l.Quantity(),
			UnitPrice:       l.UnitPrice(),
		})
	}
	return dto, lines
}

func toDomain(dto OrderDTO, lineDTOs []OrderLineDTO) (*order.Order, error) {
	id, err := pgconv.FromColumn(dto.ID)
	if err != nil {
		return nil, err
	}
	number, err := order.ParseNumber(dto.Number)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	priority, err := order.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}
	locationID, err := pgconv.FromNullable(dto.LocationID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := pgconv.FromNullable(dto.AssignmentID)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(lineDTOs))
	for _, l := range lineDTOs {
		item, itemErr := pgconv.ItemColumns{
			ItemType:        l.ItemType,
			TankTypeID:      l.TankTypeID,
			InventoryItemID: l.InventoryItemID,
		}.ItemRef()
		if itemErr != nil {
			return nil, fmt.Errorf("order %s line %d: %w", dto.Number, l.Position, itemErr)
		}
		line, lineErr := order.NewLine(item, l.Quantity, l.UnitPrice)
		if lineErr != nil {
			return nil, fmt.Errorf("order %s line %d: %w", dto.Number, l.Position, lineErr)
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.State{
		ID:            id,
		Number:        number,
		Status:        status,
		PaymentStatus: paymentStatus,
		Priority:      priority,
		TotalAmount:   dto.TotalAmount,
		LocationID:    locationID,
		AssignmentID:  assignmentID,
		Lines:         lines,
		CreatedBy:     dto.CreatedBy,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
	})
}

func historyFromDomain(entry order.HistoryEntry) (StatusHistoryDTO, error) {
	metadata, err := json.Marshal(entry.Metadata())
	if err != nil {
		return StatusHistoryDTO{}, fmt.Errorf("encode history metadata: %w", err)
	}

	var from *string
	if f := entry.FromStatus(); f != nil {
		s := f.String()
		from = &s
	}

	return StatusHistoryDTO{
		OrderID:    entry.OrderID().Bytes(),
		FromStatus: from,
		ToStatus:   entry.ToStatus().String(),
		ActorID:    entry.Actor().ID(),
		ActorRole:  string(entry.Actor().Role()),
		Reason:     entry.Reason(),
		Metadata:   datatypes.JSON(metadata),
		CreatedAt:  entry.OccurredAt(),
	}, nil
}

// historyToDomain rebuilds a history entry from its row.
func historyToDomain(dto StatusHistoryDTO) (order.HistoryEntry, error) {
	orderID, err := pgconv.FromColumn(dto.OrderID)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	to, err := order.ParseStatus(dto.ToStatus)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	var from *order.Status
	if dto.FromStatus != nil {
		f, parseErr := order.ParseStatus(*dto.FromStatus)
		if parseErr != nil {
			return order.HistoryEntry{}, parseErr
		}
		from = &f
	}
	actor, err := kernel.NewActor(dto.ActorID, kernel.Role(dto.ActorRole))
	if err != nil {
		return order.HistoryEntry{}, err
	}

	entry, err := order.NewHistoryEntry(orderID, from, to, actor, dto.Reason, dto.CreatedAt)
	if err != nil {
		return order.HistoryEntry{}, err
	}

	if len(dto.Metadata) > 0 {
		var md map[string]any
		if err = json.Unmarshal(dto.Metadata, &md); err != nil {
			return order.HistoryEntry{}, fmt.Errorf("decode history metadata: %w", err)
		}
		for k, v := range md {
			entry = entry.WithMetadata(k, v)
		}
	}
	return entry, nil
}
