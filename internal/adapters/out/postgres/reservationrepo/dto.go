// Package reservationrepo persists inventory reservations.
package reservationrepo

import (
	"time"

	"fulfillment/internal/adapters/out/postgres/pgconv"
	"fulfillment/internal/core/domain/model/reservation"

	"github.com/google/uuid"
)

// ReservationDTO is one inventory_reservations row. The (store_assignment_id, item, status)
// index serves the ACTIVE sums of the availability checks.
type ReservationDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	StoreAssignmentID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_reservations_line,priority:1"`
	CurrentInventoryID uuid.UUID  `gorm:"type:uuid;not null"`
	ItemType           string     `gorm:"type:varchar(8);not null;index:idx_reservations_line,priority:2"`
	TankTypeID         *uuid.UUID `gorm:"type:uuid;index:idx_reservations_line,priority:3;check:chk_reservations_item,(tank_type_id IS NULL) <> (inventory_item_id IS NULL)"`
	InventoryItemID    *uuid.UUID `gorm:"type:uuid;index:idx_reservations_line,priority:4"`
	ReservedQuantity   int        `gorm:"not null;check:chk_reservations_quantity,reserved_quantity > 0"`
	Status             string     `gorm:"type:varchar(16);not null;index:idx_reservations_line,priority:5"`
	ExpiresAt          *time.Time
	HeldSince          time.Time `gorm:"not null;default:now();index"`
	CreatedAt          time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (ReservationDTO) TableName() string {
	return "inventory_reservations"
}

func fromDomain(r *reservation.Reservation) ReservationDTO {
	cols := pgconv.FromItemRef(r.Item())
	return ReservationDTO{
		ID:                 r.ID().Bytes(),
		OrderID:            r.OrderID().Bytes(),
		StoreAssignmentID:  r.AssignmentID().Bytes(),
		CurrentInventoryID: r.SnapshotID().Bytes(),
		ItemType:           cols.ItemType,
		TankTypeID:         cols.TankTypeID,
		InventoryItemID:    cols.InventoryItemID,
		ReservedQuantity:   r.Quantity(),
		Status:             r.Status().String(),
		ExpiresAt:          r.ExpiresAt(),
		HeldSince:          r.HeldSince(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}

// toDomain rebuilds a reservation from its row.
func toDomain(dto ReservationDTO) (*reservation.Reservation, error) {
	id, err := pgconv.FromColumn(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := pgconv.FromColumn(dto.OrderID)
	if err != nil {
		return nil, err
	}
	assignmentID, err := pgconv.FromColumn(dto.StoreAssignmentID)
	if err != nil {
		return nil, err
	}
	snapshotID, err := pgconv.FromColumn(dto.CurrentInventoryID)
	if err != nil {
		return nil, err
	}
	item, err := pgconv.ItemColumns{
		ItemType:        dto.ItemType,
		TankTypeID:      dto.TankTypeID,
		InventoryItemID: dto.InventoryItemID,
	}.ItemRef()
	if err != nil {
		return nil, err
	}
	status, err := reservation.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if dto.ExpiresAt != nil {
		at := dto.ExpiresAt.UTC()
		expiresAt = &at
	}

	return reservation.RestoreReservation(reservation.State{
		ID:           id,
		OrderID:      orderID,
		AssignmentID: assignmentID,
		SnapshotID:   snapshotID,
		Item:         item,
		Quantity:     dto.ReservedQuantity,
		Status:       status,
		ExpiresAt:    expiresAt,
		HeldSince:    dto.HeldSince.UTC(),
		CreatedAt:    dto.CreatedAt.UTC(),
		UpdatedAt:    dto.UpdatedAt.UTC(),
	})
}
