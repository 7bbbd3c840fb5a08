package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgconv"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements LedgerRepository using GORM. Lines belong to a snapshot;
// every method goes through the assignment's current pointer.
type GormLedgerRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db, now: time.Now}
}

// ResolveLocation returns the most recently switched pointer of the location.
func (r *GormLedgerRepository) ResolveLocation(ctx context.Context, locationID kernel.UUID) (inventory.Pointer, error) {
	if err := locationID.Validate(); err != nil {
		return inventory.Pointer{}, errs.NewValueIsRequiredErrorWithCause("locationId", err)
	}

	var dto PointerDTO
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID.Bytes()).
		Order("updated_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.Pointer{}, errs.NewObjectNotFoundError("current inventory of location", locationID.String())
	}
	if err != nil {
		return inventory.Pointer{}, err
	}
	return pointerToDomain(dto)
}

func (r *GormLedgerRepository) Pointer(ctx context.Context, assignmentID kernel.UUID) (inventory.Pointer, error) {
	dto, err := r.pointer(ctx, assignmentID, false)
	if err != nil {
		return inventory.Pointer{}, err
	}
	return pointerToDomain(dto)
}

// SwitchSnapshot upserts the assignment's pointer. Lines of the previous snapshot are kept.
func (r *GormLedgerRepository) SwitchSnapshot(ctx context.Context, pointer inventory.Pointer) error {
	if err := pointer.Validate(); err != nil {
		return err
	}

	dto := PointerDTO{
		StoreAssignmentID:  pointer.AssignmentID.Bytes(),
		LocationID:         pointer.LocationID.Bytes(),
		CurrentInventoryID: pointer.SnapshotID.Bytes(),
		UpdatedAt:          r.now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_assignment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location_id", "current_inventory_id", "updated_at"}),
	}).Create(&dto).Error
}

func (r *GormLedgerRepository) Balance(
	ctx context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
	forUpdate bool,
) (inventory.Balance, error) {
	ptr, err := r.pointer(ctx, assignmentID, false)
	if err != nil {
		return inventory.Balance{}, err
	}
	return r.readLine(ctx, ptr.CurrentInventoryID, item, forUpdate)
}

// Lock creates missing lines and locks them in the order given. Pointers are read FOR SHARE
// so a snapshot switch waits for the transaction.
func (r *GormLedgerRepository) Lock(ctx context.Context, item inventory.ItemRef, assignmentIDs ...kernel.UUID) error {
	if err := item.Validate(); err != nil {
		return err
	}

	for _, assignmentID := range assignmentIDs {
		ptr, err := r.pointer(ctx, assignmentID, true)
		if err != nil {
			return err
		}
		if err = r.ensureLine(ctx, ptr.CurrentInventoryID, item); err != nil {
			return err
		}
		if _, err = r.readLine(ctx, ptr.CurrentInventoryID, item, true); err != nil {
			return err
		}
	}
	return nil
}

// Post applies posting to the line and writes one transaction log row. A posting that would
// take a bucket below zero fails with a conflict before anything is written.
func (r *GormLedgerRepository) Post(
	ctx context.Context,
	assignmentID kernel.UUID,
	item inventory.ItemRef,
	posting inventory.Posting,
	entry inventory.LogEntry,
) (inventory.Balance, error) {
	ptr, err := r.pointer(ctx, assignmentID, false)
	if err != nil {
		return inventory.Balance{}, err
	}

	before, err := r.readLine(ctx, ptr.CurrentInventoryID, item, true)
	if err != nil {
		return inventory.Balance{}, err
	}
	after, err := before.Apply(posting)
	if err != nil {
		return inventory.Balance{}, err
	}

	now := r.now().UTC()
	if err = r.writeLine(ctx, ptr.CurrentInventoryID, item, after, now); err != nil {
		return inventory.Balance{}, err
	}

	cols := pgconv.FromItemRef(item)
	bucket := posting.Bucket
	if item.Kind() == inventory.Item {
		bucket = inventory.Units
	}
	row := TransactionDTO{
		TransactionID:      entry.TransactionID.Bytes(),
		TransactionType:    entry.Type.String(),
		StoreAssignmentID:  ptr.StoreAssignmentID,
		CurrentInventoryID: ptr.CurrentInventoryID,
		ItemType:           cols.ItemType,
		TankTypeID:         cols.TankTypeID,
		InventoryItemID:    cols.InventoryItemID,
		Bucket:             bucket.String(),
		Delta:              posting.Delta,
		BalanceAfter:       after.In(bucket),
		ActorID:            entry.Actor.ID(),
		ActorRole:          string(entry.Actor.Role()),
		Reason:             entry.Reason,
		OrderID:            pgconv.ToNullable(entry.OrderID),
		Metadata: datatypes.JSONMap{
			"balanceBefore": before.In(bucket),
			"onHandAfter":   after.OnHand(),
		},
		CreatedAt: now,
	}
	if err = r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return inventory.Balance{}, err
	}
	return after, nil
}

func (r *GormLedgerRepository) pointer(ctx context.Context, assignmentID kernel.UUID, share bool) (PointerDTO, error) {
	if err := assignmentID.Validate(); err != nil {
		return PointerDTO{}, errs.NewValueIsRequiredErrorWithCause("storeAssignmentId", err)
	}

	q := r.db.WithContext(ctx)
	if share {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}

	var dto PointerDTO
	err := q.Where("store_assignment_id = ?", assignmentID.Bytes()).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PointerDTO{}, errs.NewObjectNotFoundError("current inventory of assignment", assignmentID.String())
	}
	return dto, err
}

func (r *GormLedgerRepository) readLine(
	ctx context.Context,
	snapshotID uuid.UUID,
	item inventory.ItemRef,
	forUpdate bool,
) (inventory.Balance, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if item.Kind() == inventory.Tank {
		var line TankLineDTO
		err := q.Where("current_inventory_id = ? AND tank_type_id = ?", snapshotID, item.ID().Bytes()).Take(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Balance{Kind: inventory.Tank}, nil
		}
		return inventory.Balance{Kind: inventory.Tank, Full: line.FullTanks, Empty: line.EmptyTanks}, err
	}

	var line ItemLineDTO
	err := q.Where("current_inventory_id = ? AND inventory_item_id = ?", snapshotID, item.ID().Bytes()).Take(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.Balance{Kind: inventory.Item}, nil
	}
	return inventory.Balance{Kind: inventory.Item, Quantity: line.Quantity}, err
}

func (r *GormLedgerRepository) ensureLine(ctx context.Context, snapshotID uuid.UUID, item inventory.ItemRef) error {
	q := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})
	now := r.now().UTC()
	if item.Kind() == inventory.Tank {
		return q.Create(&TankLineDTO{CurrentInventoryID: snapshotID, TankTypeID: item.ID().Bytes(), UpdatedAt: now}).Error
	}
	return q.Create(&ItemLineDTO{CurrentInventoryID: snapshotID, InventoryItemID: item.ID().Bytes(), UpdatedAt: now}).Error
}

func (r *GormLedgerRepository) writeLine(
	ctx context.Context,
	snapshotID uuid.UUID,
	item inventory.ItemRef,
	b inventory.Balance,
	now time.Time,
) error {
	if item.Kind() == inventory.Tank {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "current_inventory_id"}, {Name: "tank_type_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_tanks", "empty_tanks", "updated_at"}),
		}).Create(&TankLineDTO{
			CurrentInventoryID: snapshotID,
			TankTypeID:         item.ID().Bytes(),
			FullTanks:          b.Full,
			EmptyTanks:         b.Empty,
			UpdatedAt:          now,
		}).Error
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "current_inventory_id"}, {Name: "inventory_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&ItemLineDTO{
		CurrentInventoryID: snapshotID,
		InventoryItemID:    item.ID().Bytes(),
		Quantity:           b.Quantity,
		UpdatedAt:          now,
	}).Error
}

func pointerToDomain(dto PointerDTO) (inventory.Pointer, error) {
	assignmentID, err := pgconv.FromColumn(dto.StoreAssignmentID)
	if err != nil {
		return inventory.Pointer{}, err
	}
	locationID, err := pgconv.FromColumn(dto.LocationID)
	if err != nil {
		return inventory.Pointer{}, err
	}
	snapshotID, err := pgconv.FromColumn(dto.CurrentInventoryID)
	if err != nil {
		return inventory.Pointer{}, err
	}
	return inventory.Pointer{AssignmentID: assignmentID, LocationID: locationID, SnapshotID: snapshotID}, nil
}
