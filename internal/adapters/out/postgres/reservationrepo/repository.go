package reservationrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReservationRepository implements ReservationRepository using GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) Add(ctx context.Context, reservations ...*reservation.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, res := range reservations {
		if err := res.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(res))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Update writes status, expiry, held_since and updated_at. The remaining columns are immutable.
func (r *GormReservationRepository) Update(ctx context.Context, reservations ...*reservation.Reservation) error {
	for _, res := range reservations {
		if err := res.Validate(); err != nil {
			return err
		}

		dto := fromDomain(res)
		result := r.db.WithContext(ctx).Model(&ReservationDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
			"status":     dto.Status,
			"expires_at": dto.ExpiresAt,
			"held_since": dto.HeldSince,
			"updated_at": dto.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("reservation", res.ID().String())
		}
	}
	return nil
}

// ListByOrder locks the returned rows with SELECT ... FOR UPDATE.
func (r *GormReservationRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
	status reservation.Status,
) ([]*reservation.Reservation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReservationDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), status.String()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	reservations := make([]*reservation.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		res, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

func (r *GormReservationRepository) SumActive(ctx context.Context, assignmentID kernel.UUID, item inventory.ItemRef) (int, error) {
	var sum int
	err := itemFilter(r.db.WithContext(ctx).Model(&ReservationDTO{}), item).
		Where("store_assignment_id = ? AND status = ?", assignmentID.Bytes(), reservation.Active.String()).
		Select("COALESCE(SUM(reserved_quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

// ExpireStale is a single UPDATE, so concurrent sweeps cannot expire a hold twice.
func (r *GormReservationRepository) ExpireStale(ctx context.Context, heldBefore, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ReservationDTO{}).
		Where("status = ?", reservation.Active.String()).
		Where("held_since < ? OR (expires_at IS NOT NULL AND expires_at <= ?)", heldBefore.UTC(), now.UTC()).
		Updates(map[string]any{
			"status":     reservation.Expired.String(),
			"updated_at": now.UTC(),
		})
	return result.RowsAffected, result.Error
}

// itemFilter restricts a query on a table with item columns to one item.
func itemFilter(q *gorm.DB, item inventory.ItemRef) *gorm.DB {
	if item.Kind() == inventory.Tank {
		return q.Where("item_type = ? AND tank_type_id = ?", item.Kind().String(), item.ID().Bytes())
	}
	return q.Where("item_type = ? AND inventory_item_id = ?", item.Kind().String(), item.ID().Bytes())
}
