package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"gorm.io/gorm"
)

type OptimizeReservationsQueryHandler struct {
	db *gorm.DB
}

func NewOptimizeReservationsQueryHandler(db *gorm.DB) OptimizeReservationsQueryHandler {
	return OptimizeReservationsQueryHandler{db: db}
}

func (h OptimizeReservationsQueryHandler) Handle(
	ctx context.Context,
	query OptimizeReservationsQuery,
) (OptimizeReservationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return OptimizeReservationsQueryResponse{}, err
	}

	lines, err := loadActiveHolds(ctx, h.db, query.LocationID())
	if err != nil {
		return OptimizeReservationsQueryResponse{}, err
	}

	response := OptimizeReservationsQueryResponse{
		Suggestions:      services.SuggestReleases(services.DetectConflicts(lines)),
		AffectedOrderIDs: make([]kernel.UUID, 0),
	}
	seen := make(map[kernel.UUID]struct{})
	for _, s := range response.Suggestions {
		response.ReleasableTotal += s.ReleasedQuantity
		for _, hold := range s.Release {
			if _, ok := seen[hold.OrderID]; ok {
				continue
			}
			seen[hold.OrderID] = struct{}{}
			response.AffectedOrderIDs = append(response.AffectedOrderIDs, hold.OrderID)
		}
	}
	return response, nil
}
