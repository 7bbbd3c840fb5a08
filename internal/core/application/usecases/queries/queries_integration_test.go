package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/reservation"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// QueryHandlersTestSuite runs every read model against PostgreSQL, seeding through the
// repositories so the queries read exactly what the write side stores.
type QueryHandlersTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
	actor     kernel.Actor
	seq       int64
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, nil, nil)

	suite.actor, err = kernel.NewActor("op-1", kernel.RoleOperator)
	suite.Require().NoError(err)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(postgres_adapter.TruncateAll(suite.db))
}

func (suite *QueryHandlersTestSuite) TestCheckAvailability_SubtractsActiveHolds() {
	ctx := context.Background()
	pointer, tank := suite.seedLedger(ctx, 10)
	o := suite.addOrder(ctx, time.Now())
	suite.addReservation(ctx, o.ID(), pointer, tank, 4, time.Now())

	query, err := queries.NewCheckAvailabilityQuery(pointer.LocationID,
		[]inventory.Requirement{{Item: tank, Quantity: 6}})
	suite.Require().NoError(err)

	result, err := queries.NewCheckAvailabilityQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(pointer.AssignmentID, result.AssignmentID)
	suite.Equal(pointer.SnapshotID, result.SnapshotID)
	suite.True(result.Sufficient)
	suite.Require().Len(result.Items, 1)
	suite.Equal(10, result.Items[0].OnHand)
	suite.Equal(4, result.Items[0].Reserved)
	suite.Equal(6, result.Items[0].Available)
}

func (suite *QueryHandlersTestSuite) TestCheckAvailability_UnknownItemIsInsufficient() {
	ctx := context.Background()
	pointer, _ := suite.seedLedger(ctx, 10)
	item, err := inventory.NewItemRef(kernel.NewUUID())
	suite.Require().NoError(err)

	query, err := queries.NewCheckAvailabilityQuery(pointer.LocationID,
		[]inventory.Requirement{{Item: item, Quantity: 1}})
	suite.Require().NoError(err)

	result, err := queries.NewCheckAvailabilityQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.False(result.Sufficient)
	suite.Zero(result.Items[0].OnHand)
}

func (suite *QueryHandlersTestSuite) TestCheckAvailability_UnknownLocation_ReturnsNotFound() {
	tank, err := inventory.NewTankRef(kernel.NewUUID())
	suite.Require().NoError(err)
	query, err := queries.NewCheckAvailabilityQuery(kernel.NewUUID(), []inventory.Requirement{{Item: tank, Quantity: 1}})
	suite.Require().NoError(err)

	_, err = queries.NewCheckAvailabilityQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Equal(errs.KindNotFound, errs.KindOf(err))
}

func (suite *QueryHandlersTestSuite) TestHistoryAndTimeline() {
	ctx := context.Background()
	start := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Millisecond)
	o := suite.addOrder(ctx, start)
	suite.transition(ctx, o, order.Pending, order.Confirmed, start.Add(time.Hour))
	suite.transition(ctx, o, order.Confirmed, order.Cancelled, start.Add(90*time.Minute))

	historyQuery, err := queries.NewGetOrderHistoryQuery(o.ID())
	suite.Require().NoError(err)
	history, err := queries.NewGetOrderHistoryQueryHandler(suite.db).Handle(ctx, historyQuery)
	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	suite.Nil(history[0].FromStatus)
	suite.Equal(order.Cancelled, history[2].ToStatus)
	suite.Equal("op-1", history[2].ActorID)

	timelineQuery, err := queries.NewGetOrderTimelineQuery(o.ID())
	suite.Require().NoError(err)
	timeline, err := queries.NewGetOrderTimelineQueryHandler(suite.db).Handle(ctx, timelineQuery)
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, timeline.CurrentStatus)
	suite.Require().Len(timeline.Steps, 3)
	suite.Equal(time.Hour, timeline.Steps[0].Dwell)
	suite.Equal(30*time.Minute, timeline.Steps[1].Dwell)
	suite.Equal(90*time.Minute, timeline.TotalDuration)
}

func (suite *QueryHandlersTestSuite) TestHistory_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetOrderHistoryQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	result, err := queries.NewGetOrderHistoryQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Nil(result)
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *QueryHandlersTestSuite) TestStuckOrders_SkipsTerminalAndRecent() {
	ctx := context.Background()
	old := time.Now().UTC().Add(-48 * time.Hour)

	stuck := suite.addOrder(ctx, old)
	suite.addOrder(ctx, time.Now())
	cancelled := suite.addOrder(ctx, old)
	suite.transition(ctx, cancelled, order.Pending, order.Cancelled, old.Add(time.Minute))

	query, err := queries.NewGetStuckOrdersQuery(24 * time.Hour)
	suite.Require().NoError(err)

	result, err := queries.NewGetStuckOrdersQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(stuck.ID(), result[0].OrderID)
	suite.Equal(order.Pending, result[0].Status)
	suite.Equal(stuck.Number().String(), result[0].Number)
	suite.GreaterOrEqual(result[0].StuckFor, 48*time.Hour)
}

func (suite *QueryHandlersTestSuite) TestWorkflowMetrics() {
	ctx := context.Background()
	start := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)

	fulfilled := suite.addOrder(ctx, start)
	suite.transition(ctx, fulfilled, order.Pending, order.Confirmed, start.Add(10*time.Minute))
	suite.transition(ctx, fulfilled, order.Confirmed, order.Reserved, start.Add(15*time.Minute))
	suite.transition(ctx, fulfilled, order.Reserved, order.InTransit, start.Add(20*time.Minute))
	suite.transition(ctx, fulfilled, order.InTransit, order.Delivered, start.Add(30*time.Minute))
	suite.transition(ctx, fulfilled, order.Delivered, order.Fulfilled, start.Add(31*time.Minute))

	cancelled := suite.addOrder(ctx, start)
	suite.transition(ctx, cancelled, order.Pending, order.Confirmed, start.Add(20*time.Minute))
	suite.transition(ctx, cancelled, order.Confirmed, order.Cancelled, start.Add(25*time.Minute))

	suite.addOrder(ctx, start)
	suite.addOrder(ctx, start)

	query, err := queries.NewGetWorkflowMetricsQuery(nil)
	suite.Require().NoError(err)

	result, err := queries.NewGetWorkflowMetricsQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(4, result.TotalOrders)
	suite.Equal(2, result.OrdersByStatus[order.Pending])
	suite.Equal(1, result.OrdersByStatus[order.Fulfilled])
	suite.Equal(1, result.OrdersByStatus[order.Cancelled])
	suite.Zero(result.OrdersByStatus[order.Failed])
	suite.InDelta(0.25, result.SuccessRate, 1e-9)
	suite.InDelta(0.25, result.CancellationRate, 1e-9)

	var pendingToConfirmed *queries.TransitionMetric
	for i := range result.Transitions {
		if result.Transitions[i].From == order.Pending && result.Transitions[i].To == order.Confirmed {
			pendingToConfirmed = &result.Transitions[i]
		}
	}
	suite.Require().NotNil(pendingToConfirmed)
	suite.Equal(2, pendingToConfirmed.Count)
	suite.Equal(15*time.Minute, pendingToConfirmed.AverageDuration)
	suite.Equal(15*time.Minute, result.AverageDwell[order.Pending])
	suite.Equal(5*time.Minute, result.AverageDwell[order.Confirmed])
}

func (suite *QueryHandlersTestSuite) TestReservationMetrics() {
	ctx := context.Background()
	pointer, tank := suite.seedLedger(ctx, 50)
	item, err := inventory.NewItemRef(kernel.NewUUID())
	suite.Require().NoError(err)

	o := suite.addOrder(ctx, time.Now())
	suite.addReservation(ctx, o.ID(), pointer, tank, 5, time.Now())
	suite.addReservation(ctx, o.ID(), pointer, tank, 3, time.Now())
	suite.addReservation(ctx, o.ID(), pointer, item, 2, time.Now())

	soon := time.Now().Add(2 * time.Hour)
	expiring, err := reservation.NewReservation(kernel.NewUUID(), o.ID(), pointer, item, 1, &soon, time.Now())
	suite.Require().NoError(err)
	cancelled, err := reservation.NewReservation(kernel.NewUUID(), o.ID(), pointer, tank, 7, nil, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(cancelled.Cancel(time.Now()))
	suite.Require().NoError(suite.factory.Create().ReservationRepository().Add(ctx, expiring, cancelled))

	query, err := queries.NewGetReservationMetricsQuery(0, 0)
	suite.Require().NoError(err)

	result, err := queries.NewGetReservationMetricsQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(4, result.ActiveCount)
	suite.Equal(11, result.ActiveQuantity)
	suite.Equal(1, result.ExpiringSoon)
	suite.Equal(4, result.CountByStatus[reservation.Active])
	suite.Equal(1, result.CountByStatus[reservation.Cancelled])
	suite.Require().Len(result.TopReservedItems, 2)
	suite.True(tank.IsEqual(result.TopReservedItems[0].Item))
	suite.Equal(8, result.TopReservedItems[0].Quantity)
	suite.Equal(2, result.TopReservedItems[0].Reservations)
	suite.True(item.IsEqual(result.TopReservedItems[1].Item))
}

// Stock shrinks below the holds after they were placed, as an external correction would do.
func (suite *QueryHandlersTestSuite) TestConflictsAndSuggestions() {
	ctx := context.Background()
	pointer, tank := suite.seedLedger(ctx, 10)
	base := time.Now().Add(-time.Hour)

	first := suite.addOrder(ctx, base)
	second := suite.addOrder(ctx, base)
	third := suite.addOrder(ctx, base)
	suite.addReservation(ctx, first.ID(), pointer, tank, 4, base)
	suite.addReservation(ctx, second.ID(), pointer, tank, 3, base.Add(time.Minute))
	suite.addReservation(ctx, third.ID(), pointer, tank, 3, base.Add(2*time.Minute))

	uow := suite.factory.Create()
	_, err := uow.LedgerRepository().Post(ctx, pointer.AssignmentID, tank,
		inventory.Posting{Bucket: inventory.Full, Delta: -5},
		inventory.LogEntry{TransactionID: kernel.NewUUID(), Type: inventory.Sale, Actor: suite.actor})
	suite.Require().NoError(err)

	conflictsQuery, err := queries.NewFindConflictingReservationsQuery(&pointer.LocationID)
	suite.Require().NoError(err)
	conflicts, err := queries.NewFindConflictingReservationsQueryHandler(suite.db).Handle(ctx, conflictsQuery)
	suite.Require().NoError(err)
	suite.Require().Len(conflicts.Conflicts, 1)
	c := conflicts.Conflicts[0]
	suite.Equal(5, c.OnHand)
	suite.Equal(10, c.Reserved)
	suite.Equal(5, c.Shortfall)
	suite.Require().Len(c.Holds, 3)
	suite.Equal(first.ID(), c.Holds[0].OrderID)

	optimizeQuery, err := queries.NewOptimizeReservationsQuery(nil)
	suite.Require().NoError(err)
	optimized, err := queries.NewOptimizeReservationsQueryHandler(suite.db).Handle(ctx, optimizeQuery)
	suite.Require().NoError(err)
	suite.Require().Len(optimized.Suggestions, 1)
	suite.Equal(6, optimized.ReleasableTotal)
	suite.Equal(4, optimized.Suggestions[0].RemainingReserved)
	suite.ElementsMatch([]kernel.UUID{third.ID(), second.ID()}, optimized.AffectedOrderIDs)
}

func (suite *QueryHandlersTestSuite) TestConflicts_NoneWhenHoldsFit() {
	ctx := context.Background()
	pointer, tank := suite.seedLedger(ctx, 10)
	o := suite.addOrder(ctx, time.Now())
	suite.addReservation(ctx, o.ID(), pointer, tank, 10, time.Now())

	query, err := queries.NewFindConflictingReservationsQuery(nil)
	suite.Require().NoError(err)
	result, err := queries.NewFindConflictingReservationsQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Empty(result.Conflicts)
}

func (suite *QueryHandlersTestSuite) TestHandle_NotConstructedQueries_ReturnError() {
	ctx := context.Background()

	_, err := queries.NewGetStuckOrdersQueryHandler(suite.db).Handle(ctx, queries.GetStuckOrdersQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetStuckOrdersQueryIsNotConstructed)

	_, err = queries.NewGetWorkflowMetricsQueryHandler(suite.db).Handle(ctx, queries.GetWorkflowMetricsQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetWorkflowMetricsQueryIsNotConstructed)

	_, err = queries.NewOptimizeReservationsQueryHandler(suite.db).Handle(ctx, queries.OptimizeReservationsQuery{})
	suite.Require().ErrorIs(err, queries.ErrOptimizeReservationsQueryIsNotConstructed)
}

func (suite *QueryHandlersTestSuite) TestHandle_CancelledContext_ReturnsError() {
	query, err := queries.NewGetStuckOrdersQuery(time.Hour)
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = queries.NewGetStuckOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().Error(err)
}

func (suite *QueryHandlersTestSuite) addOrder(ctx context.Context, createdAt time.Time) *order.Order {
	suite.seq++
	number, err := order.NewNumber(2024, suite.seq)
	suite.Require().NoError(err)
	tank, err := inventory.NewTankRef(kernel.NewUUID())
	suite.Require().NoError(err)
	line, err := order.NewLine(tank, 1, decimal.NewFromInt(20))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), number, nil, []order.Line{line}, order.PriorityNormal, suite.actor, createdAt)
	suite.Require().NoError(err)
	created, err := o.CreationEntry(suite.actor)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.HistoryRepository().Append(ctx, created))
	suite.Require().NoError(uow.Commit(ctx))
	return o
}

func (suite *QueryHandlersTestSuite) transition(ctx context.Context, o *order.Order, from, to order.Status, at time.Time) {
	entry, err := o.Transition(from, to, suite.actor, "", at)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	suite.Require().NoError(uow.OrderRepository().Update(ctx, o))
	suite.Require().NoError(uow.HistoryRepository().Append(ctx, entry))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *QueryHandlersTestSuite) addReservation(
	ctx context.Context,
	orderID kernel.UUID,
	pointer inventory.Pointer,
	item inventory.ItemRef,
	quantity int,
	createdAt time.Time,
) {
	r, err := reservation.NewReservation(kernel.NewUUID(), orderID, pointer, item, quantity, nil, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ReservationRepository().Add(ctx, r))
}

func (suite *QueryHandlersTestSuite) seedLedger(ctx context.Context, fullTanks int) (inventory.Pointer, inventory.ItemRef) {
	pointer := inventory.Pointer{
		AssignmentID: kernel.NewUUID(),
		LocationID:   kernel.NewUUID(),
		SnapshotID:   kernel.NewUUID(),
	}
	tank, err := inventory.NewTankRef(kernel.NewUUID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	ledger := uow.LedgerRepository()
	suite.Require().NoError(ledger.SwitchSnapshot(ctx, pointer))
	_, err = ledger.Post(ctx, pointer.AssignmentID, tank,
		inventory.Posting{Bucket: inventory.Full, Delta: fullTanks},
		inventory.LogEntry{TransactionID: kernel.NewUUID(), Type: inventory.Purchase, Actor: suite.actor})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))
	return pointer, tank
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
