package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Role defines model for Role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleDriver   Role = "driver"
	RoleSystem   Role = "system"
)

// OrderStatus defines model for OrderStatus.
type OrderStatus string

// PaymentStatus defines model for PaymentStatus.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Priority defines model for Priority.
type Priority string

// ItemType defines model for ItemType.
type ItemType string

const (
	ItemTypeTank ItemType = "tank"
	ItemTypeItem ItemType = "item"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ItemQuantity is an item reference with a requested quantity. Exactly one of TankTypeId and
// InventoryItemId is set, matching ItemType.
type ItemQuantity struct {
	ItemType        ItemType            `json:"itemType"`
	TankTypeId      *openapi_types.UUID `json:"tankTypeId,omitempty"`
	InventoryItemId *openapi_types.UUID `json:"inventoryItemId,omitempty"`
	Quantity        int                 `json:"quantity"`
}

// NewOrderLine defines model for a line of NewOrder.
type NewOrderLine struct {
	ItemQuantity
	UnitPrice string `json:"unitPrice"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	LocationId *openapi_types.UUID `json:"locationId,omitempty"`
	Priority   *Priority           `json:"priority,omitempty"`
	Lines      []NewOrderLine      `json:"lines"`
}

// CreatedOrder defines model for CreatedOrder.
type CreatedOrder struct {
	Id     openapi_types.UUID `json:"id"`
	Number string             `json:"number"`
}

// Transition defines model for Transition.
type Transition struct {
	From                 OrderStatus `json:"from"`
	To                   OrderStatus `json:"to"`
	Reason               *string     `json:"reason,omitempty"`
	ReservationExpiresAt *time.Time  `json:"reservationExpiresAt,omitempty"`
}

// BulkTransition defines model for BulkTransition.
type BulkTransition struct {
	Transition
	OrderId openapi_types.UUID `json:"orderId"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	FromStatus *OrderStatus   `json:"fromStatus,omitempty"`
	ToStatus   OrderStatus    `json:"toStatus"`
	ActorId    string         `json:"actorId"`
	ActorRole  string         `json:"actorRole"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// TimelineStep defines model for an element of Timeline.Steps.
type TimelineStep struct {
	Status       OrderStatus `json:"status"`
	ActorId      string      `json:"actorId"`
	EnteredAt    time.Time   `json:"enteredAt"`
	LeftAt       *time.Time  `json:"leftAt,omitempty"`
	DwellSeconds float64     `json:"dwellSeconds"`
}

// Timeline defines model for Timeline.
type Timeline struct {
	OrderId       openapi_types.UUID `json:"orderId"`
	CurrentStatus OrderStatus        `json:"currentStatus"`
	TotalSeconds  float64            `json:"totalSeconds"`
	Steps         []TimelineStep     `json:"steps"`
}

// StuckOrder defines model for StuckOrder.
type StuckOrder struct {
	OrderId       openapi_types.UUID `json:"orderId"`
	Number        string             `json:"number"`
	Status        OrderStatus        `json:"status"`
	Priority      Priority           `json:"priority"`
	LastChangedAt time.Time          `json:"lastChangedAt"`
	StuckSeconds  float64            `json:"stuckSeconds"`
}

// ReserveRequest defines model for ReserveRequest.
type ReserveRequest struct {
	OrderId    openapi_types.UUID `json:"orderId"`
	LocationId openapi_types.UUID `json:"locationId"`
	ExpiresAt  *time.Time         `json:"expiresAt,omitempty"`
	Items      []ItemQuantity     `json:"items"`
}

// ReservationIds defines model for ReservationIds.
type ReservationIds struct {
	ReservationIds []openapi_types.UUID `json:"reservationIds"`
}

// Count defines model for Count.
type Count struct {
	Count int64 `json:"count"`
}

// BulkFailure defines model for an element of BulkResult.Failed.
type BulkFailure struct {
	Id    openapi_types.UUID `json:"id"`
	Kind  string             `json:"kind"`
	Error string             `json:"error"`
}

// BulkResult defines model for BulkResult.
type BulkResult struct {
	Successful []openapi_types.UUID `json:"successful"`
	Failed     []BulkFailure        `json:"failed"`
}

// ItemAvailability defines model for an element of AvailabilityReport.Items.
type ItemAvailability struct {
	ItemType   ItemType           `json:"itemType"`
	ItemId     openapi_types.UUID `json:"itemId"`
	Required   int                `json:"required"`
	OnHand     int                `json:"onHand"`
	Reserved   int                `json:"reserved"`
	Available  int                `json:"available"`
	Sufficient bool               `json:"sufficient"`
}

// AvailabilityReport defines model for AvailabilityReport.
type AvailabilityReport struct {
	AssignmentId openapi_types.UUID `json:"assignmentId"`
	SnapshotId   openapi_types.UUID `json:"snapshotId"`
	Sufficient   bool               `json:"sufficient"`
	Items        []ItemAvailability `json:"items"`
}

// InventoryTransaction defines model for InventoryTransaction.
type InventoryTransaction struct {
	ItemType           ItemType            `json:"itemType"`
	TankTypeId         *openapi_types.UUID `json:"tankTypeId,omitempty"`
	InventoryItemId    *openapi_types.UUID `json:"inventoryItemId,omitempty"`
	Type               string              `json:"type"`
	AssignmentId       openapi_types.UUID  `json:"assignmentId"`
	TargetAssignmentId *openapi_types.UUID `json:"targetAssignmentId,omitempty"`
	Quantity           int                 `json:"quantity"`
	Bucket             *string             `json:"bucket,omitempty"`
	Reason             *string             `json:"reason,omitempty"`
	OrderId            *openapi_types.UUID `json:"orderId,omitempty"`
}

// Balance defines model for Balance.
type Balance struct {
	AssignmentId openapi_types.UUID `json:"assignmentId"`
	Full         int                `json:"full"`
	Empty        int                `json:"empty"`
	Quantity     int                `json:"quantity"`
}

// TransactionResult defines model for TransactionResult.
type TransactionResult struct {
	TransactionId openapi_types.UUID `json:"transactionId"`
	Type          string             `json:"type"`
	Balance       Balance            `json:"balance"`
	Target        *Balance           `json:"target,omitempty"`
}

// Hold defines model for Hold.
type Hold struct {
	ReservationId openapi_types.UUID `json:"reservationId"`
	OrderId       openapi_types.UUID `json:"orderId"`
	Quantity      int                `json:"quantity"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// Conflict defines model for Conflict.
type Conflict struct {
	AssignmentId openapi_types.UUID `json:"assignmentId"`
	ItemType     ItemType           `json:"itemType"`
	ItemId       openapi_types.UUID `json:"itemId"`
	OnHand       int                `json:"onHand"`
	Reserved     int                `json:"reserved"`
	Shortfall    int                `json:"shortfall"`
	Holds        []Hold             `json:"holds"`
}

// Suggestion defines model for an element of Optimization.Suggestions.
type Suggestion struct {
	Conflict          Conflict `json:"conflict"`
	Release           []Hold   `json:"release"`
	ReleasedQuantity  int      `json:"releasedQuantity"`
	RemainingReserved int      `json:"remainingReserved"`
}

// Optimization defines model for Optimization.
type Optimization struct {
	ReleasableTotal  int                  `json:"releasableTotal"`
	AffectedOrderIds []openapi_types.UUID `json:"affectedOrderIds"`
	Suggestions      []Suggestion         `json:"suggestions"`
}

// TransitionMetric defines model for an element of WorkflowMetrics.Transitions.
type TransitionMetric struct {
	From           OrderStatus `json:"from"`
	To             OrderStatus `json:"to"`
	Count          int         `json:"count"`
	AverageSeconds float64     `json:"averageSeconds"`
}

// WorkflowMetrics defines model for WorkflowMetrics.
type WorkflowMetrics struct {
	TotalOrders         int                `json:"totalOrders"`
	OrdersByStatus      map[string]int     `json:"ordersByStatus"`
	AverageDwellSeconds map[string]float64 `json:"averageDwellSeconds"`
	SuccessRate         float64            `json:"successRate"`
	CancellationRate    float64            `json:"cancellationRate"`
	Transitions         []TransitionMetric `json:"transitions"`
}

// ReservedItem defines model for an element of ReservationMetrics.TopReservedItems.
type ReservedItem struct {
	ItemType     ItemType           `json:"itemType"`
	ItemId       openapi_types.UUID `json:"itemId"`
	Quantity     int                `json:"quantity"`
	Reservations int                `json:"reservations"`
}

// ReservationMetrics defines model for ReservationMetrics.
type ReservationMetrics struct {
	ActiveCount      int            `json:"activeCount"`
	ActiveQuantity   int            `json:"activeQuantity"`
	ExpiringSoon     int            `json:"expiringSoon"`
	CountByStatus    map[string]int `json:"countByStatus"`
	TopReservedItems []ReservedItem `json:"topReservedItems"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// PerformTransitionJSONRequestBody defines body for PerformTransition for application/json ContentType.
type PerformTransitionJSONRequestBody = Transition

// UpdatePaymentStatusJSONBody defines parameters for UpdatePaymentStatus.
type UpdatePaymentStatusJSONBody struct {
	Status PaymentStatus `json:"status"`
}

// ReserveInventoryJSONRequestBody defines body for ReserveInventory for application/json ContentType.
type ReserveInventoryJSONRequestBody = ReserveRequest

// ExpireReservationsJSONBody defines parameters for ExpireReservations.
type ExpireReservationsJSONBody struct {
	ThresholdHours int `json:"thresholdHours"`
}

// BulkStatusTransitionJSONBody defines parameters for BulkStatusTransition.
type BulkStatusTransitionJSONBody struct {
	Transitions []BulkTransition `json:"transitions"`
}

// BulkReserveItemsJSONBody defines parameters for BulkReserveItems.
type BulkReserveItemsJSONBody struct {
	Reservations []ReserveRequest `json:"reservations"`
}

// BulkCancelReservationsJSONBody defines parameters for BulkCancelReservations.
type BulkCancelReservationsJSONBody struct {
	OrderIds []openapi_types.UUID `json:"orderIds"`
}

// CheckAvailabilityJSONBody defines parameters for CheckAvailability.
type CheckAvailabilityJSONBody struct {
	LocationId openapi_types.UUID `json:"locationId"`
	Items      []ItemQuantity     `json:"items"`
}

// ExecuteInventoryTransactionJSONRequestBody defines body for ExecuteInventoryTransaction for application/json ContentType.
type ExecuteInventoryTransactionJSONRequestBody = InventoryTransaction

// SwitchInventorySnapshotJSONBody defines parameters for SwitchInventorySnapshot.
type SwitchInventorySnapshotJSONBody struct {
	LocationId openapi_types.UUID `json:"locationId"`
	SnapshotId openapi_types.UUID `json:"snapshotId"`
}

// ActorParams carries the X-Actor-ID and X-Actor-Role headers.
type ActorParams struct {
	XActorID   string `json:"X-Actor-ID"`
	XActorRole Role   `json:"X-Actor-Role"`
}

// GetStuckOrdersParams defines parameters for GetStuckOrders.
type GetStuckOrdersParams struct {
	ThresholdHours *int `form:"thresholdHours,omitempty" json:"thresholdHours,omitempty"`
}

// LocationFilterParams defines parameters for FindConflictingReservations and OptimizeReservations.
type LocationFilterParams struct {
	LocationId *openapi_types.UUID `form:"locationId,omitempty" json:"locationId,omitempty"`
}

// GetWorkflowMetricsParams defines parameters for GetWorkflowMetrics.
type GetWorkflowMetricsParams struct {
	Since *time.Time `form:"since,omitempty" json:"since,omitempty"`
}

// GetReservationMetricsParams defines parameters for GetReservationMetrics.
type GetReservationMetricsParams struct {
	ExpiringWithinHours *int `form:"expiringWithinHours,omitempty" json:"expiringWithinHours,omitempty"`
	Top                 *int `form:"top,omitempty" json:"top,omitempty"`
}
