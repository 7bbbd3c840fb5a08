package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the fulfillment workflow. It owns the status, the lines
// that are reserved and sold, and the assignment whose ledger serves it.
//
// Order follows these invariants:
//   - Status changes only through Transition, along the edges of the transition table
//   - Every transition yields exactly one HistoryEntry and one StatusChanged event
//   - Total amount is the sum of line amounts
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id            kernel.UUID
	number        Number
	status        Status
	paymentStatus PaymentStatus
	priority      Priority
	totalAmount   decimal.Decimal

	// locationID is where the order is served from; assignmentID is resolved from it
	// when stock is reserved.
	locationID   *kernel.UUID
	assignmentID *kernel.UUID

	lines     []Line
	createdBy string
	createdAt time.Time
	updatedAt time.Time

	events        []kernel.DomainEvent
	isConstructed bool
}

// NewOrder creates a PENDING order with unpaid status. The caller persists CreationEntry
// together with the order.
//
// Example:
//
//	number, _ := order.NewNumber(2024, 1)
//	line, _ := order.NewLine(tankRef, 2, decimal.RequireFromString("25.50"))
//	o, err := order.NewOrder(kernel.NewUUID(), number, &locationID, []order.Line{line},
//	    order.PriorityNormal, actor, time.Now())
func NewOrder(
	id kernel.UUID,
	number Number,
	locationID *kernel.UUID,
	lines []Line,
	priority Priority,
	createdBy kernel.Actor,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setLocation(locationID),
		o.setLines(lines),
		o.setPriority(priority),
		o.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the persisted form of an order, used by repositories to rebuild the aggregate.
type State struct {
	ID            kernel.UUID
	Number        Number
	Status        Status
	PaymentStatus PaymentStatus
	Priority      Priority
	TotalAmount   decimal.Decimal
	LocationID    *kernel.UUID
	AssignmentID  *kernel.UUID
	Lines         []Line
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestoreOrder rebuilds an order from persistence without replaying its history.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		assignmentID:  s.AssignmentID,
		totalAmount:   s.TotalAmount,
		createdBy:     s.CreatedBy,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
		o.setPriority(s.Priority),
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.paymentStatus = s.PaymentStatus
	o.locationID = s.LocationID
	o.lines = slices.Clone(s.Lines)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) Priority() Priority {
	return o.priority
}

func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// LocationID returns nil when the order has no serving location yet.
func (o *Order) LocationID() *kernel.UUID {
	return o.locationID
}

// AssignmentID returns nil until stock has been reserved for the order.
func (o *Order) AssignmentID() *kernel.UUID {
	return o.assignmentID
}

func (o *Order) Lines() []Line {
	return slices.Clone(o.lines)
}

func (o *Order) CreatedBy() string {
	return o.createdBy
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CreationEntry is the first history entry of the order: no from status, PENDING as target.
func (o *Order) CreationEntry(actor kernel.Actor) (HistoryEntry, error) {
	return NewHistoryEntry(o.id, nil, Pending, actor, "order created", o.createdAt)
}

// Requirements returns the order lines as reservation requirements.
func (o *Order) Requirements() []inventory.Requirement {
	reqs := make([]inventory.Requirement, 0, len(o.lines))
	for _, l := range o.lines {
		reqs = append(reqs, inventory.Requirement{Item: l.Item(), Quantity: l.Quantity()})
	}
	return reqs
}

// Transition moves the order from one status to another.
//
// The expected from status is compared with the current one first, so a caller acting on a
// stale read gets a conflict. Only then is the edge checked against the transition table.
// On success the returned history entry must be persisted in the same transaction as the order.
func (o *Order) Transition(from, to Status, actor kernel.Actor, reason string, at time.Time) (HistoryEntry, error) {
	if err := actor.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	if o.status != from {
		return HistoryEntry{}, errs.NewConflictErrorWithCause(
			"order status",
			fmt.Errorf("order %s is %s, expected %s", o.number, o.status, from),
		)
	}

	if err := from.ValidateTransition(to); err != nil {
		return HistoryEntry{}, err
	}

	entry, err := NewHistoryEntry(o.id, &from, to, actor, reason, at)
	if err != nil {
		return HistoryEntry{}, err
	}

	o.status = to
	o.updatedAt = at.UTC()
	o.events = append(o.events, StatusChanged{
		OrderID:     o.id,
		OrderNumber: o.number.String(),
		From:        from,
		To:          to,
		ActorID:     actor.ID(),
		ActorRole:   actor.Role(),
		Reason:      reason,
		OccurredAt:  at.UTC(),
	})
	return entry, nil
}

// AttachAssignment records the assignment whose ledger serves the order.
func (o *Order) AttachAssignment(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}
	o.assignmentID = &assignmentID
	return nil
}

// SetPaymentStatus records the payment collaborator's outcome. Payment moves PENDING to PAID
// to REFUNDED; repeating the current status is a no-op.
func (o *Order) SetPaymentStatus(status PaymentStatus, at time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == o.paymentStatus {
		return nil
	}
	if !o.paymentStatus.canMoveTo(status) {
		return errs.NewConflictErrorWithCause("payment status",
			fmt.Errorf("order %s payment is %s, cannot become %s", o.number, o.paymentStatus, status))
	}
	o.paymentStatus = status
	o.updatedAt = at.UTC()
	return nil
}

// DomainEvents returns events raised since the aggregate was loaded.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(o.events)
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setLocation(locationID *kernel.UUID) error {
	if locationID == nil {
		return nil
	}
	if err := locationID.Validate(); err != nil {
		return err
	}
	id := *locationID
	o.locationID = &id
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("order lines")
	}

	total := decimal.Zero
	for i, l := range lines {
		if err := l.Item().Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		total = total.Add(l.Amount())
	}

	o.lines = slices.Clone(lines)
	o.totalAmount = total
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setCreatedBy(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	o.createdBy = actor.ID()
	return nil
}
