// Package order provides the Order aggregate and its workflow state machine.
//
// The package includes:
//   - Order: the aggregate root owning status, payment status, priority, lines and total amount
//   - Status: the workflow PENDING -> CONFIRMED -> RESERVED -> IN_TRANSIT -> DELIVERED -> FULFILLED,
//     with CANCELLED reachable before dispatch and FAILED as a recoverable dead end
//   - Number: the year-scoped order number ORD-YYYY-NNN
//   - HistoryEntry and Timeline: the append-only audit trail and the dwell times derived from it
//   - StatusChanged: the event raised by every transition
//
// Key business rules:
//   - A transition names the status it expects to leave; a mismatch is a conflict
//   - Edges outside the transition table are rejected and never recorded
//   - FULFILLED and CANCELLED are terminal
package order
