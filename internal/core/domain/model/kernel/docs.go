// Package kernel provides the primitives shared by every aggregate of the fulfillment domain.
//
// The package includes:
//   - UUID: identifier value object used for orders, reservations, assignments and catalog items
//   - Actor: the operator or job that performed a change, with its role
//   - DomainEvent: the contract for events raised by aggregates and published after commit
package kernel
