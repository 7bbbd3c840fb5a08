// Package inventory models the per-assignment stock ledger.
//
// A ledger line holds the on-hand quantity of one catalog entry inside one inventory snapshot:
// full and empty counts for a tank type, a single count for an accessory item. Lines change only
// through Postings, each a signed delta to one bucket, produced by the transaction strategies
// and logged one by one.
//
// The package includes:
//   - EntityKind, TransactionType, Bucket: the enumerations shared by ledger, reservations and strategies
//   - ItemRef: a reference to exactly one tank type or inventory item
//   - Balance, Posting, Leg: on-hand quantities and the deltas applied to them
//   - Pointer: the current snapshot of an assignment
//   - Requirement, Availability: reservation arithmetic (available = on-hand - active holds)
//   - TransactionRequest, Result: the input and output of a ledger transaction
package inventory
