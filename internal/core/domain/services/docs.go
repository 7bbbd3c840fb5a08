// Package services holds the domain logic that spans aggregates or touches the ledger.
//
// The package includes:
//   - StrategyRegistry and the per-type strategies (sale, purchase, return, transfer, assignment)
//     that turn a ledger transaction into signed postings for tanks and items
//   - DetectConflicts and SuggestReleases, the over-reservation scan and its reverse FIFO advice
//   - AnyRolePolicy and RoleTransitionPolicy, the actor checks run before an order transition
//
// Ledger access goes through LedgerPoster, which the postgres ledger repository implements
// inside the caller's unit of work.
package services
