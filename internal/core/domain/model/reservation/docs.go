// Package reservation contains the soft hold an order places on one ledger line.
package reservation
