package inventory

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// EntityKind distinguishes tank types, tracked as full and empty counts, from accessory items.
type EntityKind int

const (
	UnknownKind EntityKind = iota
	Tank
	Item
)

var entityKindNames = map[EntityKind]string{
	Tank: "tank",
	Item: "item",
}

func (k EntityKind) String() string {
	if s, ok := entityKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k EntityKind) Validate() error {
	if _, ok := entityKindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("item type", fmt.Errorf("%d is not a valid item type", k))
	}
	return nil
}

func ParseEntityKind(s string) (EntityKind, error) {
	for k, name := range entityKindNames {
		if name == s {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("item type", fmt.Errorf("%q is not tank or item", s))
}

// TransactionType selects the strategy that turns a request into postings.
type TransactionType int

const (
	UnknownTransaction TransactionType = iota
	Sale
	Purchase
	Return
	Transfer
	Assignment
)

var transactionTypeNames = map[TransactionType]string{
	Sale:       "SALE",
	Purchase:   "PURCHASE",
	Return:     "RETURN",
	Transfer:   "TRANSFER",
	Assignment: "ASSIGNMENT",
}

func (t TransactionType) String() string {
	if s, ok := transactionTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

func (t TransactionType) Validate() error {
	if _, ok := transactionTypeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transaction type", fmt.Errorf("%d is not a valid transaction type", t))
	}
	return nil
}

func ParseTransactionType(s string) (TransactionType, error) {
	for t, name := range transactionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownTransaction, errs.NewValueIsInvalidErrorWithCause(
		"transaction type", fmt.Errorf("%q is not a valid transaction type", s))
}

// Bucket is the column of a ledger line a posting touches. Tanks have Full and Empty,
// items have Units.
type Bucket int

const (
	NoBucket Bucket = iota
	Full
	Empty
	Units
)

var bucketNames = map[Bucket]string{
	Full:  "full",
	Empty: "empty",
	Units: "units",
}

func (b Bucket) String() string {
	if s, ok := bucketNames[b]; ok {
		return s
	}
	return ""
}

func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return NoBucket, nil
	}
	for b, name := range bucketNames {
		if name == s {
			return b, nil
		}
	}
	return NoBucket, errs.NewValueIsInvalidErrorWithCause("bucket", fmt.Errorf("%q is not full, empty or units", s))
}

// ValidateFor checks that the bucket exists on lines of the given kind.
func (b Bucket) ValidateFor(kind EntityKind) error {
	switch {
	case kind == Tank && (b == Full || b == Empty):
		return nil
	case kind == Tank && b == NoBucket:
		return errs.NewValueIsRequiredError("tank bucket")
	case kind == Item && (b == Units || b == NoBucket):
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("bucket", fmt.Errorf("%s is not a bucket of %s lines", b, kind))
	}
}
