package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentRefunded
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentPending:  "PENDING",
	PaymentPaid:     "PAID",
	PaymentRefunded: "REFUNDED",
}

func (p PaymentStatus) String() string {
	if s, ok := paymentStatusNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

func (p PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) canMoveTo(to PaymentStatus) bool {
	switch p {
	case PaymentPending:
		return to == PaymentPaid
	case PaymentPaid:
		return to == PaymentRefunded
	default:
		return false
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for p, name := range paymentStatusNames {
		if name == s {
			return p, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status", fmt.Errorf("%q is not a valid payment status", s))
}
