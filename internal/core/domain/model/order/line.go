package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Line is one ordered tank type or accessory with its quantity and unit price.
type Line struct {
	item      inventory.ItemRef
	quantity  int
	unitPrice decimal.Decimal
}

func NewLine(item inventory.ItemRef, quantity int, unitPrice decimal.Decimal) (Line, error) {
	if err := item.Validate(); err != nil {
		return Line{}, err
	}
	if quantity <= 0 {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPrice.IsNegative() {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%s is negative", unitPrice))
	}
	return Line{item: item, quantity: quantity, unitPrice: unitPrice}, nil
}

func (l Line) Item() inventory.ItemRef {
	return l.item
}

func (l Line) Quantity() int {
	return l.quantity
}

func (l Line) UnitPrice() decimal.Decimal {
	return l.unitPrice
}

func (l Line) Amount() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}
