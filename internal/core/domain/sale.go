// internal/core/domain/sale.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SaleLine is one line of a multi-line sale. ProductID and Quantity come
// from the caller; UnitPrice and Subtotal are derived from the product
// snapshot during pre-flight validation.
type SaleLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalePayload is a priced sale: the ordered lines plus the total computed
// on the client before submission. The store never re-derives it.
type SalePayload struct {
	Lines []SaleLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Price fills in the line's derived fields from a unit price.
func (l *SaleLine) Price(unit decimal.Decimal) {
	l.UnitPrice = unit
	l.Subtotal = unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SaleNote renders the movement note for one committed sale line. The
// format matches the notes already on the store's ledger, so it must not
// change: quantity, unit price, subtotal and the sale total, monetary
// values with two decimal places.
func SaleNote(line SaleLine, total decimal.Decimal) string {
	return fmt.Sprintf("Venda: %d x R$ %s = R$ %s — Total: R$ %s",
		line.Quantity,
		line.UnitPrice.StringFixed(2),
		line.Subtotal.StringFixed(2),
		total.StringFixed(2))
}
