package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItem is a line on a purchase order being drafted. Standalone
// records, not subject to the audit trail.
type PurchaseOrderItem struct {
	ID              int64           `json:"id"`
	Manufacturer    string          `json:"manufacturer"`
	ModelPartNum    string          `json:"model_part_num"`
	QuantityOrdered int             `json:"quantity_ordered"`
	Description     string          `json:"description,omitempty"`
	SerialNum       string          `json:"serial_num,omitempty"`
	PropertyNum     string          `json:"property_num,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// String returns the display line for this purchase order line.
func (p *PurchaseOrderItem) String() string {
	return fmt.Sprintf("Purchase Order for %s by %s - Quantity: %d", p.ModelPartNum, p.Manufacturer, p.QuantityOrdered)
}
