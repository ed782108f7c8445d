package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest is a request for stock that is not yet in the inventory.
// Requests are independent of the item audit trail.
type ItemRequest struct {
	ID                int64           `json:"id"`
	Manufacturer      string          `json:"manufacturer"`
	ModelPartNum      string          `json:"model_part_num"`
	QuantityRequested int             `json:"quantity_requested"`
	Description       string          `json:"description,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	RequestedByID     *int64          `json:"requested_by,omitempty"`
	Status            string          `json:"status"`
	StatusChangedByID *int64          `json:"status_changed_by,omitempty"`
	Timestamp         time.Time       `json:"timestamp"`

	// Joined fields (not always populated).
	RequestedByName     string `json:"requested_by_name,omitempty"`
	StatusChangedByName string `json:"status_changed_by_name,omitempty"`
}

// Request statuses.
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusRejected = "Rejected"
)

// String returns the display line for this request.
func (r *ItemRequest) String() string {
	return fmt.Sprintf("Request by %s for %s, %s", r.RequestedByName, r.Manufacturer, r.ModelPartNum)
}

// URL returns the request's identity path.
func (r *ItemRequest) URL() string {
	return fmt.Sprintf("%s/item_requests/%d", BaseURL, r.ID)
}
