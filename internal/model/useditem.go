package model

import (
	"fmt"
	"time"
)

// UsedItem records the consumption of one unit of an item against a work
// order. Created only by the use action, cross-referenced from the item's
// history.
type UsedItem struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"item_id"`
	WorkOrder    string    `json:"work_order"`
	DatetimeUsed time.Time `json:"datetime_used"`
	UsedByID     *int64    `json:"used_by,omitempty"`

	// Joined fields (not always populated).
	ItemDisplay string `json:"item_display,omitempty"`
	UsedByName  string `json:"used_by_name,omitempty"`
}

// String returns the display line for this consumption record.
func (u *UsedItem) String() string {
	return fmt.Sprintf("Work Order: %s | Item: %s", u.WorkOrder, u.ItemDisplay)
}

// URL returns the used item's identity path. The trailing slash is part of
// the stored link format and must not be dropped.
func (u *UsedItem) URL() string {
	return fmt.Sprintf("%s/used_items/%d/", BaseURL, u.ID)
}
