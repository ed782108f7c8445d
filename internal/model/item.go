package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"inventorydb/internal/audit"
)

// BaseURL is the path prefix for entity identity URLs. Stored history
// records embed links under this prefix, so it must stay stable.
const BaseURL = "/inventory_database"

// Item represents a tracked inventory item, either a whole unit or a part.
type Item struct {
	ID             int64           `json:"id"`
	Manufacturer   string          `json:"manufacturer"`
	Model          string          `json:"model"`
	PartOrUnit     string          `json:"part_or_unit"`
	PartNumber     string          `json:"part_number,omitempty"`
	Description    string          `json:"description,omitempty"`
	Location       string          `json:"location,omitempty"`
	Quantity       int             `json:"quantity"`
	MinQuantity    int             `json:"min_quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LastModifiedBy *int64          `json:"last_modified_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Joined fields (not always populated).
	LastModifiedByName string `json:"last_modified_by_name,omitempty"`
}

// Item kinds.
const (
	PartOrUnitUnit = "unit"
	PartOrUnitPart = "part"
)

// DefaultUnitPrice is assigned when no price is specified.
var DefaultUnitPrice = decimal.RequireFromString("0.01")

// LowStock reports whether the quantity has fallen below the minimum.
func (i *Item) LowStock() bool {
	return i.Quantity < i.MinQuantity
}

// String composes the display name. For parts the space before the part
// number is kept even when the part number is blank.
func (i *Item) String() string {
	if i.PartOrUnit == PartOrUnitPart {
		return fmt.Sprintf("%s, %s %s", i.Manufacturer, i.Model, i.PartNumber)
	}
	return fmt.Sprintf("%s, %s", i.Manufacturer, i.Model)
}

// ModelPartNum joins model and part number. Units and parts without a part
// number keep the trailing space.
func (i *Item) ModelPartNum() string {
	if i.PartOrUnit == PartOrUnitPart && i.PartNumber != "" {
		return i.Model + " " + i.PartNumber
	}
	return i.Model + " "
}

// URL returns the item's identity path.
func (i *Item) URL() string {
	return fmt.Sprintf("%s/items/%d", BaseURL, i.ID)
}

// AuditSnapshot returns the tracked fields in declaration order, each value
// rendered with the same serialization used for storage.
func (i *Item) AuditSnapshot() audit.Snapshot {
	return audit.Snapshot{
		{Name: "manufacturer", Value: i.Manufacturer},
		{Name: "model", Value: i.Model},
		{Name: "part_or_unit", Value: i.PartOrUnit},
		{Name: "part_number", Value: i.PartNumber},
		{Name: "description", Value: i.Description},
		{Name: "location", Value: i.Location},
		{Name: "quantity", Value: strconv.Itoa(i.Quantity)},
		{Name: "min_quantity", Value: strconv.Itoa(i.MinQuantity)},
		{Name: "unit_price", Value: i.UnitPrice.StringFixed(2)},
	}
}
