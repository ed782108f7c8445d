package model

import (
	"fmt"
	"time"
)

// ItemHistory is one immutable audit record describing a single mutation
// of an item. Records are append-only and never edited after creation.
type ItemHistory struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Action    string    `json:"action"`
	Changes   string    `json:"changes,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Joined fields (not always populated).
	ItemDisplay string `json:"item_display,omitempty"`
	Username    string `json:"username,omitempty"`
}

// History actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionUse    = "use"
)

// HistoryTimeFormat renders timestamps in history display strings.
const HistoryTimeFormat = "2006-01-02 03:04:05 PM"

// String returns the audit-view display line for this record.
func (h *ItemHistory) String() string {
	return fmt.Sprintf("%s - %s - %s", h.ItemDisplay, h.Action, h.Timestamp.Format(HistoryTimeFormat))
}
