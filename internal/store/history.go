package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventorydb/internal/model"
)

// insertHistory appends one audit record inside the caller's transaction,
// stamped with the save's wall-clock time. The entity write and the history
// append commit or roll back together; a failed append fails the whole
// operation.
func insertHistory(ctx context.Context, tx *sql.Tx, itemID int64, action, changes string, userID *int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO item_history (item_id, action, changes, user_id) VALUES (?, ?, ?, ?)`,
		itemID, action, changes, userID,
	)
	if err != nil {
		return fmt.Errorf("recording item history: %w", err)
	}
	return nil
}

// ListItemHistory returns the audit trail for an item, newest first. A
// nonexistent item yields an empty trail, not an error.
func ListItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.ItemHistory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT h.id, h.item_id, h.action, h.changes, h.user_id, h.timestamp,
		        i.manufacturer, i.model, i.part_or_unit, i.part_number,
		        COALESCE(u.username, '') AS username
		 FROM item_history h
		 JOIN items i ON i.id = h.item_id
		 LEFT JOIN users u ON u.id = h.user_id
		 WHERE h.item_id = ?
		 ORDER BY h.timestamp DESC, h.id DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) ([]model.ItemHistory, error) {
	var history []model.ItemHistory
	for rows.Next() {
		var h model.ItemHistory
		var changes, partNumber sql.NullString
		item := model.Item{}
		if err := rows.Scan(&h.ID, &h.ItemID, &h.Action, &changes, &h.UserID, &h.Timestamp,
			&item.Manufacturer, &item.Model, &item.PartOrUnit, &partNumber,
			&h.Username); err != nil {
			return nil, fmt.Errorf("scanning history record: %w", err)
		}
		h.Changes = changes.String
		item.PartNumber = partNumber.String
		h.ItemDisplay = item.String()
		history = append(history, h)
	}
	return history, rows.Err()
}
