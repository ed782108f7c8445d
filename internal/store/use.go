package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"inventorydb/internal/audit"
	"inventorydb/internal/model"
)

// UseItem consumes one unit of an item against a work order. The quantity
// decrement, the used-item record, and the use audit entry commit as a
// single unit; on any failure nothing is visible to readers.
func UseItem(ctx context.Context, db *sql.DB, itemID int64, workOrder string, userID *int64) (*model.UsedItem, error) {
	if workOrder == "" {
		return nil, &ValidationError{Field: "work_order", Reason: "required"}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var quantity int
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, itemID).Scan(&quantity)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking quantity: %w", err)
	}

	if quantity < 1 {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrInsufficientQuantity)
	}

	// One unit per use action.
	_, err = tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity - 1, last_modified_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing quantity: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO used_items (item_id, work_order, used_by) VALUES (?, ?, ?)`,
		itemID, workOrder, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("recording used item: %w", err)
	}

	usedID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting used item id: %w", err)
	}

	// The use action bypasses generic diffing: its changes string carries
	// the quantity change plus a link resolving to the used-item record.
	used := &model.UsedItem{ID: usedID}
	changes := audit.FormatChange("quantity", strconv.Itoa(quantity), strconv.Itoa(quantity-1)) +
		", " + audit.Link(used.URL(), "Item used in work order "+workOrder)

	if err := insertHistory(ctx, tx, itemID, model.ActionUse, changes, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing use: %w", err)
	}

	return GetUsedItem(ctx, db, usedID)
}

const usedItemColumns = `ui.id, ui.item_id, ui.work_order, ui.datetime_used, ui.used_by,
	        i.manufacturer, i.model, i.part_or_unit, i.part_number,
	        COALESCE(u.username, '') AS used_by_name`

// GetUsedItem returns a consumption record by ID.
func GetUsedItem(ctx context.Context, db *sql.DB, id int64) (*model.UsedItem, error) {
	ui := &model.UsedItem{}
	var partNumber sql.NullString
	item := model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT `+usedItemColumns+`
		 FROM used_items ui
		 JOIN items i ON i.id = ui.item_id
		 LEFT JOIN users u ON u.id = ui.used_by
		 WHERE ui.id = ?`, id,
	).Scan(&ui.ID, &ui.ItemID, &ui.WorkOrder, &ui.DatetimeUsed, &ui.UsedByID,
		&item.Manufacturer, &item.Model, &item.PartOrUnit, &partNumber,
		&ui.UsedByName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting used item: %w", err)
	}
	item.PartNumber = partNumber.String
	ui.ItemDisplay = item.String()
	return ui, nil
}

// ListUsedItems returns consumption records, optionally filtered by item,
// newest first.
func ListUsedItems(ctx context.Context, db *sql.DB, itemID int64) ([]model.UsedItem, error) {
	query := `SELECT ` + usedItemColumns + `
	          FROM used_items ui
	          JOIN items i ON i.id = ui.item_id
	          LEFT JOIN users u ON u.id = ui.used_by`
	var args []any

	if itemID > 0 {
		query += ` WHERE ui.item_id = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY ui.datetime_used DESC, ui.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing used items: %w", err)
	}
	defer rows.Close()

	var used []model.UsedItem
	for rows.Next() {
		var ui model.UsedItem
		var partNumber sql.NullString
		item := model.Item{}
		if err := rows.Scan(&ui.ID, &ui.ItemID, &ui.WorkOrder, &ui.DatetimeUsed, &ui.UsedByID,
			&item.Manufacturer, &item.Model, &item.PartOrUnit, &partNumber,
			&ui.UsedByName); err != nil {
			return nil, fmt.Errorf("scanning used item: %w", err)
		}
		item.PartNumber = partNumber.String
		ui.ItemDisplay = item.String()
		used = append(used, ui)
	}
	return used, rows.Err()
}
