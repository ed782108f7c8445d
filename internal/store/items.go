package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"inventorydb/internal/audit"
	"inventorydb/internal/model"
)

const itemColumns = `i.id, i.manufacturer, i.model, i.part_or_unit, i.part_number,
	        i.description, i.location, i.quantity, i.min_quantity, i.unit_price,
	        i.last_modified_by, i.created_at, i.updated_at,
	        COALESCE(u.username, '') AS last_modified_by_name`

// rowQuerier lets item lookups run against either the pool or an open
// transaction.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveItem routes a save to creation or update depending on whether the
// item already has a persisted counterpart. Every path appends the matching
// audit record in the same transaction as the entity write.
func SaveItem(ctx context.Context, db *sql.DB, item *model.Item, userID *int64) (*model.Item, error) {
	if item.ID == 0 {
		return CreateItem(ctx, db, item, userID)
	}
	return UpdateItem(ctx, db, item, userID)
}

// CreateItem creates a new item and its create history record in a single
// transaction.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item, userID *int64) (*model.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.PartOrUnit == "" {
		item.PartOrUnit = model.PartOrUnitUnit
	}
	if item.UnitPrice.IsZero() {
		item.UnitPrice = model.DefaultUnitPrice
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (manufacturer, model, part_or_unit, part_number, description,
		                    location, quantity, min_quantity, unit_price, last_modified_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Manufacturer, item.Model, item.PartOrUnit, item.PartNumber, item.Description,
		item.Location, item.Quantity, item.MinQuantity, item.UnitPrice.StringFixed(2), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	// Creation is its own action, not a diff against empty state; the
	// changes field stays blank.
	if err := insertHistory(ctx, tx, id, model.ActionCreate, "", userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item creation: %w", err)
	}

	return GetItem(ctx, db, id)
}

// UpdateItem persists new field values for an item and appends an update
// record describing exactly what changed. A save that changes no tracked
// field persists but leaves no history behind.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item, userID *int64) (*model.Item, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getItem(ctx, tx, item.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("item %d: %w", item.ID, ErrNotFound)
	}

	changes := audit.Diff(current.AuditSnapshot(), item.AuditSnapshot())

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET manufacturer = ?, model = ?, part_or_unit = ?, part_number = ?,
		        description = ?, location = ?, quantity = ?, min_quantity = ?, unit_price = ?,
		        last_modified_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Manufacturer, item.Model, item.PartOrUnit, item.PartNumber, item.Description,
		item.Location, item.Quantity, item.MinQuantity, item.UnitPrice.StringFixed(2),
		userID, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	// No net change means no audit entry, not an empty one.
	if changes != "" {
		if err := insertHistory(ctx, tx, item.ID, model.ActionUpdate, changes, userID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, item.ID)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	return getItem(ctx, db, id)
}

func getItem(ctx context.Context, q rowQuerier, id int64) (*model.Item, error) {
	item := &model.Item{}
	var partNumber, description, location, price sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i
		 LEFT JOIN users u ON u.id = i.last_modified_by
		 WHERE i.id = ?`, id,
	).Scan(&item.ID, &item.Manufacturer, &item.Model, &item.PartOrUnit, &partNumber,
		&description, &location, &item.Quantity, &item.MinQuantity, &price,
		&item.LastModifiedBy, &item.CreatedAt, &item.UpdatedAt, &item.LastModifiedByName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.PartNumber = partNumber.String
	item.Description = description.String
	item.Location = location.String
	item.UnitPrice, err = decimal.NewFromString(price.String)
	if err != nil {
		return nil, fmt.Errorf("parsing unit price: %w", err)
	}
	return item, nil
}

// ListItems returns all items, optionally only those below their minimum
// quantity (for stock alerts).
func ListItems(ctx context.Context, db *sql.DB, lowStockOnly bool) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + `
	          FROM items i
	          LEFT JOIN users u ON u.id = i.last_modified_by`
	if lowStockOnly {
		query += ` WHERE i.quantity < i.min_quantity`
	}
	query += ` ORDER BY i.manufacturer, i.model`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var partNumber, description, location, price sql.NullString
		if err := rows.Scan(&item.ID, &item.Manufacturer, &item.Model, &item.PartOrUnit, &partNumber,
			&description, &location, &item.Quantity, &item.MinQuantity, &price,
			&item.LastModifiedBy, &item.CreatedAt, &item.UpdatedAt, &item.LastModifiedByName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.PartNumber = partNumber.String
		item.Description = description.String
		item.Location = location.String
		item.UnitPrice, err = decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("parsing unit price: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItem removes an item. History and used-item records are bound to
// the item's lifetime and cascade with it.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

func validateItem(item *model.Item) error {
	if item.Manufacturer == "" {
		return &ValidationError{Field: "manufacturer", Reason: "required"}
	}
	if item.Model == "" {
		return &ValidationError{Field: "model", Reason: "required"}
	}
	if item.PartOrUnit != "" && item.PartOrUnit != model.PartOrUnitUnit && item.PartOrUnit != model.PartOrUnitPart {
		return &ValidationError{Field: "part_or_unit", Reason: "must be unit or part"}
	}
	if item.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if item.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	return nil
}
