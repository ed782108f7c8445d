package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"inventorydb/internal/model"
)

const requestColumns = `r.id, r.manufacturer, r.model_part_num, r.quantity_requested,
	        r.description, r.unit_price, r.requested_by, r.status, r.status_changed_by,
	        r.timestamp,
	        COALESCE(ru.username, '') AS requested_by_name,
	        COALESCE(su.username, '') AS status_changed_by_name`

// CreateItemRequest records a request for stock not yet in the inventory.
func CreateItemRequest(ctx context.Context, db *sql.DB, req *model.ItemRequest) (*model.ItemRequest, error) {
	if req.Manufacturer == "" {
		return nil, &ValidationError{Field: "manufacturer", Reason: "required"}
	}
	if req.ModelPartNum == "" {
		return nil, &ValidationError{Field: "model_part_num", Reason: "required"}
	}
	if req.QuantityRequested < 1 {
		return nil, &ValidationError{Field: "quantity_requested", Reason: "must be positive"}
	}
	if req.UnitPrice.IsZero() {
		req.UnitPrice = model.DefaultUnitPrice
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO item_requests (manufacturer, model_part_num, quantity_requested,
		                            description, unit_price, requested_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.Manufacturer, req.ModelPartNum, req.QuantityRequested,
		req.Description, req.UnitPrice.StringFixed(2), req.RequestedByID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item request id: %w", err)
	}

	return GetItemRequest(ctx, db, id)
}

// GetItemRequest returns an item request by ID.
func GetItemRequest(ctx context.Context, db *sql.DB, id int64) (*model.ItemRequest, error) {
	r := &model.ItemRequest{}
	var description, price sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+requestColumns+`
		 FROM item_requests r
		 LEFT JOIN users ru ON ru.id = r.requested_by
		 LEFT JOIN users su ON su.id = r.status_changed_by
		 WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.Manufacturer, &r.ModelPartNum, &r.QuantityRequested,
		&description, &price, &r.RequestedByID, &r.Status, &r.StatusChangedByID,
		&r.Timestamp, &r.RequestedByName, &r.StatusChangedByName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item request: %w", err)
	}
	r.Description = description.String
	r.UnitPrice, err = decimal.NewFromString(price.String)
	if err != nil {
		return nil, fmt.Errorf("parsing unit price: %w", err)
	}
	return r, nil
}

// ListItemRequests returns item requests, optionally filtered by status,
// newest first.
func ListItemRequests(ctx context.Context, db *sql.DB, status string) ([]model.ItemRequest, error) {
	query := `SELECT ` + requestColumns + `
	          FROM item_requests r
	          LEFT JOIN users ru ON ru.id = r.requested_by
	          LEFT JOIN users su ON su.id = r.status_changed_by`
	var args []any

	if status != "" {
		query += ` WHERE r.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY r.timestamp DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing item requests: %w", err)
	}
	defer rows.Close()

	var requests []model.ItemRequest
	for rows.Next() {
		var r model.ItemRequest
		var description, price sql.NullString
		if err := rows.Scan(&r.ID, &r.Manufacturer, &r.ModelPartNum, &r.QuantityRequested,
			&description, &price, &r.RequestedByID, &r.Status, &r.StatusChangedByID,
			&r.Timestamp, &r.RequestedByName, &r.StatusChangedByName); err != nil {
			return nil, fmt.Errorf("scanning item request: %w", err)
		}
		r.Description = description.String
		r.UnitPrice, err = decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("parsing unit price: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// UpdateItemRequestStatus changes a request's status, recording who changed
// it.
func UpdateItemRequestStatus(ctx context.Context, db *sql.DB, id int64, status string, userID *int64) (*model.ItemRequest, error) {
	switch status {
	case model.RequestStatusPending, model.RequestStatusApproved, model.RequestStatusRejected:
	default:
		return nil, &ValidationError{Field: "status", Reason: "must be Pending, Approved or Rejected"}
	}

	result, err := db.ExecContext(ctx,
		`UPDATE item_requests SET status = ?, status_changed_by = ? WHERE id = ?`,
		status, userID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item request status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("item request %d: %w", id, ErrNotFound)
	}

	return GetItemRequest(ctx, db, id)
}
