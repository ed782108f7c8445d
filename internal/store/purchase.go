package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"inventorydb/internal/model"
)

// CreatePurchaseOrderItem adds a line to the purchase order being drafted.
func CreatePurchaseOrderItem(ctx context.Context, db *sql.DB, po *model.PurchaseOrderItem) (*model.PurchaseOrderItem, error) {
	if po.Manufacturer == "" {
		return nil, &ValidationError{Field: "manufacturer", Reason: "required"}
	}
	if po.ModelPartNum == "" {
		return nil, &ValidationError{Field: "model_part_num", Reason: "required"}
	}
	if po.QuantityOrdered < 1 {
		return nil, &ValidationError{Field: "quantity_ordered", Reason: "must be positive"}
	}
	if po.UnitPrice.IsZero() {
		po.UnitPrice = model.DefaultUnitPrice
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO purchase_order_items (manufacturer, model_part_num, quantity_ordered,
		                                   description, serial_num, property_num, unit_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		po.Manufacturer, po.ModelPartNum, po.QuantityOrdered,
		po.Description, po.SerialNum, po.PropertyNum, po.UnitPrice.StringFixed(2),
	)
	if err != nil {
		return nil, fmt.Errorf("creating purchase order item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting purchase order item id: %w", err)
	}

	return GetPurchaseOrderItem(ctx, db, id)
}

// GetPurchaseOrderItem returns a purchase order line by ID.
func GetPurchaseOrderItem(ctx context.Context, db *sql.DB, id int64) (*model.PurchaseOrderItem, error) {
	po := &model.PurchaseOrderItem{}
	var description, serialNum, propertyNum, price sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, manufacturer, model_part_num, quantity_ordered, description,
		        serial_num, property_num, unit_price
		 FROM purchase_order_items WHERE id = ?`, id,
	).Scan(&po.ID, &po.Manufacturer, &po.ModelPartNum, &po.QuantityOrdered,
		&description, &serialNum, &propertyNum, &price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting purchase order item: %w", err)
	}
	po.Description = description.String
	po.SerialNum = serialNum.String
	po.PropertyNum = propertyNum.String
	po.UnitPrice, err = decimal.NewFromString(price.String)
	if err != nil {
		return nil, fmt.Errorf("parsing unit price: %w", err)
	}
	return po, nil
}

// ListPurchaseOrderItems returns all purchase order lines.
func ListPurchaseOrderItems(ctx context.Context, db *sql.DB) ([]model.PurchaseOrderItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, manufacturer, model_part_num, quantity_ordered, description,
		        serial_num, property_num, unit_price
		 FROM purchase_order_items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing purchase order items: %w", err)
	}
	defer rows.Close()

	var lines []model.PurchaseOrderItem
	for rows.Next() {
		var po model.PurchaseOrderItem
		var description, serialNum, propertyNum, price sql.NullString
		if err := rows.Scan(&po.ID, &po.Manufacturer, &po.ModelPartNum, &po.QuantityOrdered,
			&description, &serialNum, &propertyNum, &price); err != nil {
			return nil, fmt.Errorf("scanning purchase order item: %w", err)
		}
		po.Description = description.String
		po.SerialNum = serialNum.String
		po.PropertyNum = propertyNum.String
		po.UnitPrice, err = decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("parsing unit price: %w", err)
		}
		lines = append(lines, po)
	}
	return lines, rows.Err()
}

// DeletePurchaseOrderItem removes a purchase order line.
func DeletePurchaseOrderItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting purchase order item: %w", err)
	}
	return nil
}
