package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"inventorydb/internal/db"
	"inventorydb/internal/model"
)

func TestCreateItemAppendsCreateRecord(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("100.00"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	history, err := ListItemHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ListItemHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected exactly 1 history record after creation, got %d", len(history))
	}
	if history[0].Action != model.ActionCreate {
		t.Errorf("expected action 'create', got %q", history[0].Action)
	}
	if history[0].Changes != "" {
		t.Errorf("expected blank changes on creation, got %q", history[0].Changes)
	}
	if history[0].ItemDisplay != "Test MFG1, Test Model1" {
		t.Errorf("expected item display 'Test MFG1, Test Model1', got %q", history[0].ItemDisplay)
	}
}

func TestCreateItemDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG3",
		Model:        "Test Model3",
		PartOrUnit:   model.PartOrUnitPart,
		PartNumber:   "Test Part Number",
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if item.Quantity != 0 {
		t.Errorf("expected default quantity 0, got %d", item.Quantity)
	}
	if item.MinQuantity != 0 {
		t.Errorf("expected default min quantity 0, got %d", item.MinQuantity)
	}
	if got := item.UnitPrice.StringFixed(2); got != "0.01" {
		t.Errorf("expected default unit price 0.01, got %s", got)
	}
	if item.LastModifiedBy != nil {
		t.Errorf("expected no last modifying user, got %v", *item.LastModifiedBy)
	}
	if got := item.String(); got != "Test MFG3, Test Model3 Test Part Number" {
		t.Errorf("expected 'Test MFG3, Test Model3 Test Part Number', got %q", got)
	}
	if got := item.ModelPartNum(); got != "Test Model3 Test Part Number" {
		t.Errorf("expected 'Test Model3 Test Part Number', got %q", got)
	}
}

func TestUpdateItemRecordsDiff(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "testuser", "hash", model.RoleSuperuser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("100.00"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	item.Manufacturer = "Fluke"
	if _, err := UpdateItem(ctx, database, item, &user.ID); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	history, err := ListItemHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ListItemHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}

	// Newest first.
	latest := history[0]
	if latest.Action != model.ActionUpdate {
		t.Errorf("expected action 'update', got %q", latest.Action)
	}
	if latest.Changes != "manufacturer: 'Test MFG1' has been changed to 'Fluke'" {
		t.Errorf("unexpected changes: %q", latest.Changes)
	}
	if latest.UserID == nil || *latest.UserID != user.ID {
		t.Errorf("expected record attributed to user %d, got %v", user.ID, latest.UserID)
	}
	if latest.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", latest.Username)
	}
}

func TestUpdateItemNoChangesNoRecord(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("100.00"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Save without changing anything.
	if _, err := UpdateItem(ctx, database, item, nil); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	history, _ := ListItemHistory(ctx, database, item.ID)
	if len(history) != 1 {
		t.Errorf("expected no new history record for a no-op save, got %d records", len(history))
	}
}

func TestUpdateItemMultipleFieldsOneRecord(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("100.00"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	item.Manufacturer = "Fluke"
	item.Quantity = 4
	item.UnitPrice = decimal.RequireFromString("95.50")
	if _, err := UpdateItem(ctx, database, item, nil); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	history, _ := ListItemHistory(ctx, database, item.ID)
	if len(history) != 2 {
		t.Fatalf("expected one combined update record, got %d total records", len(history))
	}

	want := "manufacturer: 'Test MFG1' has been changed to 'Fluke', " +
		"quantity: '1' has been changed to '4', " +
		"unit_price: '100.00' has been changed to '95.50'"
	if history[0].Changes != want {
		t.Errorf("expected %q, got %q", want, history[0].Changes)
	}
}

func TestSaveItemRoutesByID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := SaveItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
	}, nil)
	if err != nil {
		t.Fatalf("SaveItem (create): %v", err)
	}

	item.Location = "Shelf 3"
	if _, err := SaveItem(ctx, database, item, nil); err != nil {
		t.Fatalf("SaveItem (update): %v", err)
	}

	history, _ := ListItemHistory(ctx, database, item.ID)
	if len(history) != 2 {
		t.Fatalf("expected create + update records, got %d", len(history))
	}
	if history[1].Action != model.ActionCreate || history[0].Action != model.ActionUpdate {
		t.Errorf("expected [update, create] newest first, got [%s, %s]", history[0].Action, history[1].Action)
	}
	if history[0].Changes != "location: '' has been changed to 'Shelf 3'" {
		t.Errorf("unexpected changes: %q", history[0].Changes)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := UpdateItem(ctx, database, &model.Item{
		ID:           42,
		Manufacturer: "Test MFG",
		Model:        "Test Model",
	}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateItemValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateItem(ctx, database, &model.Item{Model: "Test Model"}, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing manufacturer, got %v", err)
	}
	if ve.Field != "manufacturer" {
		t.Errorf("expected error on 'manufacturer', got %q", ve.Field)
	}

	// Nothing was written.
	items, _ := ListItems(ctx, database, false)
	if len(items) != 0 {
		t.Errorf("expected no items after rejected creation, got %d", len(items))
	}
}

func TestListItemsLowStockFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
	}, nil)
	low, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG2",
		Model:        "Test Model2",
		PartOrUnit:   model.PartOrUnitPart,
		Quantity:     5,
		MinQuantity:  10,
		UnitPrice:    decimal.RequireFromString("0.50"),
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	all, _ := ListItems(ctx, database, false)
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	lowStock, _ := ListItems(ctx, database, true)
	if len(lowStock) != 1 {
		t.Fatalf("expected 1 low-stock item, got %d", len(lowStock))
	}
	if lowStock[0].ID != low.ID {
		t.Errorf("expected low-stock item %d, got %d", low.ID, lowStock[0].ID)
	}
	if !lowStock[0].LowStock() {
		t.Error("expected listed item to report low stock")
	}
}

func TestDeleteItemRemovesHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, &model.Item{
		Manufacturer: "Test MFG1",
		Model:        "Test Model1",
		PartOrUnit:   model.PartOrUnitUnit,
		Quantity:     1,
	}, nil)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be gone after delete")
	}

	history, err := ListItemHistory(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("ListItemHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected history to cascade with the item, got %d records", len(history))
	}
}

func TestListItemHistoryMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Reads of nonexistent records return empty results, not errors.
	history, err := ListItemHistory(ctx, database, 999)
	if err != nil {
		t.Fatalf("ListItemHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d records", len(history))
	}
}
