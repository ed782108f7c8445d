package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"inventorydb/internal/model"
	"inventorydb/internal/store"
)

// PurchaseOrdersHandler handles purchase-order-line endpoints.
type PurchaseOrdersHandler struct {
	DB *sql.DB
}

type createPurchaseOrderItemRequest struct {
	Manufacturer    string          `json:"manufacturer"`
	ModelPartNum    string          `json:"model_part_num"`
	QuantityOrdered int             `json:"quantity_ordered"`
	Description     string          `json:"description"`
	SerialNum       string          `json:"serial_num"`
	PropertyNum     string          `json:"property_num"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// List handles GET /api/purchase_order_items.
func (h *PurchaseOrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := store.ListPurchaseOrderItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list purchase order items")
		return
	}
	if lines == nil {
		lines = []model.PurchaseOrderItem{}
	}
	jsonResponse(w, http.StatusOK, lines)
}

// Create handles POST /api/purchase_order_items.
func (h *PurchaseOrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseOrderItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line := &model.PurchaseOrderItem{
		Manufacturer:    req.Manufacturer,
		ModelPartNum:    req.ModelPartNum,
		QuantityOrdered: req.QuantityOrdered,
		Description:     req.Description,
		SerialNum:       req.SerialNum,
		PropertyNum:     req.PropertyNum,
		UnitPrice:       req.UnitPrice,
	}

	created, err := store.CreatePurchaseOrderItem(r.Context(), h.DB, line)
	if err != nil {
		storeError(w, err, "failed to create purchase order item")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/purchase_order_items/{id}.
func (h *PurchaseOrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid purchase order item id")
		return
	}

	line, err := store.GetPurchaseOrderItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get purchase order item")
		return
	}
	if line == nil {
		jsonError(w, http.StatusNotFound, "purchase order item not found")
		return
	}

	jsonResponse(w, http.StatusOK, line)
}

// Delete handles DELETE /api/purchase_order_items/{id}.
func (h *PurchaseOrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid purchase order item id")
		return
	}

	if err := store.DeletePurchaseOrderItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete purchase order item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "purchase order item deleted"})
}
