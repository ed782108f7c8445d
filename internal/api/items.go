package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"inventorydb/internal/model"
	"inventorydb/internal/store"
)

// ItemsHandler handles item, item-history, and used-item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemRequest struct {
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model"`
	PartOrUnit   string          `json:"part_or_unit"`
	PartNumber   string          `json:"part_number"`
	Description  string          `json:"description"`
	Location     string          `json:"location"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type useRequest struct {
	WorkOrder string `json:"work_order"`
}

// itemResponse augments the stored fields with the derived ones that audit
// and stock-alert views consume.
type itemResponse struct {
	*model.Item
	Display      string `json:"display"`
	ModelPartNum string `json:"model_part_num"`
	LowStock     bool   `json:"low_stock"`
	URL          string `json:"url"`
}

func toItemResponse(item *model.Item) itemResponse {
	return itemResponse{
		Item:         item,
		Display:      item.String(),
		ModelPartNum: item.ModelPartNum(),
		LowStock:     item.LowStock(),
		URL:          item.URL(),
	}
}

// List handles GET /api/items. ?low_stock=true narrows to items below their
// minimum quantity.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	lowStockOnly := r.URL.Query().Get("low_stock") == "true"
	items, err := store.ListItems(r.Context(), h.DB, lowStockOnly)
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := &model.Item{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		PartOrUnit:   req.PartOrUnit,
		PartNumber:   req.PartNumber,
		Description:  req.Description,
		Location:     req.Location,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		UnitPrice:    req.UnitPrice,
	}

	created, err := store.CreateItem(r.Context(), h.DB, item, actingUserID(r.Context()))
	if err != nil {
		storeError(w, err, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, toItemResponse(created))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, toItemResponse(item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := &model.Item{
		ID:           id,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		PartOrUnit:   req.PartOrUnit,
		PartNumber:   req.PartNumber,
		Description:  req.Description,
		Location:     req.Location,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		UnitPrice:    req.UnitPrice,
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, item, actingUserID(r.Context()))
	if err != nil {
		storeError(w, err, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, toItemResponse(updated))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// GetHistory handles GET /api/items/{id}/history.
func (h *ItemsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	history, err := store.ListItemHistory(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get item history")
		return
	}
	if history == nil {
		history = []model.ItemHistory{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// Use handles POST /api/items/{id}/use.
func (h *ItemsHandler) Use(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req useRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	used, err := store.UseItem(r.Context(), h.DB, id, req.WorkOrder, actingUserID(r.Context()))
	if err != nil {
		storeError(w, err, "failed to use item")
		return
	}

	jsonResponse(w, http.StatusCreated, used)
}

// ListUsed handles GET /api/used_items. ?item_id=N filters by item.
func (h *ItemsHandler) ListUsed(w http.ResponseWriter, r *http.Request) {
	var itemID int64
	if v := r.URL.Query().Get("item_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		itemID = parsed
	}

	used, err := store.ListUsedItems(r.Context(), h.DB, itemID)
	if err != nil {
		storeError(w, err, "failed to list used items")
		return
	}
	if used == nil {
		used = []model.UsedItem{}
	}
	jsonResponse(w, http.StatusOK, used)
}

// GetUsed handles GET /api/used_items/{id}.
func (h *ItemsHandler) GetUsed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid used item id")
		return
	}

	used, err := store.GetUsedItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get used item")
		return
	}
	if used == nil {
		jsonError(w, http.StatusNotFound, "used item not found")
		return
	}

	jsonResponse(w, http.StatusOK, used)
}
