package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"inventorydb/internal/model"
	"inventorydb/internal/store"
)

// RequestsHandler handles item request endpoints.
type RequestsHandler struct {
	DB *sql.DB
}

type createItemRequestRequest struct {
	Manufacturer      string          `json:"manufacturer"`
	ModelPartNum      string          `json:"model_part_num"`
	QuantityRequested int             `json:"quantity_requested"`
	Description       string          `json:"description"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/item_requests. ?status= filters by status.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListItemRequests(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		storeError(w, err, "failed to list item requests")
		return
	}
	if requests == nil {
		requests = []model.ItemRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Create handles POST /api/item_requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request := &model.ItemRequest{
		Manufacturer:      req.Manufacturer,
		ModelPartNum:      req.ModelPartNum,
		QuantityRequested: req.QuantityRequested,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		RequestedByID:     actingUserID(r.Context()),
	}

	created, err := store.CreateItemRequest(r.Context(), h.DB, request)
	if err != nil {
		storeError(w, err, "failed to create item request")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/item_requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item request id")
		return
	}

	request, err := store.GetItemRequest(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get item request")
		return
	}
	if request == nil {
		jsonError(w, http.StatusNotFound, "item request not found")
		return
	}

	jsonResponse(w, http.StatusOK, request)
}

// UpdateStatus handles PUT /api/item_requests/{id}/status.
func (h *RequestsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item request id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.UpdateItemRequestStatus(r.Context(), h.DB, id, req.Status, actingUserID(r.Context()))
	if err != nil {
		storeError(w, err, "failed to update item request status")
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}
