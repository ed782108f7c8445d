package api

import (
	"database/sql"
	"net/http"

	"inventorydb/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	purchaseHandler := &PurchaseOrdersHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireSuperuser := RequireRole(model.RoleSuperuser)
	requireTechnician := RequireRole(model.RoleTechnician)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (superuser only).
	mux.Handle("GET /api/users", authMW(requireSuperuser(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireSuperuser(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireSuperuser(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireSuperuser(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireSuperuser(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireSuperuser(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (technician+), delete (superuser).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireTechnician(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireTechnician(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireSuperuser(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("GET /api/items/{id}/history", authMW(http.HandlerFunc(itemsHandler.GetHistory)))
	mux.Handle("POST /api/items/{id}/use", authMW(requireTechnician(http.HandlerFunc(itemsHandler.Use))))

	// Used items (read only; created via the use action).
	mux.Handle("GET /api/used_items", authMW(http.HandlerFunc(itemsHandler.ListUsed)))
	mux.Handle("GET /api/used_items/{id}", authMW(http.HandlerFunc(itemsHandler.GetUsed)))

	// Item requests: read/create (all roles), status change (technician+).
	mux.Handle("GET /api/item_requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("POST /api/item_requests", authMW(http.HandlerFunc(requestsHandler.Create)))
	mux.Handle("GET /api/item_requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("PUT /api/item_requests/{id}/status", authMW(requireTechnician(http.HandlerFunc(requestsHandler.UpdateStatus))))

	// Purchase order lines (technician+ to modify).
	mux.Handle("GET /api/purchase_order_items", authMW(http.HandlerFunc(purchaseHandler.List)))
	mux.Handle("POST /api/purchase_order_items", authMW(requireTechnician(http.HandlerFunc(purchaseHandler.Create))))
	mux.Handle("GET /api/purchase_order_items/{id}", authMW(http.HandlerFunc(purchaseHandler.Get)))
	mux.Handle("DELETE /api/purchase_order_items/{id}", authMW(requireTechnician(http.HandlerFunc(purchaseHandler.Delete))))

	return mux
}
