package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"inventorydb/internal/db"
	"inventorydb/internal/model"
	"inventorydb/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token := createAndLogin(t, server, database, "admin", model.RoleSuperuser)
	return server, database, token
}

// createAndLogin provisions a user directly in the store and logs in through
// the API, returning the bearer token.
func createAndLogin(t *testing.T, server *httptest.Server, database *sql.DB, username, role string) string {
	t.Helper()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if _, err := store.CreateUser(context.Background(), database, username, string(hash), role); err != nil {
		t.Fatalf("creating %s: %v", username, err)
	}

	body, _ := json.Marshal(map[string]string{"username": username, "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}
	return token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	// Create item.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"manufacturer": "Test MFG1",
		"model":        "Test Model1",
		"part_or_unit": model.PartOrUnitUnit,
		"quantity":     1,
		"unit_price":   "100.00",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID      int64  `json:"id"`
		Display string `json:"display"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.Display != "Test MFG1, Test Model1" {
		t.Errorf("expected display 'Test MFG1, Test Model1', got %q", created.Display)
	}

	// History shows the creation, attributed to the logged-in user.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d/history", server.URL, created.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var history []model.ItemHistory
	json.NewDecoder(resp.Body).Decode(&history)
	resp.Body.Close()
	if len(history) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history))
	}
	if history[0].Action != model.ActionCreate {
		t.Errorf("expected action 'create', got %q", history[0].Action)
	}
	if history[0].Username != "admin" {
		t.Errorf("expected record attributed to 'admin', got %q", history[0].Username)
	}

	// Update the item.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/items/%d", server.URL, created.ID), token, map[string]any{
		"manufacturer": "Fluke",
		"model":        "Test Model1",
		"part_or_unit": model.PartOrUnitUnit,
		"quantity":     1,
		"unit_price":   "100.00",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d/history", server.URL, created.ID), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	history = nil
	json.NewDecoder(resp.Body).Decode(&history)
	resp.Body.Close()
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}
	if history[0].Changes != "manufacturer: 'Test MFG1' has been changed to 'Fluke'" {
		t.Errorf("unexpected changes: %q", history[0].Changes)
	}

	// Use the item.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/use", server.URL, created.ID), token, map[string]string{
		"work_order": "WO-1001",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var used model.UsedItem
	json.NewDecoder(resp.Body).Decode(&used)
	resp.Body.Close()
	if used.WorkOrder != "WO-1001" {
		t.Errorf("expected work order 'WO-1001', got %q", used.WorkOrder)
	}

	// A second use fails: the single unit is gone.
	req, _ = authRequest("POST", fmt.Sprintf("%s/api/items/%d/use", server.URL, created.ID), token, map[string]string{
		"work_order": "WO-1002",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for out-of-stock use, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsLowStockQuery(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"manufacturer": "Test MFG2",
		"model":        "Test Model2",
		"part_or_unit": model.PartOrUnitPart,
		"quantity":     5,
		"min_quantity": 10,
		"unit_price":   "0.50",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/items?low_stock=true", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var items []struct {
		LowStock bool `json:"low_stock"`
	}
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Fatalf("expected 1 low-stock item, got %d", len(items))
	}
	if !items[0].LowStock {
		t.Error("expected item to report low stock")
	}
}

func TestRoleEnforcement(t *testing.T) {
	server, database, adminToken := setupTestServer(t)

	viewerToken := createAndLogin(t, server, database, "viewer1", model.RoleViewer)
	techToken := createAndLogin(t, server, database, "tech1", model.RoleTechnician)

	// Viewer can read items.
	req, _ := authRequest("GET", server.URL+"/api/items", viewerToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected viewer to read items, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Viewer cannot create items.
	req, _ = authRequest("POST", server.URL+"/api/items", viewerToken, map[string]any{
		"manufacturer": "Test MFG1",
		"model":        "Test Model1",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer item creation, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Technician can create items.
	req, _ = authRequest("POST", server.URL+"/api/items", techToken, map[string]any{
		"manufacturer": "Test MFG1",
		"model":        "Test Model1",
		"quantity":     1,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for technician item creation, got %d", resp.StatusCode)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Technician cannot delete items.
	req, _ = authRequest("DELETE", fmt.Sprintf("%s/api/items/%d", server.URL, created.ID), techToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for technician item deletion, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Superuser can.
	req, _ = authRequest("DELETE", fmt.Sprintf("%s/api/items/%d", server.URL, created.ID), adminToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for superuser item deletion, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// User management is superuser-only.
	req, _ = authRequest("GET", server.URL+"/api/users", techToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for technician user listing, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemRequestsAPIFlow(t *testing.T) {
	server, database, adminToken := setupTestServer(t)

	viewerToken := createAndLogin(t, server, database, "requester", model.RoleViewer)

	// Any role can file a request.
	req, _ := authRequest("POST", server.URL+"/api/item_requests", viewerToken, map[string]any{
		"manufacturer":       "Test MFG3",
		"model_part_num":     "Test Model3 Test Part Number",
		"quantity_requested": 1,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.ItemRequest
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.Status != model.RequestStatusPending {
		t.Errorf("expected new request to be Pending, got %q", created.Status)
	}
	if created.RequestedByName != "requester" {
		t.Errorf("expected request attributed to 'requester', got %q", created.RequestedByName)
	}

	// Viewers cannot decide requests.
	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/item_requests/%d/status", server.URL, created.ID), viewerToken, map[string]string{
		"status": model.RequestStatusApproved,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer status change, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("PUT", fmt.Sprintf("%s/api/item_requests/%d/status", server.URL, created.ID), adminToken, map[string]string{
		"status": model.RequestStatusApproved,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated model.ItemRequest
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Status != model.RequestStatusApproved {
		t.Errorf("expected Approved, got %q", updated.Status)
	}
	if updated.StatusChangedByName != "admin" {
		t.Errorf("expected status change attributed to 'admin', got %q", updated.StatusChangedByName)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Revoked token no longer works.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestValidationErrorsSurfaceAs400(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"model": "Test Model1",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing manufacturer, got %d", resp.StatusCode)
	}
	var errResp map[string]string
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if !strings.Contains(errResp["error"], "manufacturer") {
		t.Errorf("expected error to name the field, got %q", errResp["error"])
	}
}
