package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/cache"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/service"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopStockReportCache{}, 5*time.Second)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatalf("expected access_token in response, got %v", body)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleItems_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleItems_WithValidToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body domain.ItemListResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) == 0 {
		t.Fatalf("expected seeded items in response")
	}
}

func TestHandleItemDelete_ForbiddenForClerk(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "clerk", "clerk123")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/item-toner-hp26a", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for clerk delete, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestIssuingOverHTTPUpdatesStock(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "clerk", "clerk123")

	payload, _ := json.Marshal(domain.IssuingCreateRequest{
		ItemID:   "item-toner-hp26a",
		Location: "JCT",
		Quantity: 5,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-03-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/issuings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body domain.IssuingResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// Seeded HP 26A starts at 40 JCT.
	if body.Stock.StockJCT != 35 {
		t.Fatalf("expected JCT stock 35 after issuing, got %d", body.Stock.StockJCT)
	}
}

func TestIssuingOverHTTPInsufficientStockIs409(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "clerk", "clerk123")

	payload, _ := json.Marshal(domain.IssuingCreateRequest{
		ItemID:   "item-toner-hp26a",
		Location: "UCT",
		Quantity: 999,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-03-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/issuings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for oversized issue, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestStockStatusReportFiltersByCategory(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/stock-status?category=ribbon", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var report domain.StockStatusReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Rows) == 0 {
		t.Fatal("expected seeded ribbon rows in report")
	}
	for _, row := range report.Rows {
		if row.Category != domain.CategoryRibbon {
			t.Fatalf("expected only ribbon rows, got category %q", row.Category)
		}
		if row.TotalStock != row.StockJCT+row.StockUCT {
			t.Fatalf("total stock %d does not match %d+%d", row.TotalStock, row.StockJCT, row.StockUCT)
		}
	}
}

func TestAuditLogsForbiddenForClerk(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, api, "clerk", "clerk123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for clerk audit access, got %d", rec.Code)
	}
}

func TestCreateClerkStoreFailureIsServerError(t *testing.T) {
	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopStockReportCache{}, 5*time.Second)
	users := &failingUserStore{
		userStoreStub: userStoreStub{users: map[string]domain.UserAccount{
			"admin": {Username: "admin", Password: "admin123", Role: "admin", Active: true},
		}},
		createErr: errors.New("user store unavailable"),
	}
	auth := NewAuthManager("test-secret-key", time.Hour, users)
	api := New(svc, auth, "*")
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	payload, _ := json.Marshal(domain.ClerkCreateRequest{Username: "newclerk", Password: "pass1234"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/clerks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for store failure, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("internal server error")) {
		t.Fatalf("expected generic message, got %q", rec.Body.String())
	}

	// Validation problems still read as client errors.
	payload, _ = json.Marshal(domain.ClerkCreateRequest{Username: "ab", Password: "pass1234"})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/clerks", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short username, got %d", rec.Code)
	}
}
