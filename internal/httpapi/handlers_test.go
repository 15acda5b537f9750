package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/service"
	"shilohridge/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, nil, 0)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*", t.TempDir())
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

func TestHandleProducts_PublicListing(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public product list, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Products) == 0 {
		t.Fatalf("expected seeded products in public listing")
	}
	for _, p := range body.Products {
		if !p.Available {
			t.Fatalf("public listing must not include unavailable product %s", p.ID)
		}
	}
}

func TestHandleProducts_CreateRequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]any{
		"name":           "Whole Chicken",
		"category":       "poultry",
		"price_per_unit": "18.00",
		"unit":           "each",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", fetchCSRFToken(t, api))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous product create, got %d", rec.Code)
	}
}

func TestHandleOrders_PublicSubmit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]any{
		"customer_name":  "Dana Whitfield",
		"customer_email": "dana@example.com",
		"customer_phone": "555-0101",
		"items": []map[string]any{
			{"product_id": "prod-eggs", "quantity": 3},
		},
		"unknown_field": "from an older frontend build",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for public order submit, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Order domain.Order `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Order.Status != domain.OrderStatusPending {
		t.Fatalf("expected new order to be pending, got %s", body.Order.Status)
	}
	if body.Order.TotalAmount.String() != "24" && body.Order.TotalAmount.String() != "24.00" {
		t.Fatalf("expected total 24.00 for 3 dozen eggs, got %s", body.Order.TotalAmount)
	}
}

func TestHandleOrders_ListRequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous order list, got %d", rec.Code)
	}
}

func TestHandleSales_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleSales_WithValidToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := body["sales"]; !ok {
		t.Fatalf("expected sales key in response, got %v", body)
	}
}

func TestHandleContact_PublicSubmit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"name":    "Casey Brook",
		"email":   "casey@example.com",
		"message": "Do you ship half hogs out of state?",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for public contact submit, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Contact domain.ContactForm `json:"contact"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Contact.Subject != "General inquiry" {
		t.Fatalf("expected default subject, got %q", body.Contact.Subject)
	}
}

func TestHandleLivestock_PublicOnlyShowsAvailable(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/livestock", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Livestock []domain.Livestock `json:"livestock"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	for _, animal := range body.Livestock {
		if !animal.Available {
			t.Fatalf("public livestock listing must not include unavailable animal %s", animal.ID)
		}
	}
}

func TestHandleTicker(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ticker", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Quotes []domain.TickerQuote `json:"quotes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Quotes) == 0 {
		t.Fatalf("expected ticker quotes")
	}
}

func TestExpenseCreateAndCSVExport(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)
	csrf := fetchCSRFToken(t, api)

	payload, _ := json.Marshal(map[string]any{
		"category":       "feed_supplements",
		"description":    "Winter hay delivery",
		"amount":         "640.00",
		"date":           "2026-01-12",
		"payment_method": "check",
		"payment_status": "paid",
		"tax_deductible": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	exportReq := httptest.NewRequest(http.MethodGet, "/api/v1/exports/accounting/csv", nil)
	exportReq.Header.Set("Authorization", "Bearer "+token)
	exportRec := httptest.NewRecorder()
	handler.ServeHTTP(exportRec, exportReq)

	if exportRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for CSV export, got %d", exportRec.Code)
	}
	if ct := exportRec.Header().Get("Content-Type"); !bytes.Contains([]byte(ct), []byte("text/csv")) {
		t.Fatalf("expected text/csv content type, got %q", ct)
	}
	if !bytes.Contains(exportRec.Body.Bytes(), []byte("Winter hay delivery")) {
		t.Fatalf("expected exported CSV to contain the new expense")
	}
}

func TestSalesPrintExport(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/sales/print", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html report, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Sales Report") || !strings.Contains(body, "Total sales:") {
		t.Fatalf("report missing heading or summary stats: %s", body)
	}

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/exports/sales/print", nil)
	anonRec := httptest.NewRecorder()
	handler.ServeHTTP(anonRec, anon)
	if anonRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", anonRec.Code)
	}
}

func TestLivestockCertificate(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/livestock/lv-ewe-101/certificate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "KHSI Registration Certificate") {
		t.Fatalf("certificate heading missing: %s", body)
	}
	if !strings.Contains(body, "Shiloh Belle") || !strings.Contains(body, "KHSI-240101") {
		t.Fatalf("certificate missing animal details: %s", body)
	}

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/livestock/lv-ewe-101/certificate", nil)
	anonRec := httptest.NewRecorder()
	handler.ServeHTTP(anonRec, anon)
	if anonRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", anonRec.Code)
	}
}

func TestLivestockTransferPaperwork(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAsAdmin(t, api)
	csrf := fetchCSRFToken(t, api)

	update, _ := json.Marshal(map[string]any{
		"name":          "Shiloh Belle",
		"type":          "sheep",
		"transfer_info": map[string]string{"name": "Dana Whitfield", "address": "44 Hollow Rd"},
	})
	putReq := httptest.NewRequest(http.MethodPut, "/api/v1/livestock/lv-ewe-101", bytes.NewReader(update))
	putReq.Header.Set("Content-Type", "application/json")
	putReq.Header.Set("Authorization", "Bearer "+token)
	putReq.Header.Set("X-CSRF-Token", csrf)
	putRec := httptest.NewRecorder()
	handler.ServeHTTP(putRec, putReq)
	if putRec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating transfer info, got %d (body: %s)", putRec.Code, putRec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/livestock/lv-ewe-101/transfer-paperwork", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "KHSI Transfer Paperwork") {
		t.Fatalf("transfer heading missing: %s", body)
	}
	if !strings.Contains(body, "Dana Whitfield") || !strings.Contains(body, "44 Hollow Rd") {
		t.Fatalf("transfer paperwork missing buyer details: %s", body)
	}
}
