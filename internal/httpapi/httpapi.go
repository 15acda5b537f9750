package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"shilohridge/backend/internal/domain"
	"shilohridge/backend/internal/service"
	"shilohridge/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	documentDir   string
	loginLimiter  *attemptLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, documentDir string) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		documentDir:   documentDir,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

// generateCSRFToken returns a token valid for the current hour bucket.
func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)
	mux.HandleFunc("/api/v1/auth/change-password", a.requireAuth(a.handleChangePassword, "admin"))

	// Public storefront surface. Mutating methods on these paths are gated
	// inside the handlers.
	mux.HandleFunc("/api/v1/products", a.handleProducts)
	mux.HandleFunc("/api/v1/products/", a.handleProductByID)
	mux.HandleFunc("/api/v1/orders", a.handleOrders)
	mux.HandleFunc("/api/v1/orders/", a.requireAuth(a.handleOrderByID, "admin"))
	mux.HandleFunc("/api/v1/livestock", a.handleLivestock)
	mux.HandleFunc("/api/v1/livestock/", a.handleLivestockByID)
	mux.HandleFunc("/api/v1/about", a.handleAbout)
	mux.HandleFunc("/api/v1/settings", a.handleSettings)
	mux.HandleFunc("/api/v1/blog", a.handleBlog)
	mux.HandleFunc("/api/v1/blog/", a.handleBlogByID)
	mux.HandleFunc("/api/v1/contact", a.handleContact)
	mux.HandleFunc("/api/v1/contact/", a.requireAuth(a.handleContactActions, "admin"))
	mux.HandleFunc("/api/v1/ticker", a.handleTicker)
	mux.HandleFunc("/api/v1/documents", a.handleDocuments)
	mux.HandleFunc("/api/v1/documents/", a.handleDocumentByID)

	mux.HandleFunc("/api/v1/customers", a.requireAuth(a.handleCustomers, "admin"))
	mux.HandleFunc("/api/v1/customers/", a.requireAuth(a.handleCustomerByID, "admin"))
	mux.HandleFunc("/api/v1/sales", a.requireAuth(a.handleSales, "admin"))
	mux.HandleFunc("/api/v1/sales/stats", a.requireAuth(a.handleSaleStats, "admin"))
	mux.HandleFunc("/api/v1/sales/", a.requireAuth(a.handleSaleByID, "admin"))
	mux.HandleFunc("/api/v1/inventory", a.requireAuth(a.handleInventory, "admin"))
	mux.HandleFunc("/api/v1/inventory/summary", a.requireAuth(a.handleInventorySummary, "admin"))
	mux.HandleFunc("/api/v1/inventory/", a.requireAuth(a.handleInventoryByID, "admin"))
	mux.HandleFunc("/api/v1/expenses", a.requireAuth(a.handleExpenses, "admin"))
	mux.HandleFunc("/api/v1/expenses/categories", a.requireAuth(a.handleExpenseCategories, "admin"))
	mux.HandleFunc("/api/v1/expenses/", a.requireAuth(a.handleExpenseByID, "admin"))
	mux.HandleFunc("/api/v1/revenue", a.requireAuth(a.handleRevenue, "admin"))
	mux.HandleFunc("/api/v1/revenue/categories", a.requireAuth(a.handleRevenueCategories, "admin"))
	mux.HandleFunc("/api/v1/revenue/", a.requireAuth(a.handleRevenueByID, "admin"))
	mux.HandleFunc("/api/v1/accounting/summary", a.requireAuth(a.handleFinancialSummary, "admin"))
	mux.HandleFunc("/api/v1/accounting/monthly", a.requireAuth(a.handleMonthlyReport, "admin"))
	mux.HandleFunc("/api/v1/nft-records", a.requireAuth(a.handleNFTRecords, "admin"))
	mux.HandleFunc("/api/v1/nft-records/", a.requireAuth(a.handleNFTRecordByID, "admin"))
	mux.HandleFunc("/api/v1/audit-logs", a.requireAuth(a.handleAuditLogs, "admin"))

	mux.HandleFunc("/api/v1/exports/inventory/csv", a.requireAuth(a.handleInventoryCSV, "admin"))
	mux.HandleFunc("/api/v1/exports/inventory/print", a.requireAuth(a.handleInventoryPrint, "admin"))
	mux.HandleFunc("/api/v1/exports/accounting/csv", a.requireAuth(a.handleAccountingCSV, "admin"))
	mux.HandleFunc("/api/v1/exports/accounting/print", a.requireAuth(a.handleAccountingPrint, "admin"))
	mux.HandleFunc("/api/v1/exports/sales/csv", a.requireAuth(a.handleSalesCSV, "admin"))
	mux.HandleFunc("/api/v1/exports/sales/print", a.requireAuth(a.handleSalesPrint, "admin"))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := a.bearerActor(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func (a *API) bearerActor(r *http.Request) (domain.Actor, error) {
	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
		return domain.Actor{}, errors.New("missing bearer token")
	}
	token := strings.TrimSpace(authorization[len("Bearer "):])
	return a.auth.ParseToken(token)
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour bucket.
// Clients must include this token in the X-CSRF-Token header for admin mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	actor, _ := service.ActorFromContext(r.Context())
	if err := a.auth.ChangePassword(actor.Username, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// csrfExemptPaths lists paths that are exempt from CSRF validation. The public
// storefront endpoints are excluded because visitors post without a prior
// token fetch.
var csrfExemptPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/orders",
	"/api/v1/contact",
}

// checkCSRF enforces CSRF token validation for state-changing methods (POST/PUT/PATCH).
// Returns false and writes an error response if validation fails.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeError(w, http.StatusForbidden, errors.New("missing or invalid CSRF token"))
		return false
	}
	return true
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if actor, err := a.bearerActor(r); err == nil && actor.Role == "admin" {
			products, err := a.service.ListProducts(r.Context(), true)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"products": products})
			return
		}
		products, err := a.service.PublicProducts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.ProductCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			product, err := a.service.CreateProduct(r.Context(), req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"product": product})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/products/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		product, err := a.service.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": product})
	case http.MethodPut, http.MethodPatch:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.ProductUpdateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			product, err := a.service.UpdateProduct(r.Context(), id, req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"product": product})
		}, "admin")(w, r)
	case http.MethodDelete:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			if err := a.service.DeleteProduct(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req domain.OrderCreateRequest
		if err := decodeJSONLenient(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.SubmitOrder(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"order": order})
	case http.MethodGet:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			status := strings.TrimSpace(r.URL.Query().Get("status"))
			limit := parsePositiveLimit(r.URL.Query().Get("limit"), 200, 1000)
			orders, err := a.service.ListOrders(r.Context(), status, limit)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/orders/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("order id required"))
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		order, err := a.service.GetOrder(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	case r.Method == http.MethodPatch && action == "status":
		var req struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLivestock(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if actor, err := a.bearerActor(r); err == nil && actor.Role == "admin" {
			animals, err := a.service.ListLivestock(r.Context(), false)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"livestock": animals})
			return
		}
		animals, err := a.service.PublicLivestock(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"livestock": animals})
	case http.MethodPost:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.LivestockCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			animal, err := a.service.CreateLivestock(r.Context(), req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"livestock": animal})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleLivestockByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/livestock/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("livestock id required"))
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		animal, err := a.service.GetLivestock(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"livestock": animal})
	case r.Method == http.MethodGet && action == "compliance":
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			animal, err := a.service.GetLivestock(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"livestock_id": animal.ID,
				"compliance":   service.EvaluateRegistryCompliance(*animal),
			})
		}, "admin")(w, r)
	case r.Method == http.MethodGet && action == "certificate":
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			a.handleLivestockCertificate(w, r, id)
		}, "admin")(w, r)
	case r.Method == http.MethodGet && action == "transfer-paperwork":
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			a.handleTransferPaperwork(w, r, id)
		}, "admin")(w, r)
	case r.Method == http.MethodPut || r.Method == http.MethodPatch:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.LivestockCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			animal, err := a.service.UpdateLivestock(r.Context(), id, req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"livestock": animal})
		}, "admin")(w, r)
	case r.Method == http.MethodDelete:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			if err := a.service.DeleteLivestock(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleAbout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		content, err := a.service.GetAbout(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"about": content})
	case http.MethodPut:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.AboutContent
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			content, err := a.service.UpdateAbout(r.Context(), req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"about": content})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := a.service.GetSettings(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
	case http.MethodPut:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.SiteSettings
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			settings, err := a.service.UpdateSettings(r.Context(), req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleBlog(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		publishedOnly := true
		if actor, err := a.bearerActor(r); err == nil && actor.Role == "admin" {
			publishedOnly = false
		}
		posts, err := a.service.ListBlogPosts(r.Context(), publishedOnly)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
	case http.MethodPost:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.BlogPostCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			post, err := a.service.CreateBlogPost(r.Context(), req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"post": post})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleBlogByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/blog/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("blog post id required"))
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.BlogPostCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			post, err := a.service.UpdateBlogPost(r.Context(), id, req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"post": post})
		}, "admin")(w, r)
	case http.MethodDelete:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			if err := a.service.DeleteBlogPost(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleContact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req domain.ContactFormRequest
		if err := decodeJSONLenient(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		form, err := a.service.SubmitContactForm(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"contact": form})
	case http.MethodGet:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			unreadOnly := r.URL.Query().Get("unread") == "true"
			forms, err := a.service.ListContactForms(r.Context(), unreadOnly)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"contacts": forms})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleContactActions(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/contact/")
	if id == "" || action != "read" || r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, errors.New("invalid contact action path"))
		return
	}

	form, err := a.service.MarkContactFormRead(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": form})
}

func (a *API) handleTicker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": a.service.MarketTicker()})
}

func (a *API) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		publicOnly := true
		if actor, err := a.bearerActor(r); err == nil && actor.Role == "admin" {
			publicOnly = false
		}
		docs, err := a.service.ListDocuments(r.Context(), category, publicOnly)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
	case http.MethodPost:
		a.requireAuth(a.handleDocumentUpload, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

// handleDocumentUpload stores the uploaded file under the document directory
// and records its metadata. Multipart form field names: file, title,
// description, category, is_public.
func (a *API) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, errors.New("invalid filename"))
		return
	}

	if err := os.MkdirAll(a.documentDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	destName := fmt.Sprintf("%d_%s", time.Now().UTC().UnixNano(), filename)
	destPath := filepath.Join(a.documentDir, destName)
	dest, err := os.Create(destPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	size, err := dest.ReadFrom(file)
	closeErr := dest.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, errors.New("failed to store file"))
		return
	}

	doc, err := a.service.CreateDocument(r.Context(), domain.Document{
		Title:       r.FormValue("title"),
		Filename:    filename,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		FilePath:    destPath,
		FileSize:    size,
		MimeType:    header.Header.Get("Content-Type"),
		IsPublic:    r.FormValue("is_public") == "true",
	})
	if err != nil {
		_ = os.Remove(destPath)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"document": doc})
}

func (a *API) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/documents/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("document id required"))
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "download":
		doc, err := a.service.GetDocument(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !doc.IsPublic {
			actor, err := a.bearerActor(r)
			if err != nil || actor.Role != "admin" {
				writeError(w, http.StatusForbidden, errors.New("document is not public"))
				return
			}
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
		if doc.MimeType != "" {
			w.Header().Set("Content-Type", doc.MimeType)
		}
		http.ServeFile(w, r, doc.FilePath)
	case r.Method == http.MethodGet && action == "":
		doc, err := a.service.GetDocument(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !doc.IsPublic {
			actor, err := a.bearerActor(r)
			if err != nil || actor.Role != "admin" {
				writeError(w, http.StatusNotFound, store.ErrNotFound)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"document": doc})
	case r.Method == http.MethodPatch || r.Method == http.MethodPut:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var req domain.DocumentUpdateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			doc, err := a.service.UpdateDocument(r.Context(), id, req)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"document": doc})
		}, "admin")(w, r)
	case r.Method == http.MethodDelete:
		a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			doc, err := a.service.DeleteDocument(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			if doc.FilePath != "" {
				_ = os.Remove(doc.FilePath)
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
		}, "admin")(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		customerType := strings.TrimSpace(r.URL.Query().Get("type"))
		search := strings.TrimSpace(r.URL.Query().Get("search"))
		customers, err := a.service.ListCustomers(r.Context(), customerType, search)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
	case http.MethodPost:
		var req domain.CustomerCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		customer, err := a.service.CreateCustomer(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"customer": customer})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomerByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/customers/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("customer id required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		customer, err := a.service.GetCustomer(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
	case http.MethodPut, http.MethodPatch:
		var req domain.CustomerUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		customer, err := a.service.UpdateCustomer(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
	case http.MethodDelete:
		if err := a.service.DeleteCustomer(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		writeMethodNotAllowed(w)
	}
}

func saleFilterFromQuery(r *http.Request) domain.SaleFilter {
	q := r.URL.Query()
	return domain.SaleFilter{
		PaymentStatus: strings.TrimSpace(q.Get("payment_status")),
		CustomerID:    strings.TrimSpace(q.Get("customer_id")),
		FromDate:      strings.TrimSpace(q.Get("from")),
		ToDate:        strings.TrimSpace(q.Get("to")),
	}
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sales, err := a.service.ListSales(r.Context(), saleFilterFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
	case http.MethodPost:
		var req domain.SaleCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sale, err := a.service.CreateSale(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"sale": sale})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSaleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	stats, err := a.service.SaleStats(r.Context(), saleFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (a *API) handleSaleByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/sales/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("sale id required"))
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "invoice":
		a.handleSaleInvoice(w, r, id)
	case r.Method == http.MethodGet && action == "":
		sale, err := a.service.GetSale(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
	case r.Method == http.MethodPatch && action == "status":
		var req domain.SaleStatusUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sale, err := a.service.UpdateSaleStatus(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
	case r.Method == http.MethodDelete && action == "":
		if err := a.service.DeleteSale(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		writeMethodNotAllowed(w)
	}
}

func inventoryFilterFromQuery(r *http.Request) domain.InventoryFilter {
	q := r.URL.Query()
	filter := domain.InventoryFilter{
		AnimalType: strings.TrimSpace(q.Get("animal_type")),
		Status:     strings.TrimSpace(q.Get("status")),
		Breed:      strings.TrimSpace(q.Get("breed")),
	}
	filter.MinWeight = parseDecimalParam(q.Get("min_weight"))
	filter.MaxWeight = parseDecimalParam(q.Get("max_weight"))
	return filter
}

func (a *API) handleInventory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := a.service.ListInventory(r.Context(), inventoryFilterFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"inventory": items})
	case http.MethodPost:
		var req domain.InventoryCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.CreateInventoryItem(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"item": item})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleInventorySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	summary, err := a.service.InventorySummary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (a *API) handleInventoryByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAction(r.URL.Path, "/api/v1/inventory/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("inventory id required"))
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		item, err := a.service.GetInventoryItem(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": item})
	case (r.Method == http.MethodPut || r.Method == http.MethodPatch) && action == "":
		var req domain.InventoryCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.UpdateInventoryItem(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": item})
	case r.Method == http.MethodPost && action == "status":
		var req struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		item, err := a.service.SetInventoryStatus(r.Context(), id, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"item": item})
	case r.Method == http.MethodPost && action == "health-records":
		var req domain.HealthRecordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		record, err := a.service.AddHealthRecord(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"health_record": record})
	case r.Method == http.MethodDelete && action == "":
		if err := a.service.DeleteInventoryItem(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		writeMethodNotAllowed(w)
	}
}

func ledgerFilterFromQuery(r *http.Request) domain.LedgerFilter {
	q := r.URL.Query()
	return domain.LedgerFilter{
		Category:      strings.TrimSpace(q.Get("category")),
		PaymentStatus: strings.TrimSpace(q.Get("payment_status")),
		FromDate:      strings.TrimSpace(q.Get("from")),
		ToDate:        strings.TrimSpace(q.Get("to")),
	}
}

func (a *API) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := a.service.ListExpenses(r.Context(), ledgerFilterFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	case http.MethodPost:
		var req domain.ExpenseCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		expense, err := a.service.CreateExpense(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleExpenseCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": service.ExpenseCategories})
}

func (a *API) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/expenses/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("expense id required"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		expense, err := a.service.GetExpense(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
	case http.MethodPut, http.MethodPatch:
		var req domain.ExpenseCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		expense, err := a.service.UpdateExpense(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
	case http.MethodDelete:
		if err := a.service.DeleteExpense(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleRevenue(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := a.service.ListRevenue(r.Context(), ledgerFilterFromQuery(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"revenue": entries})
	case http.MethodPost:
		var req domain.RevenueCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.CreateRevenue(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"revenue": entry})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleRevenueCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": service.RevenueCategories})
}

func (a *API) handleRevenueByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/revenue/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("revenue id required"))
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req domain.RevenueCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := a.service.UpdateRevenue(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"revenue": entry})
	case http.MethodDelete:
		if err := a.service.DeleteRevenue(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	summary, err := a.service.FinancialSummary(r.Context(), strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (a *API) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("year query parameter is required"))
		return
	}
	report, err := a.service.MonthlyReport(r.Context(), year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (a *API) handleNFTRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := a.service.ListNFTRecords(r.Context(), strings.TrimSpace(r.URL.Query().Get("inventory_id")))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": records})
	case http.MethodPost:
		var req domain.NFTRecordCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		record, err := a.service.CreateNFTRecord(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"record": record})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleNFTRecordByID(w http.ResponseWriter, r *http.Request) {
	id := pathSuffix(r.URL.Path, "/api/v1/nft-records/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("nft record id required"))
		return
	}
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	if err := a.service.DeleteNFTRecord(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	entityType := strings.TrimSpace(r.URL.Query().Get("entity_type"))
	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
	logs, err := a.service.ListAuditLogs(r.Context(), entityType, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit_logs": logs})
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Enforce CSRF protection for all state-changing requests.
		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

// pathSuffix extracts the single path segment after prefix, rejecting nested
// paths.
func pathSuffix(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimSpace(strings.Trim(rest, "/"))
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// pathIDAction splits "<prefix><id>" or "<prefix><id>/<action>".
func pathIDAction(path, prefix string) (string, string) {
	rest := strings.TrimSpace(strings.Trim(strings.TrimPrefix(path, prefix), "/"))
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func parseDecimalParam(raw string) *decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

// decodeJSONLenient is used on the public storefront endpoints where unknown
// fields from older frontend builds are dropped rather than rejected.
func decodeJSONLenient(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// writeServiceError maps the service/store sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, err)
	case strings.Contains(strings.ToLower(err.Error()), "admin role required"):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details (stack traces, SQL errors, file paths, etc.).
	// 4xx responses are user-facing so we return the original error message.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
