package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/app"
	"github.com/spendwise/expense-service/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	service := app.NewService(store.NewMemoryRepository(), nil, "expense_service.events", nil, 0)
	return NewRouter(NewHandlers(service, nil))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func registerUser(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec, body := doJSON(t, router, http.MethodPost, "/auth/register", map[string]interface{}{
		"name":     "Ada",
		"email":    email,
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object in response, got %v", body)
	}
	return user["id"].(string)
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/auth/register", map[string]interface{}{
		"name":     "Ada",
		"email":    "Ada@Example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["success"] != true || body["message"] != "User registered successfully" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	user := body["user"].(map[string]interface{})
	if user["email"] != "ada@example.com" {
		t.Fatalf("expected normalized email, got %v", user["email"])
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password must not appear in responses")
	}
}

func TestRegisterEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/auth/register", map[string]interface{}{
		"name": "Ada",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "Please provide name, email, and password" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRegisterEndpointRejectsDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPost, "/auth/register", map[string]interface{}{
		"name":     "Other",
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "User already exists with this email" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "not-the-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body["success"] != false || body["message"] != "Invalid email or password" {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestProfileEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/users/profile/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec, body := doJSON(t, router, http.MethodGet, "/users/profile/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
	if body["message"] != "Invalid user ID" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCategoryEndpoints(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPost, "/users/"+userID+"/categories", map[string]interface{}{
		"name":   "Travel",
		"budget": 200,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Category added successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	rec, body = doJSON(t, router, http.MethodPost, "/users/"+userID+"/categories", map[string]interface{}{
		"name": "travel",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate name, got %d", rec.Code)
	}
	if body["message"] != "Category already exists" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	rec, body = doJSON(t, router, http.MethodGet, "/users/"+userID+"/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	categories := body["categories"].([]interface{})
	if len(categories) != 1 {
		t.Fatalf("expected one category, got %d", len(categories))
	}
	categoryID := categories[0].(map[string]interface{})["id"].(string)

	rec, _ = doJSON(t, router, http.MethodDelete, "/users/"+userID+"/categories/"+categoryID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodDelete, "/users/"+userID+"/categories/"+categoryID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing category, got %d", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPut, "/users/"+userID+"/settings", map[string]interface{}{
		"currency":      "EUR",
		"monthlyBudget": 1500,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	settings := body["settings"].(map[string]interface{})
	if settings["currency"] != "EUR" || settings["monthlyBudget"] != float64(1500) {
		t.Fatalf("unexpected settings: %v", settings)
	}

	rec, body = doJSON(t, router, http.MethodPut, "/users/"+userID+"/settings", map[string]interface{}{
		"currency": "DOGE",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported currency, got %d", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
}

func TestCreateTransactionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPost, "/expenses/", map[string]interface{}{
		"userId":      userID,
		"description": "groceries",
		"amount":      42.50,
		"category":    "Food",
		"type":        "expense",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Expense added successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	expense := body["expense"].(map[string]interface{})
	if expense["amount"] != 42.50 || expense["category"] != "Food" {
		t.Fatalf("unexpected expense payload: %v", expense)
	}

	rec, body = doJSON(t, router, http.MethodPost, "/expenses/", map[string]interface{}{
		"userId":      userID,
		"description": "salary",
		"amount":      3000,
		"category":    "Income",
		"type":        "income",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if body["message"] != "Income added successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCreateTransactionEndpointValidation(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")

	rec, body := doJSON(t, router, http.MethodPost, "/expenses/", map[string]interface{}{
		"userId":      userID,
		"description": "groceries",
		"amount":      -5,
		"category":    "Food",
		"type":        "expense",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %v", body)
	}
}

func TestListTransactionsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")
	for i := 0; i < 12; i++ {
		rec, _ := doJSON(t, router, http.MethodPost, "/expenses/", map[string]interface{}{
			"userId":      userID,
			"description": fmt.Sprintf("item %d", i),
			"amount":      float64(i + 1),
			"category":    "Food",
			"type":        "expense",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d returned %d", i, rec.Code)
		}
	}

	rec, body := doJSON(t, router, http.MethodGet, "/expenses/user/"+userID+"?page=2&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	expenses := body["expenses"].([]interface{})
	if len(expenses) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(expenses))
	}
	if body["totalPages"] != float64(2) || body["currentPage"] != float64(2) || body["total"] != float64(12) {
		t.Fatalf("unexpected pagination fields: %v", body)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/expenses/user/"+userID+"?page=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed page, got %d", rec.Code)
	}
	if body["message"] != "Invalid page" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ada@example.com")
	seed := []map[string]interface{}{
		{"userId": userID, "description": "salary", "amount": 1000, "category": "Income", "type": "income"},
		{"userId": userID, "description": "groceries", "amount": 300, "category": "Food", "type": "expense"},
	}
	for _, tx := range seed {
		rec, _ := doJSON(t, router, http.MethodPost, "/expenses/", tx)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed returned %d", rec.Code)
		}
	}

	rec, body := doJSON(t, router, http.MethodGet, "/expenses/user/"+userID+"/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stats := body["stats"].(map[string]interface{})
	if stats["totalIncome"] != float64(1000) || stats["totalExpenses"] != float64(300) || stats["balance"] != float64(700) {
		t.Fatalf("unexpected balance numbers: %v", stats)
	}
	breakdown := stats["categoryExpenses"].([]interface{})
	if len(breakdown) != 1 {
		t.Fatalf("expected one category in breakdown, got %v", breakdown)
	}
}

func TestDeleteTransactionEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodDelete, "/expenses/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["message"] != "Transaction not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "OK" || body["database"] != "Connected" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}
