package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-backend/models"
)

func TestRecordPayment(t *testing.T) {
	db := freshDB()
	router := setupPaymentRouter(db)

	_, token := seedTestUser(db, "pay-record@test.com", "customer")

	body := map[string]interface{}{
		"amount": 59.99,
		"method": "card",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/payments", body, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	payment := resp["payment"].(map[string]interface{})
	if payment["status"] != "pending" {
		t.Errorf("expected status pending, got %v", payment["status"])
	}
	if payment["currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", payment["currency"])
	}
	reference, _ := payment["reference"].(string)
	if !strings.HasPrefix(reference, "PAY") {
		t.Errorf("expected generated PAY reference, got %v", reference)
	}
}

func TestListMyPaymentsOnlyOwn(t *testing.T) {
	db := freshDB()
	router := setupPaymentRouter(db)

	mine, token := seedTestUser(db, "pay-mine@test.com", "customer")
	other, _ := seedTestUser(db, "pay-other@test.com", "customer")

	seedPayment(db, mine.ID, 10.00, models.PaymentStatusCompleted)
	seedPayment(db, other.ID, 99.00, models.PaymentStatusCompleted)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/payments", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	payments := resp["payments"].([]interface{})
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	p := payments[0].(map[string]interface{})
	if p["amount"].(float64) != 10.00 {
		t.Errorf("expected own payment of 10.00, got %v", p["amount"])
	}
}

func TestAdminListPaymentsFiltered(t *testing.T) {
	db := freshDB()
	router := setupPaymentRouter(db)

	user, _ := seedTestUser(db, "pay-filter@test.com", "customer")
	_, adminToken := seedTestUser(db, "pay-admin@test.com", "admin")

	seedPayment(db, user.ID, 10.00, models.PaymentStatusCompleted)
	seedPayment(db, user.ID, 20.00, models.PaymentStatusPending)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/payments?status=completed", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	payments := resp["payments"].([]interface{})
	if len(payments) != 1 {
		t.Fatalf("expected 1 completed payment, got %d", len(payments))
	}
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	db := freshDB()
	router := setupPaymentRouter(db)

	user, _ := seedTestUser(db, "pay-status@test.com", "customer")
	_, adminToken := seedTestUser(db, "pay-status-admin@test.com", "admin")

	payment := seedPayment(db, user.ID, 30.00, models.PaymentStatusPending)

	// pending -> completed is allowed
	body := map[string]interface{}{"status": "completed"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/payments/"+payment.ID.String()+"/status", body, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// completed -> pending is not
	body = map[string]interface{}{"status": "pending"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/payments/"+payment.ID.String()+"/status", body, adminToken))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	// completed -> refunded is allowed
	body = map[string]interface{}{"status": "refunded"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/payments/"+payment.ID.String()+"/status", body, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Payment
	db.First(&stored, "id = ?", payment.ID)
	if stored.Status != models.PaymentStatusRefunded {
		t.Errorf("expected status refunded, got %s", stored.Status)
	}
}

func TestAdminPaymentsRequireAdmin(t *testing.T) {
	db := freshDB()
	router := setupPaymentRouter(db)

	_, token := seedTestUser(db, "pay-nonadmin@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/payments", nil, token))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}
