package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-backend/models"

	"github.com/google/uuid"
)

func TestValidateCouponSuccess(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, token := seedTestUser(db, "coupon-ok@test.com", "customer")
	coupon := seedCoupon(db, "SAVE10", true)

	body := map[string]interface{}{
		"code":       "save10",
		"cart_total": 100.00,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/coupons/validate", body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["discount_amount"].(float64) != 10.00 {
		t.Errorf("expected discount 10.00, got %v", resp["discount_amount"])
	}
	if resp["final_total"].(float64) != 90.00 {
		t.Errorf("expected final total 90.00, got %v", resp["final_total"])
	}

	// The redemption was recorded
	var stored models.Coupon
	db.First(&stored, "id = ?", coupon.ID)
	if stored.UsageCount != 1 {
		t.Errorf("expected usage_count 1, got %d", stored.UsageCount)
	}
}

func TestValidateCouponUnknownCode(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, token := seedTestUser(db, "coupon-404@test.com", "customer")

	body := map[string]interface{}{
		"code":       "NOPE",
		"cart_total": 100.00,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/coupons/validate", body, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestValidateCouponInactive(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, token := seedTestUser(db, "coupon-inactive@test.com", "customer")
	seedCoupon(db, "DEAD", false)

	body := map[string]interface{}{
		"code":       "DEAD",
		"cart_total": 100.00,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/coupons/validate", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["message"] != "This coupon is no longer active" {
		t.Errorf("unexpected message: %v", resp["message"])
	}
}

func TestValidateCouponRequiresAuth(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	body := map[string]interface{}{
		"code":       "SAVE10",
		"cart_total": 100.00,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/coupons/validate", body))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-admin@test.com", "admin")

	body := map[string]interface{}{
		"code":           "  newdeal  ",
		"discount_type":  "percentage",
		"discount_value": 15,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/coupons", body, adminToken))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Coupon
	if err := db.Where("code = ?", "NEWDEAL").First(&stored).Error; err != nil {
		t.Fatalf("expected normalized code NEWDEAL: %v", err)
	}
	if stored.UserLimit != models.DefaultCouponUserLimit {
		t.Errorf("expected default user limit, got %d", stored.UserLimit)
	}
	if stored.GlobalLimit != models.DefaultCouponGlobalLimit {
		t.Errorf("expected default global limit, got %d", stored.GlobalLimit)
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-dup@test.com", "admin")
	seedCoupon(db, "TAKEN", true)

	body := map[string]interface{}{
		"code":           "taken",
		"discount_type":  "fixed",
		"discount_value": 5,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/coupons", body, adminToken))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateProductCouponRequiresExistingProduct(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-prod@test.com", "admin")

	// Missing product_id
	body := map[string]interface{}{
		"code":           "PRODDEAL",
		"discount_type":  "fixed",
		"discount_value": 5,
		"category":       "product",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/coupons", body, adminToken))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown product_id
	body["product_id"] = uuid.New().String()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/coupons", body, adminToken))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	// Existing product succeeds
	cat := seedCategory(db, "CouponCat")
	prod := seedProduct(db, "Coupon Product", cat.ID, 9.99)
	body["product_id"] = prod.ID.String()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/coupons", body, adminToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCouponToGlobalClearsProduct(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-upd@test.com", "admin")
	cat := seedCategory(db, "CouponUpdCat")
	prod := seedProduct(db, "Coupon Upd Product", cat.ID, 9.99)

	productID := prod.ID
	coupon := models.Coupon{
		ID:            uuid.New(),
		Code:          "WASPROD",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 5,
		Category:      models.CouponCategoryProduct,
		ProductID:     &productID,
		UserLimit:     2,
		GlobalLimit:   50,
		IsActive:      true,
	}
	db.Create(&coupon)

	body := map[string]interface{}{"category": "global"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/coupons/"+coupon.ID.String(), body, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Coupon
	db.First(&stored, "id = ?", coupon.ID)
	if stored.ProductID != nil {
		t.Errorf("expected product binding cleared, got %v", stored.ProductID)
	}
}

func TestUpdateCouponRejectsZeroLimits(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-limits@test.com", "admin")
	coupon := seedCoupon(db, "LIMITED", true)

	for _, body := range []map[string]interface{}{
		{"user_limit": 0},
		{"global_limit": 0},
		{"user_limit": -1},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("PUT", "/api/admin/coupons/"+coupon.ID.String(), body, adminToken))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %v, got %d: %s", body, w.Code, w.Body.String())
		}
	}

	// The stored limits are untouched
	var stored models.Coupon
	db.First(&stored, "id = ?", coupon.ID)
	if stored.UserLimit < 1 || stored.GlobalLimit < 1 {
		t.Fatalf("expected limits unchanged, got user_limit=%d global_limit=%d", stored.UserLimit, stored.GlobalLimit)
	}
}

func TestCouponAdminRequiresAdminRole(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, token := seedTestUser(db, "coupon-nonadmin@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/coupons", nil, token))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteCoupon(t *testing.T) {
	db := freshDB()
	router := setupCouponRouter(db)

	_, adminToken := seedTestUser(db, "coupon-del@test.com", "admin")
	coupon := seedCoupon(db, "DELETEME", true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/admin/coupons/"+coupon.ID.String(), nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/admin/coupons/"+coupon.ID.String(), nil, adminToken))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d: %s", w.Code, w.Body.String())
	}
}
