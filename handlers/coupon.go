package handlers

import (
	"net/http"
	"time"

	"storefront-backend/models"
	"storefront-backend/services"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponHandler struct {
	DB      *gorm.DB
	Service *services.CouponService
}

func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{DB: db, Service: &services.CouponService{DB: db}}
}

// ValidateCoupon applies a coupon code to the caller's cart state.
// A successful response means the redemption was recorded.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Code      string              `json:"code" binding:"required"`
		CartTotal float64             `json:"cart_total" binding:"required"`
		Items     []services.CartLine `json:"items"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	result, err := h.Service.Validate(userID, req.Code, req.CartTotal, req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"coupon": gin.H{
			"code":           result.Coupon.Code,
			"discount_type":  result.Coupon.DiscountType,
			"discount_value": result.Coupon.DiscountValue,
		},
		"discount_amount": result.DiscountAmount,
		"final_total":     result.FinalTotal,
	})
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := h.DB.Order("created_at DESC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "coupons": coupons})
}

func (h *CouponHandler) GetCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := h.DB.Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Coupon not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "coupon": coupon})
}

type couponRequest struct {
	Code              string     `json:"code" binding:"required"`
	DiscountType      string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     float64    `json:"discount_value" binding:"required,gt=0"`
	Category          string     `json:"category" binding:"omitempty,oneof=global product"`
	ProductID         *uuid.UUID `json:"product_id"`
	UserLimit         int        `json:"user_limit" binding:"omitempty,gte=0"`
	GlobalLimit       int        `json:"global_limit" binding:"omitempty,gte=0"`
	MinimumOrderValue float64    `json:"minimum_order_value"`
	StartsAt          *time.Time `json:"starts_at"`
	ExpiresAt         *time.Time `json:"expires_at"`
	IsActive          *bool      `json:"is_active"`
}

// validateProductBinding enforces the category rules: a product coupon must
// point at an existing product, a global coupon carries no product at all.
func (h *CouponHandler) validateProductBinding(c *gin.Context, category string, productID *uuid.UUID) (*uuid.UUID, bool) {
	if category != models.CouponCategoryProduct {
		return nil, true
	}
	if productID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product coupons require a product_id"})
		return nil, false
	}
	var product models.Product
	if err := h.DB.Where("id = ?", *productID).First(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product not found"})
		return nil, false
	}
	return productID, true
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.DiscountType == models.DiscountTypePercentage && req.DiscountValue > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Percentage discount cannot exceed 100"})
		return
	}

	category := req.Category
	if category == "" {
		category = models.CouponCategoryGlobal
	}

	productID, ok := h.validateProductBinding(c, category, req.ProductID)
	if !ok {
		return
	}

	code := services.NormalizeCode(req.Code)

	var existing models.Coupon
	if err := h.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A coupon with this code already exists"})
		return
	}

	coupon := models.Coupon{
		Code:              code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		Category:          category,
		ProductID:         productID,
		UserLimit:         req.UserLimit,
		GlobalLimit:       req.GlobalLimit,
		MinimumOrderValue: req.MinimumOrderValue,
		StartsAt:          req.StartsAt,
		ExpiresAt:         req.ExpiresAt,
		IsActive:          true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create coupon"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "coupon": coupon})
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := h.DB.Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Coupon not found"})
		return
	}

	var req struct {
		DiscountType      *string    `json:"discount_type" binding:"omitempty,oneof=percentage fixed"`
		DiscountValue     *float64   `json:"discount_value" binding:"omitempty,gt=0"`
		Category          *string    `json:"category" binding:"omitempty,oneof=global product"`
		ProductID         *uuid.UUID `json:"product_id"`
		UserLimit         *int       `json:"user_limit"`
		GlobalLimit       *int       `json:"global_limit"`
		MinimumOrderValue *float64   `json:"minimum_order_value"`
		StartsAt          *time.Time `json:"starts_at"`
		ExpiresAt         *time.Time `json:"expires_at"`
		IsActive          *bool      `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if coupon.DiscountType == models.DiscountTypePercentage && coupon.DiscountValue > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Percentage discount cannot exceed 100"})
		return
	}
	if req.Category != nil {
		coupon.Category = *req.Category
	}
	if req.ProductID != nil {
		coupon.ProductID = req.ProductID
	}

	if coupon.Category == models.CouponCategoryProduct {
		productID, ok := h.validateProductBinding(c, coupon.Category, coupon.ProductID)
		if !ok {
			return
		}
		coupon.ProductID = productID
	} else {
		coupon.ProductID = nil
	}

	// The create-time limit defaults only apply on insert; a zero limit set
	// here would make the coupon unredeemable.
	if req.UserLimit != nil {
		if *req.UserLimit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User limit must be at least 1"})
			return
		}
		coupon.UserLimit = *req.UserLimit
	}
	if req.GlobalLimit != nil {
		if *req.GlobalLimit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Global limit must be at least 1"})
			return
		}
		coupon.GlobalLimit = *req.GlobalLimit
	}
	if req.MinimumOrderValue != nil {
		coupon.MinimumOrderValue = *req.MinimumOrderValue
	}
	if req.StartsAt != nil {
		coupon.StartsAt = req.StartsAt
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "coupon": coupon})
}

func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	res := h.DB.Where("id = ?", c.Param("id")).Delete(&models.Coupon{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete coupon"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Coupon not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon deleted"})
}
