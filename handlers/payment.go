package handlers

import (
	"math"
	"net/http"
	"strconv"

	"storefront-backend/models"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	DB *gorm.DB
}

// ListMyPayments returns the caller's own payment history.
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments})
}

// RecordPayment creates a pending payment record for the caller.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Amount   float64 `json:"amount" binding:"required,gt=0"`
		Currency string  `json:"currency"`
		Method   string  `json:"method" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	payment := models.Payment{
		UserID:   userID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
		Status:   models.PaymentStatusPending,
	}
	if payment.Currency == "" {
		payment.Currency = "USD"
	}

	if err := h.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "payment": payment})
}

// ListPayments is the admin view across all users.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.Payment{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"payments": payments,
		"total":    total,
		"page":     page,
		"limit":    limit,
		"pages":    int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	var payment models.Payment
	if err := h.DB.Preload("User").Where("id = ?", c.Param("id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// UpdatePaymentStatus moves a payment along pending -> completed/failed,
// or completed -> refunded.
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	var payment models.Payment
	if err := h.DB.Where("id = ?", c.Param("id")).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment not found"})
		return
	}

	var req struct {
		Status models.PaymentStatus `json:"status" binding:"required,oneof=pending completed failed refunded"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	allowed := map[models.PaymentStatus][]models.PaymentStatus{
		models.PaymentStatusPending:   {models.PaymentStatusCompleted, models.PaymentStatusFailed},
		models.PaymentStatusCompleted: {models.PaymentStatusRefunded},
	}

	valid := false
	for _, next := range allowed[payment.Status] {
		if next == req.Status {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status transition"})
		return
	}

	if err := h.DB.Model(&payment).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update payment"})
		return
	}

	payment.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}
