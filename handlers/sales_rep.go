package handlers

import (
	"net/http"

	"storefront-backend/models"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SalesRepHandler struct {
	DB *gorm.DB
}

func (h *SalesRepHandler) ListSalesReps(c *gin.Context) {
	query := h.DB.Model(&models.SalesRep{})

	if region := c.Query("region"); region != "" {
		query = query.Where("LOWER(region) = LOWER(?)", region)
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}

	var reps []models.SalesRep
	if err := query.Order("name ASC").Find(&reps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch sales reps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sales_reps": reps})
}

func (h *SalesRepHandler) GetSalesRep(c *gin.Context) {
	var rep models.SalesRep
	if err := h.DB.Where("id = ?", c.Param("id")).First(&rep).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Sales rep not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sales_rep": rep})
}

func (h *SalesRepHandler) CreateSalesRep(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
		Phone  string `json:"phone"`
		Region string `json:"region"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	var existing models.SalesRep
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A sales rep with this email already exists"})
		return
	}

	rep := models.SalesRep{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Region:   req.Region,
		IsActive: true,
	}

	if err := h.DB.Create(&rep).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create sales rep"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "sales_rep": rep})
}

func (h *SalesRepHandler) UpdateSalesRep(c *gin.Context) {
	var rep models.SalesRep
	if err := h.DB.Where("id = ?", c.Param("id")).First(&rep).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Sales rep not found"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Phone    *string `json:"phone"`
		Region   *string `json:"region"`
		IsActive *bool   `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		rep.Name = *req.Name
	}
	if req.Email != nil {
		rep.Email = *req.Email
	}
	if req.Phone != nil {
		rep.Phone = *req.Phone
	}
	if req.Region != nil {
		rep.Region = *req.Region
	}
	if req.IsActive != nil {
		rep.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&rep).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update sales rep"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "sales_rep": rep})
}

func (h *SalesRepHandler) DeleteSalesRep(c *gin.Context) {
	res := h.DB.Where("id = ?", c.Param("id")).Delete(&models.SalesRep{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete sales rep"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Sales rep not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sales rep deleted"})
}
