package routes

import (
	"time"

	"storefront-backend/handlers"
	"storefront-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	cartHandler := handlers.NewCartHandler(db)
	couponHandler := handlers.NewCouponHandler(db)
	paymentHandler := &handlers.PaymentHandler{DB: db}
	salesRepHandler := &handlers.SalesRepHandler{DB: db}

	// 10 attempts per minute per IP on the credential endpoints
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/signup", authLimiter.Middleware(), authHandler.Signup)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// Public catalog routes
		api.GET("/products", productHandler.ListProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/categories", categoryHandler.ListCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db))
	{
		// User profile
		protected.GET("/auth/me", authHandler.Me)
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.PUT("/auth/billing", authHandler.UpdateBilling)

		// Stored payment methods
		protected.GET("/auth/payment-methods", authHandler.ListPaymentMethods)
		protected.POST("/auth/payment-methods", authHandler.AddPaymentMethod)
		protected.DELETE("/auth/payment-methods/:id", authHandler.DeletePaymentMethod)

		// Cart routes. The static /cart/clear route must be registered in the
		// same group as /cart/:cartItemId; gin resolves static segments first.
		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddItem)
		protected.PUT("/cart/:cartItemId", cartHandler.UpdateItem)
		protected.DELETE("/cart/clear", cartHandler.ClearCart)
		protected.DELETE("/cart/:cartItemId", cartHandler.RemoveItem)

		// Coupon redemption
		protected.POST("/coupons/validate", couponHandler.ValidateCoupon)

		// Payment history
		protected.GET("/payments", paymentHandler.ListMyPayments)
		protected.POST("/payments", paymentHandler.RecordPayment)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(db))
	admin.Use(middleware.AdminMiddleware())
	{
		// Product management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		// Category management
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Coupon management
		admin.GET("/coupons", couponHandler.ListCoupons)
		admin.GET("/coupons/:id", couponHandler.GetCoupon)
		admin.POST("/coupons", couponHandler.CreateCoupon)
		admin.PUT("/coupons/:id", couponHandler.UpdateCoupon)
		admin.DELETE("/coupons/:id", couponHandler.DeleteCoupon)

		// Payment management
		admin.GET("/payments", paymentHandler.ListPayments)
		admin.GET("/payments/:id", paymentHandler.GetPayment)
		admin.PUT("/payments/:id/status", paymentHandler.UpdatePaymentStatus)

		// Sales rep management
		admin.GET("/sales-reps", salesRepHandler.ListSalesReps)
		admin.GET("/sales-reps/:id", salesRepHandler.GetSalesRep)
		admin.POST("/sales-reps", salesRepHandler.CreateSalesRep)
		admin.PUT("/sales-reps/:id", salesRepHandler.UpdateSalesRep)
		admin.DELETE("/sales-reps/:id", salesRepHandler.DeleteSalesRep)

		// User management
		admin.GET("/users", authHandler.ListUsers)
		admin.GET("/users/:id", authHandler.GetUser)
		admin.PUT("/users/:id", authHandler.UpdateUser)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
