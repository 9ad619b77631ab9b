package routes

import (
	"github.com/gin-gonic/gin"

	"meds4you_back_end/internal/handlers"
	adminhandlers "meds4you_back_end/internal/handlers/admin"
	"meds4you_back_end/internal/handlers/partner"
	producthandlers "meds4you_back_end/internal/handlers/product"
	"meds4you_back_end/internal/handlers/referrer"
	userhandlers "meds4you_back_end/internal/handlers/user"
	"meds4you_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// ================== AUTH ==================
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), handlers.Register)
		auth.POST("/login", middleware.LoginRateLimit(), handlers.Login)
		auth.GET("/me", middleware.AuthRequired(), handlers.Me)
		auth.PUT("/change-password", middleware.AuthRequired(), handlers.ChangePassword)
	}

	// ================== CATALOGUE ==================
	products := api.Group("/products")
	{
		products.GET("", producthandlers.ListProducts)
		products.GET("/:id", producthandlers.GetProduct)

		// Écritures réservées aux admins
		products.POST("/createProduct", middleware.AuthRequired(), middleware.RequireAdmin, producthandlers.CreateProduct)
		products.PUT("/:id", middleware.AuthRequired(), middleware.RequireAdmin, producthandlers.UpdateProduct)
		products.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, producthandlers.DeleteProduct)
	}

	// ================== PANIER ==================
	cart := api.Group("/cart")
	cart.Use(middleware.AuthRequired(), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		cart.GET("", userhandlers.GetCart)
		cart.POST("/add", userhandlers.AddToCart)
		cart.PUT("/update", userhandlers.UpdateCartItem)
		cart.DELETE("/remove", userhandlers.RemoveFromCart)
		cart.DELETE("/clear", userhandlers.ClearCart)
	}

	// ================== COMMANDES ==================
	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired())
	{
		orders.POST("/create", middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin), userhandlers.CreateOrder)
		orders.GET("/order-history", middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin), userhandlers.GetOrderHistory)
		orders.POST("/upload-prescription", middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin), userhandlers.UploadPrescription)
		orders.POST("/payment/:id", middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin), userhandlers.RecordPayment)

		// Surface admin
		orders.GET("/admin/orders", middleware.RequireAdmin, adminhandlers.GetAllOrders)
		orders.PUT("/:id/status", middleware.RequireAdmin, adminhandlers.UpdateOrderStatus)
	}

	// ================== CARNET D'ADRESSES ==================
	users := api.Group("/users")
	users.Use(middleware.AuthRequired(), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		users.GET("/addresses", userhandlers.GetAddresses)
		users.POST("/address", userhandlers.AddAddress)
		users.PUT("/address/:addressId/primary", userhandlers.SetPrimaryAddress)
		users.DELETE("/address/:addressId", userhandlers.DeleteAddress)
	}

	// ================== PARTENAIRES ==================
	partners := api.Group("/partners")
	{
		partners.POST("/register", middleware.RegisterRateLimit(), partner.Register)
		partners.POST("/login", middleware.LoginRateLimit(), partner.Login)

		authed := partners.Group("")
		authed.Use(middleware.AuthRequired(), middleware.RequireRoles(middleware.RolePartner))
		{
			authed.GET("/me", partner.Me)
			authed.POST("/kyc", partner.UploadKYC)
			authed.PUT("/bank-details", partner.UpdateBankDetails)
		}
	}

	// ================== PARRAINS ==================
	referrers := api.Group("/referrers")
	{
		referrers.POST("/register", middleware.RegisterRateLimit(), referrer.Register)
		referrers.POST("/login", middleware.LoginRateLimit(), referrer.Login)

		authed := referrers.Group("")
		authed.Use(middleware.AuthRequired(), middleware.RequireRoles(middleware.RoleReferrer))
		{
			authed.GET("/me", referrer.Me)
			authed.GET("/referrals", referrer.GetReferrals)
		}
	}

	// ================== ADMINISTRATION ==================
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.GET("/stats", adminhandlers.GetStats)
		admin.GET("/users", adminhandlers.GetAllUsers)
		admin.GET("/partners", adminhandlers.GetPartners)
		admin.PUT("/partners/:id/approve", adminhandlers.ApprovePartner)
		admin.GET("/referrers", adminhandlers.GetReferrers)
		admin.PUT("/referrers/:id/approve", adminhandlers.ApproveReferrer)
	}
}
