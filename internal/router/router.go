package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/config"
	"github.com/sibors/sibors-backend/internal/app/controller"
	"github.com/sibors/sibors-backend/internal/middleware"
)

// Controllers groups every HTTP handler set
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Role       *controller.RoleController
	Company    *controller.CompanyController
	Attribute  *controller.AttributeController
	Category   *controller.CategoryController
	Supplier   *controller.SupplierController
	Customer   *controller.CustomerController
	Template   *controller.TemplateController
	Stock      *controller.StockController
	Catalog    *controller.CatalogController
	Purchase   *controller.PurchaseController
	Sale       *controller.SaleController
	Audit      *controller.AuditController
	Accounting *controller.AccountingController
	Dashboard  *controller.DashboardController
	Upload     *controller.UploadController
	StockFeed  *controller.StockFeedController
}

type Router struct {
	ctrl           Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(ctrl Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		ctrl:           ctrl,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SIBORS API is running",
		})
	})

	if r.config.Images.Storage == "local" {
		router.Static("/images", r.config.Images.Dir)
	}

	auth := r.authMiddleware.Authenticate()
	can := r.authMiddleware.RequirePermission

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", r.ctrl.Auth.Login)
			authGroup.POST("/refresh", r.ctrl.Auth.Refresh)
			authGroup.POST("/logout", auth, r.ctrl.Auth.Logout)
			authGroup.GET("/me", auth, r.ctrl.Auth.GetMe)
			authGroup.PUT("/password", auth, r.ctrl.Auth.ChangePassword)
		}

		users := v1.Group("/users", auth, r.authMiddleware.RequireAdmin())
		{
			users.GET("", r.ctrl.User.ListUsers)
			users.POST("", r.ctrl.User.CreateUser)
			users.GET("/:id", r.ctrl.User.GetUser)
			users.PUT("/:id", r.ctrl.User.UpdateUser)
			users.DELETE("/:id", r.ctrl.User.DeleteUser)
		}

		roles := v1.Group("/roles", auth, r.authMiddleware.RequireAdmin())
		{
			roles.GET("", r.ctrl.Role.ListRoles)
			roles.GET("/modules", r.ctrl.Role.ListModules)
			roles.POST("", r.ctrl.Role.CreateRole)
			roles.GET("/:id", r.ctrl.Role.GetRole)
			roles.PUT("/:id", r.ctrl.Role.UpdateRole)
			roles.DELETE("/:id", r.ctrl.Role.DeleteRole)
		}

		company := v1.Group("/company", auth)
		{
			company.GET("", r.ctrl.Company.GetCompany)
			company.PUT("", can("empresa"), r.ctrl.Company.SaveCompany)
		}

		attributes := v1.Group("/attributes", auth)
		{
			attributes.GET("", r.ctrl.Attribute.ListAttributes)
			attributes.POST("", can("productos"), r.ctrl.Attribute.CreateAttribute)
			attributes.PUT("/:id", can("productos"), r.ctrl.Attribute.RenameAttribute)
			attributes.DELETE("/:id", can("productos"), r.ctrl.Attribute.DeleteAttribute)
			attributes.POST("/:id/values", can("productos"), r.ctrl.Attribute.AddValue)
		}

		values := v1.Group("/attribute-values", auth, can("productos"))
		{
			values.PUT("/:id", r.ctrl.Attribute.UpdateValue)
			values.DELETE("/:id", r.ctrl.Attribute.DeleteValue)
		}

		categories := v1.Group("/categories", auth)
		{
			categories.GET("", r.ctrl.Category.ListCategories)
			categories.GET("/:id", r.ctrl.Category.GetCategory)
			categories.GET("/:id/descendants", r.ctrl.Category.GetDescendants)
			categories.POST("", can("categorias"), r.ctrl.Category.CreateCategory)
			categories.PUT("/:id", can("categorias"), r.ctrl.Category.UpdateCategory)
			categories.DELETE("/:id", can("categorias"), r.ctrl.Category.DeleteCategory)
		}

		suppliers := v1.Group("/suppliers", auth)
		{
			suppliers.GET("", r.ctrl.Supplier.ListSuppliers)
			suppliers.GET("/:id", r.ctrl.Supplier.GetSupplier)
			suppliers.POST("", can("proveedores"), r.ctrl.Supplier.CreateSupplier)
			suppliers.PUT("/:id", can("proveedores"), r.ctrl.Supplier.UpdateSupplier)
			suppliers.DELETE("/:id", can("proveedores"), r.ctrl.Supplier.DeleteSupplier)
		}

		customers := v1.Group("/customers", auth)
		{
			customers.GET("", r.ctrl.Customer.ListCustomers)
			customers.GET("/:id", r.ctrl.Customer.GetCustomer)
			customers.GET("/:id/sales", can("clientes"), r.ctrl.Customer.GetCustomerSales)
			customers.POST("", can("clientes"), r.ctrl.Customer.CreateCustomer)
			customers.PUT("/:id", can("clientes"), r.ctrl.Customer.UpdateCustomer)
			customers.DELETE("/:id", can("clientes"), r.ctrl.Customer.DeleteCustomer)
		}

		templates := v1.Group("/templates", auth)
		{
			templates.GET("", r.ctrl.Template.ListTemplates)
			templates.GET("/:id", r.ctrl.Template.GetTemplate)
			templates.GET("/:id/stock", r.ctrl.Template.GetTemplateStock)
			templates.POST("", can("productos"), r.ctrl.Template.CreateTemplate)
			templates.PUT("/:id", can("productos"), r.ctrl.Template.UpdateTemplate)
			templates.DELETE("/:id", can("productos"), r.ctrl.Template.DeleteTemplate)
		}

		variants := v1.Group("/variants", auth)
		{
			variants.GET("", r.ctrl.Template.ListVariants)
			variants.GET("/:id", r.ctrl.Template.GetVariant)
			variants.POST("/:id/adjust", can("variantes"), r.ctrl.Stock.AdjustStock)
			variants.GET("/:id/movements", can("variantes"), r.ctrl.Stock.GetMovements)
			variants.GET("/:id/ledger-check", can("variantes"), r.ctrl.Stock.CheckLedger)
		}

		stock := v1.Group("/stock", auth)
		{
			stock.GET("/adjustment-kinds", r.ctrl.Stock.ListAdjustmentKinds)
			stock.GET("/ledger-check", r.authMiddleware.RequireAdmin(), r.ctrl.Stock.CheckAllLedgers)
		}

		catalog := v1.Group("/catalog", auth, can("productos"))
		{
			catalog.GET("/export", r.ctrl.Catalog.ExportCSV)
			catalog.POST("/import/analyze", r.ctrl.Catalog.AnalyzeImport)
			catalog.POST("/import/execute", r.ctrl.Catalog.ExecuteImport)
		}

		uploads := v1.Group("/uploads", auth, can("productos"))
		{
			uploads.POST("/images", r.ctrl.Upload.UploadImage)
		}

		purchases := v1.Group("/purchases", auth, can("compras"))
		{
			purchases.GET("", r.ctrl.Purchase.ListOrders)
			purchases.POST("", r.ctrl.Purchase.CreateOrder)
			purchases.GET("/:id", r.ctrl.Purchase.GetOrder)
			purchases.POST("/:id/receive", r.ctrl.Purchase.ReceiveOrder)
			purchases.POST("/:id/cancel", r.ctrl.Purchase.CancelOrder)
		}

		sales := v1.Group("/sales", auth, can("ventas"))
		{
			sales.GET("", r.ctrl.Sale.ListSales)
			sales.POST("", r.ctrl.Sale.StartSale)
			sales.GET("/active", r.ctrl.Sale.GetActiveSale)
			sales.GET("/:id", r.ctrl.Sale.GetSale)
			sales.POST("/:id/items", r.ctrl.Sale.AddItem)
			sales.DELETE("/:id/items/:lineId", r.ctrl.Sale.RemoveItem)
			sales.POST("/:id/finalize", r.ctrl.Sale.FinalizeSale)
			sales.POST("/:id/cancel", r.ctrl.Sale.CancelSale)
		}

		audits := v1.Group("/audits", auth, can("auditorias"))
		{
			audits.GET("", r.ctrl.Audit.ListAudits)
			audits.POST("", r.ctrl.Audit.StartAudit)
			audits.GET("/in-progress", r.ctrl.Audit.GetInProgress)
			audits.GET("/:id", r.ctrl.Audit.GetAudit)
			audits.POST("/:id/counts", r.ctrl.Audit.RecordCount)
			audits.POST("/:id/finalize", r.ctrl.Audit.FinalizeAudit)
			audits.POST("/:id/cancel", r.ctrl.Audit.CancelAudit)
		}

		accounting := v1.Group("/accounting", auth, can("contabilidad"))
		{
			accounting.GET("", r.ctrl.Accounting.ListMovements)
			accounting.POST("", r.ctrl.Accounting.AddMovement)
			accounting.GET("/summary", r.ctrl.Accounting.Summary)
			accounting.GET("/daily", r.ctrl.Accounting.DailySummary)
		}

		v1.GET("/dashboard/kpis", auth, can("dashboard"), r.ctrl.Dashboard.GetKPIs)

		// browsers cannot set headers on upgrade; the token comes in ?token
		v1.GET("/ws/stock", auth, r.ctrl.StockFeed.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
