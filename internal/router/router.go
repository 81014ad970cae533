package router

import (
	"net/http"

	"github.com/cixi/storefront-backend/config"
	"github.com/cixi/storefront-backend/internal/app/controller"
	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP handlers mounted by the router.
// Upload may be nil when object storage is not configured.
type Controllers struct {
	Auth      *controller.AuthController
	Product   *controller.ProductController
	Category  *controller.CategoryController
	Kit       *controller.KitController
	Rating    *controller.RatingController
	Comment   *controller.CommentController
	Cart      *controller.CartController
	Export    *controller.ExportController
	Upload    *controller.UploadController
	CatalogWS *controller.CatalogWSController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Cixi API is running",
		})
	})

	ctrl := r.controllers
	authenticate := r.authMiddleware.Authenticate()
	optionalAuth := r.authMiddleware.OptionalAuthenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctrl.Auth.Register)
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/logout", authenticate, ctrl.Auth.Logout)
			auth.GET("/me", authenticate, ctrl.Auth.GetMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", ctrl.Product.ListProducts)
			products.GET("/:id", ctrl.Product.GetProduct)
			products.POST("", authenticate, adminOnly, ctrl.Product.CreateProduct)
			products.PATCH("/:id", authenticate, adminOnly, ctrl.Product.UpdateProduct)
			products.DELETE("/:id", authenticate, adminOnly, ctrl.Product.DeleteProduct)

			products.GET("/:id/comments", ctrl.Comment.ListComments)
			products.POST("/:id/comments", optionalAuth, ctrl.Comment.CreateComment)
			products.DELETE("/:id/comments", authenticate, ctrl.Comment.DeleteComment)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", ctrl.Category.ListCategories)
			categories.POST("", authenticate, adminOnly, ctrl.Category.CreateCategory)
			categories.PUT("/:id", authenticate, adminOnly, ctrl.Category.RenameCategory)
			categories.DELETE("/:id", authenticate, adminOnly, ctrl.Category.DeleteCategory)
		}

		kits := v1.Group("/kits")
		{
			kits.GET("", ctrl.Kit.ListKits)
			kits.GET("/:id", ctrl.Kit.GetKit)
			kits.POST("", authenticate, adminOnly, ctrl.Kit.CreateKit)
			kits.PATCH("/:id", authenticate, adminOnly, ctrl.Kit.UpdateKit)
			kits.DELETE("/:id", authenticate, adminOnly, ctrl.Kit.DeleteKit)
		}
		v1.GET("/paper-types", ctrl.Kit.ListPaperTypes)

		v1.POST("/ratings/create", optionalAuth, ctrl.Rating.CreateRating)
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			v1.Handle(method, "/ratings/create", ctrl.Rating.MethodNotAllowed)
		}

		cart := v1.Group("/cart", middleware.CartSession(r.config.Session.CartTTL, r.config.Auth.CookieSecure))
		{
			cart.GET("", ctrl.Cart.GetCart)
			cart.DELETE("", ctrl.Cart.ClearCart)
			cart.POST("/items", ctrl.Cart.AddItem)
			cart.PUT("/items/:productId", ctrl.Cart.UpdateItem)
			cart.DELETE("/items/:productId", ctrl.Cart.RemoveItem)
			cart.POST("/kits", ctrl.Cart.AddKit)
			cart.DELETE("/kits/:index", ctrl.Cart.RemoveKit)
			cart.POST("/custom-kits", optionalAuth, ctrl.Cart.AddCustomKit)
		}

		admin := v1.Group("/admin", authenticate, adminOnly)
		{
			admin.GET("/products/export", ctrl.Export.ExportProducts)
			if ctrl.Upload != nil {
				admin.POST("/uploads/presigned-url", ctrl.Upload.GeneratePresignedURL)
			}
		}

		v1.GET("/ws/catalog", ctrl.CatalogWS.Subscribe)
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
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
