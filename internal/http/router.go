package api

import (
	"log"
	stdhttp "net/http"

	intconfig "storefront/internal/config"
	h "storefront/internal/http/handlers"
	"storefront/internal/http/middleware"
	"storefront/internal/repositories"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	authenticate := middleware.Authenticate(repositories.UserRepository{})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		banner := api.Group("/banner")
		banner.GET("", h.GetBanners)
		banner.GET("/paginate", h.GetBannersPaginate)
		banner.POST("", authenticate, h.CreateBanner)
		banner.GET("/:id", authenticate, h.GetBannerByID)
		banner.PUT("/:id", authenticate, h.UpdateBanner)

		producto := api.Group("/producto")
		producto.GET("", h.GetProductos)
		producto.GET("/paginate", authenticate, h.GetProductosPaginate)
		producto.POST("", authenticate, h.CreateProducto)
		producto.GET("/:id", authenticate, h.GetProductoByID)
		producto.PUT("/:id", authenticate, h.UpdateProducto)
		producto.DELETE("/:id", authenticate, h.DeleteProducto)

		service := api.Group("/service")
		service.GET("", h.GetServices)
		service.GET("/paginate", h.GetServicesPaginate)
		service.POST("", authenticate, h.CreateService)
		service.GET("/:id", authenticate, h.GetServiceByID)
		service.PUT("/:id", authenticate, h.UpdateService)
		service.DELETE("/:id", authenticate, h.DeleteService)

		user := api.Group("/user")
		user.POST("/login", h.Login)
		user.GET("", authenticate, h.GetUsers)
		user.POST("", authenticate, h.CreateUser)
		user.GET("/auth", authenticate, h.GetAuthenticatedUser)
		user.PUT("/changePassword", authenticate, h.ChangePassword)
		user.GET("/:userId", authenticate, h.GetUserByID)
		user.PUT("/:userId", authenticate, h.UpdateUser)
		user.DELETE("/:userId", authenticate, h.ToggleUserActive)
	}

	return r
}
