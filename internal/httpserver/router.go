package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"retail-console/internal/repository/audit"
	"retail-console/internal/service/catalog"
	"retail-console/internal/service/checkout"
	"retail-console/internal/session"
	"retail-console/internal/upstream"
)

// Deps carries the collaborators the console routes need.
type Deps struct {
	Sessions       session.Store
	Upstream       *upstream.Client
	Catalog        *catalog.Service
	Audit          audit.Recorder
	Timing         checkout.Timing
	AllowedOrigins []string
}

const (
	roleAdmin   = "ADMIN"
	roleManager = "MANAGER"
)

// buildRouter wires the console routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Audit == nil {
		deps.Audit = audit.Discard()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{
		deps:   deps,
		desks:  newDeskRegistry(),
		logger: logger,
	}

	api := router.Group("/console")
	api.POST("/login", h.login)

	authed := api.Group("", sessionAuth(deps.Sessions))
	authed.POST("/logout", h.logout)
	authed.GET("/products", h.listProducts)

	admin := authed.Group("", requireRole(roleAdmin))
	admin.GET("/managers", h.listManagers)
	admin.GET("/managers/search", h.searchManager)
	admin.POST("/managers", h.createManager)
	admin.DELETE("/managers/:id", h.deleteManager)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.GET("/audit", h.listAudit)

	sales := authed.Group("", requireRole(roleManager))
	sales.POST("/cart", h.createCart)
	sales.GET("/cart", h.getCart)
	sales.DELETE("/cart", h.clearCart)
	sales.POST("/cart/items", h.addCartItem)
	sales.PUT("/cart/items/:productId", h.updateCartItem)
	sales.DELETE("/cart/items/:productId", h.removeCartItem)
	sales.POST("/checkout", h.startCheckout)
	sales.GET("/checkout", h.checkoutStatus)
	sales.POST("/checkout/cancel", h.cancelCheckout)

	return router, nil
}
