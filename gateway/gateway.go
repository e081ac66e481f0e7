// Package gateway exposes the marketplace workflows over HTTP.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/catalog"
	"github.com/example/craftora/pkg/config"
	"github.com/example/craftora/pkg/feedback"
	"github.com/example/craftora/pkg/identity"
	"github.com/example/craftora/pkg/models"
	"github.com/example/craftora/pkg/orders"
	"github.com/example/craftora/pkg/translate"
)

type Gateway struct {
	config     *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	identity   *identity.Service
	catalog    *catalog.Service
	orders     *orders.Service
	feedback   *feedback.Service
	translator *translate.Chain
}

func NewGateway(
	cfg *config.Config,
	logger *zap.Logger,
	ident *identity.Service,
	cat *catalog.Service,
	ord *orders.Service,
	fb *feedback.Service,
	tr *translate.Chain,
) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:     cfg,
		logger:     logger,
		router:     router,
		identity:   ident,
		catalog:    cat,
		orders:     ord,
		feedback:   fb,
		translator: tr,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := g.router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/captcha", g.newCaptcha)
			auth.POST("/login", g.login)
			auth.POST("/logout", g.logout)
			auth.GET("/session", g.session)
			auth.POST("/signup", g.signup)
		}

		products := v1.Group("/products")
		{
			products.GET("", g.listPublished)
			products.POST("", g.submitProduct)
			products.GET("/mine", g.myProducts)
			products.PUT("/:id", g.editProduct)
			products.DELETE("/:id", g.deleteProduct)
			products.GET("/:id/feedback", g.productFeedback)
			products.POST("/:id/feedback", g.addFeedback)
		}

		review := v1.Group("/review")
		{
			review.GET("/products", g.pendingProducts)
			review.GET("/products/rejected", g.rejectedProducts)
			review.POST("/products/:id/approve", g.approveProduct)
			review.POST("/products/:id/reject", g.rejectProduct)
			review.GET("/artisans", g.artisanRequests)
			review.GET("/artisans/rejected", g.rejectedArtisans)
			review.POST("/artisans/:id/approve", g.approveArtisan)
			review.POST("/artisans/:id/reject", g.rejectArtisan)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", g.getCart)
			cart.POST("", g.addToCart)
			cart.DELETE("/:name", g.removeFromCart)
			cart.POST("/checkout", g.checkout)
		}

		ordersGroup := v1.Group("/orders")
		{
			ordersGroup.GET("", g.myOrders)
			ordersGroup.PUT("/:id/status", g.updateOrderStatus)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/customers", g.listCustomers)
			admin.DELETE("/customers/:id", g.deleteCustomer)
			admin.GET("/artisans", g.listArtisans)
			admin.DELETE("/artisans/:id", g.deleteArtisan)
			admin.GET("/orders", g.allOrders)
			admin.GET("/stats", g.orderStats)
			admin.GET("/feedbacks", g.allFeedback)
			admin.DELETE("/feedbacks/:id", g.deleteFeedback)
		}

		v1.POST("/translate", g.translateText)
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

// Router exposes the handler for tests.
func (g *Gateway) Router() http.Handler {
	return g.router
}

// requireRole loads the session and aborts with 401/403 unless its role is
// one of the allowed set.
func (g *Gateway) requireRole(c *gin.Context, roles ...models.Role) (models.Session, bool) {
	sess, ok := g.identity.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return models.Session{}, false
	}
	for _, r := range roles {
		if sess.Role == r {
			return sess, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	return models.Session{}, false
}

// fail maps the workflow sentinels to HTTP statuses.
func (g *Gateway) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrForbidden), errors.Is(err, orders.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, identity.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, feedback.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, identity.ErrDuplicateUsername), errors.Is(err, identity.ErrDuplicateRequest):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrInvalidInput),
		errors.Is(err, identity.ErrCaptcha),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, orders.ErrInvalidInput),
		errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, feedback.ErrEmptyText):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
