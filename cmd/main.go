package main

import (
	"net/http"

	"storefront-service/internal/handler"
	mid "storefront-service/internal/middleware"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Money fields render as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes
	authAPI := e.Group("/api/auth")
	authAPI.POST("/register", handler.Register)
	authAPI.POST("/login", handler.Login)

	// Product API routes - reads are public, writes are admin-only
	productAPI := e.Group("/api/products")
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAdmin := e.Group("/api/products", mid.AuthMiddleware, mid.AdminMiddleware)
	productAdmin.POST("", handler.CreateProduct)
	productAdmin.PUT("/:id", handler.UpdateProduct)
	productAdmin.DELETE("/:id", handler.DeleteProduct)

	// Cart API routes
	cartAPI := e.Group("/api/cart", mid.AuthMiddleware)
	cartAPI.POST("/add", handler.AddToCart)
	cartAPI.GET("/:userId", handler.GetCart)
	cartAPI.PUT("/update", handler.UpdateCartItem)
	cartAPI.DELETE("/remove", handler.RemoveFromCart)
	cartAPI.DELETE("/clear", handler.ClearCart)
	cartAPI.POST("/checkout", handler.Checkout)

	// Wishlist API routes
	wishlistAPI := e.Group("/api/wishlist", mid.AuthMiddleware)
	wishlistAPI.POST("/add", handler.AddToWishlist)
	wishlistAPI.GET("/:userId", handler.GetWishlist)
	wishlistAPI.DELETE("/remove", handler.RemoveFromWishlist)
	wishlistAPI.DELETE("/clear", handler.ClearWishlist)
	wishlistAPI.POST("/check/item", handler.CheckWishlistItem)
	wishlistAPI.POST("/transfer-to-cart", handler.TransferToCart)

	// Address API routes
	addressAPI := e.Group("/api/addresses", mid.AuthMiddleware)
	addressAPI.POST("", handler.AddAddress)
	addressAPI.GET("/user/:userId", handler.GetUserAddresses)
	addressAPI.GET("/user/:userId/default", handler.GetDefaultAddress)
	addressAPI.GET("/:id", handler.GetAddressByID)
	addressAPI.PUT("/:id", handler.UpdateAddress)
	addressAPI.PUT("/:id/default", handler.SetDefaultAddress)
	addressAPI.DELETE("/:id", handler.DeleteAddress)

	// Order API routes
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware)
	orderAPI.POST("", handler.CreateOrder)
	orderAPI.GET("/user/:userId", handler.GetUserOrders)
	orderAPI.GET("/:id", handler.GetOrderByID)
	orderAPI.PUT("/:id/status", handler.UpdateOrderStatus)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
