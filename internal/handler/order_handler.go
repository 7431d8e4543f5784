package handler

import (
	"errors"
	"net/http"
	"strings"

	"storefront-service/internal/cart"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderRequest is the body for order creation
type OrderRequest struct {
	UserID        uint   `json:"userId"`
	AddressID     uint   `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
}

// CreateOrder snapshots the cart into an order at the stored snapshot prices
// and empties the cart, both in one transaction
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.AddressID == 0 || req.PaymentMethod == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID, address ID, and payment method are required"})
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "pending"
	}

	var order model.Order
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var cartDoc model.Cart
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&cartDoc).Error; err != nil || len(cartDoc.Items) == 0 {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return &cart.ValidationError{Message: "Cart is empty"}
		}

		items := make([]model.OrderItem, 0, len(cartDoc.Items))
		totalPrice := decimal.Zero
		for _, line := range cartDoc.Items {
			items = append(items, model.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
				Size:      line.Size,
				Color:     line.Color,
			})
			totalPrice = totalPrice.Add(line.TotalPrice)
		}

		order = model.Order{
			UserID:        req.UserID,
			Items:         items,
			TotalPrice:    cart.Round2(totalPrice),
			AddressID:     req.AddressID,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: paymentStatus,
			Status:        "pending",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// The goods are sold; emptying the cart does not restock
		return tx.Where("cart_id = ?", cartDoc.ID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		prometheus.OrderOperationsCounter.WithLabelValues("create", "error").Inc()
		return respondCartError(c, log, "Failed to create order", err)
	}

	prometheus.OrderOperationsCounter.WithLabelValues("create", "success").Inc()
	log.Info("Order created",
		zap.Uint("user_id", req.UserID),
		zap.Uint("order_id", order.ID),
		zap.String("total", order.TotalPrice.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetUserOrders lists a user's orders, newest first
func GetUserOrders(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var orders []model.Order
	result := database.GetDB().
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to get orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Orders retrieved successfully",
		"orders":  orders,
	})
}

// GetOrderByID retrieves one order with its items
func GetOrderByID(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var order model.Order
	result := database.GetDB().Preload("Items").First(&order, id)
	if result.Error != nil {
		log.Warn("Order not found", zap.String("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Order not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order retrieved successfully",
		"order":   order,
	})
}

// UpdateOrderStatus moves an order through the fulfillment states
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Order ID and status are required"})
	}

	valid := false
	for _, status := range model.OrderStatuses {
		if req.Status == status {
			valid = true
			break
		}
	}
	if !valid {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid status. Must be one of: " + strings.Join(model.OrderStatuses, ", "),
		})
	}

	var order model.Order
	result := database.GetDB().Preload("Items").First(&order, id)
	if result.Error != nil {
		log.Warn("Order not found for status update", zap.String("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Order not found"})
	}

	order.Status = req.Status
	if err := database.GetDB().Save(&order).Error; err != nil {
		log.Error("Failed to update order status", zap.String("order_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update order status"})
	}

	prometheus.OrderOperationsCounter.WithLabelValues("status_update", "success").Inc()
	log.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", req.Status))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order status updated successfully",
		"order":   order,
	})
}
