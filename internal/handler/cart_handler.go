package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartItemRequest is the body shared by add/update/remove cart endpoints
type CartItemRequest struct {
	UserID    uint   `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddToCart reserves stock and adds a line item to the user's cart
func AddToCart(c echo.Context) error {
	log := logger.FromContext(c)

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID and Product ID are required"})
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	log.Info("Adding item to cart",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", qty),
		zap.String("size", req.Size),
		zap.String("color", req.Color))

	var product model.Product
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		_, err := lockedCartAdd(tx, req.UserID, req.ProductID, cart.AddParams{
			Quantity: qty,
			Size:     req.Size,
			Color:    req.Color,
		}, &product)
		return err
	})
	if err != nil {
		prometheus.CartOperationsCounter.WithLabelValues("add", "error").Inc()
		return respondCartError(c, log, "Failed to add item to cart", err)
	}

	prometheus.CartOperationsCounter.WithLabelValues("add", "success").Inc()
	setInventoryGauge(&product)

	log.Info("Item added to cart",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("remaining_stock", product.Quantity))

	return respondWithCart(c, req.UserID, "Item added to cart successfully")
}

// lockedCartAdd runs the shared add path inside tx: it takes a row lock on
// the product, finds or creates the cart, applies the in-memory mutation,
// and persists both documents. Wishlist transfer reuses it so a move
// consumes stock exactly like a direct add.
func lockedCartAdd(tx *gorm.DB, userID, productID uint, params cart.AddParams, product *model.Product) (*model.Cart, error) {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &cart.NotFoundError{Message: "Product not found"}
		}
		return nil, err
	}

	cartDoc, err := findOrCreateCart(tx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.Add(cartDoc, product, params); err != nil {
		return nil, err
	}

	// Drop lines whose product reference is gone before persisting
	for _, dropped := range cart.Prune(cartDoc) {
		if dropped.ID != 0 {
			if err := tx.Delete(&model.CartItem{}, dropped.ID).Error; err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Save(product).Error; err != nil {
		return nil, err
	}
	if err := saveCart(tx, cartDoc); err != nil {
		return nil, err
	}
	return cartDoc, nil
}

// GetCart returns the enriched cart, or a well-formed empty cart
func GetCart(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var cartDoc model.Cart
	result := database.GetDB().Preload("Items").Where("user_id = ?", userID).First(&cartDoc)
	if result.Error != nil || len(cartDoc.Items) == 0 {
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Error("Failed to load cart", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get cart"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Cart is empty",
			"cart":    cartResponse(userID, nil, nil),
		})
	}

	products, err := fetchProducts(database.GetDB(), cartDoc.Items)
	if err != nil {
		log.Error("Failed to load cart products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get cart"})
	}

	log.Info("Cart retrieved", zap.Uint("user_id", userID), zap.Int("lines", len(cartDoc.Items)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Cart retrieved successfully",
		"cart":    cartResponse(userID, cartDoc.Items, products),
	})
}

// UpdateCartItem sets a line to a new quantity, reconciling reserved stock
func UpdateCartItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 || req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID, Product ID, and quantity are required"})
	}

	var product model.Product
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var cartDoc model.Cart
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&cartDoc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Cart not found"}
			}
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Product not found"}
			}
			return err
		}

		removed, err := cart.UpdateQuantity(&cartDoc, &product, *req.Quantity, req.Size, req.Color)
		if err != nil {
			return err
		}
		if removed != nil && removed.ID != 0 {
			if err := tx.Delete(&model.CartItem{}, removed.ID).Error; err != nil {
				return err
			}
		}

		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return saveCart(tx, &cartDoc)
	})
	if err != nil {
		prometheus.CartOperationsCounter.WithLabelValues("update", "error").Inc()
		return respondCartError(c, log, "Failed to update cart", err)
	}

	prometheus.CartOperationsCounter.WithLabelValues("update", "success").Inc()
	setInventoryGauge(&product)

	log.Info("Cart updated",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", *req.Quantity))

	return respondWithCart(c, req.UserID, "Cart updated successfully")
}

// RemoveFromCart deletes a line item and restores its reservation
func RemoveFromCart(c echo.Context) error {
	log := logger.FromContext(c)

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID and Product ID are required"})
	}

	var product model.Product
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var cartDoc model.Cart
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&cartDoc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Cart not found"}
			}
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling line: the product is gone, nothing to restock
				idx := cart.FindItem(cartDoc.Items, req.ProductID, req.Size, req.Color)
				if idx < 0 {
					return &cart.NotFoundError{Message: "Item not found in cart"}
				}
				removed := cartDoc.Items[idx]
				return tx.Delete(&model.CartItem{}, removed.ID).Error
			}
			return err
		}

		removed, err := cart.Remove(&cartDoc, &product, req.Size, req.Color)
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.CartItem{}, removed.ID).Error; err != nil {
			return err
		}
		return tx.Save(&product).Error
	})
	if err != nil {
		prometheus.CartOperationsCounter.WithLabelValues("remove", "error").Inc()
		return respondCartError(c, log, "Failed to remove item from cart", err)
	}

	prometheus.CartOperationsCounter.WithLabelValues("remove", "success").Inc()
	// The dangling-line path never loads a product
	if product.ID != 0 {
		setInventoryGauge(&product)
	}
	log.Info("Item removed from cart",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID))

	return respondWithCart(c, req.UserID, "Item removed from cart successfully")
}

// ClearCart restores every reservation and empties the cart
func ClearCart(c echo.Context) error {
	log := logger.FromContext(c)

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var restocked []model.Product
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var cartDoc model.Cart
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&cartDoc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Cart not found"}
			}
			return err
		}

		restocked = restocked[:0]
		for _, item := range cartDoc.Items {
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			cart.Restock(&product, item.Quantity)
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
			restocked = append(restocked, product)
		}

		return tx.Where("cart_id = ?", cartDoc.ID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		prometheus.CartOperationsCounter.WithLabelValues("clear", "error").Inc()
		return respondCartError(c, log, "Failed to clear cart", err)
	}

	prometheus.CartOperationsCounter.WithLabelValues("clear", "success").Inc()
	for i := range restocked {
		setInventoryGauge(&restocked[i])
	}
	log.Info("Cart cleared", zap.Uint("user_id", req.UserID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Cart cleared successfully",
		"cart":    cartResponse(req.UserID, nil, nil),
	})
}

// CheckoutRequest is the body for the purchase endpoint
type CheckoutRequest struct {
	UserID          uint        `json:"userId"`
	ShippingAddress interface{} `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
}

// Checkout re-validates every cart line against live product state, builds a
// purchase summary at current prices, and empties the cart. It does not
// persist an order; POST /api/orders does that from the stored snapshot.
func Checkout(c echo.Context) error {
	log := logger.FromContext(c)

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ShippingAddress == nil || req.PaymentMethod == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID, shipping address, and payment method are required"})
	}

	var purchaseSummary echo.Map
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var cartDoc model.Cart
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&cartDoc).Error; err != nil || len(cartDoc.Items) == 0 {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return &cart.ValidationError{Message: "Cart is empty"}
		}

		purchaseItems := make([]echo.Map, 0, len(cartDoc.Items))
		totalAmount := decimal.Zero
		totalItems := 0

		for _, item := range cartDoc.Items {
			var product model.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &cart.ValidationError{Message: "Product " + strconv.FormatUint(uint64(item.ProductID), 10) + " is no longer available"}
				}
				return err
			}

			// Checkout prices are live, not the stored snapshot
			currentPrice := cart.UnitPrice(product.Price, product.Discount)
			itemTotal := currentPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalAmount = totalAmount.Add(itemTotal)
			totalItems += item.Quantity

			purchaseItems = append(purchaseItems, echo.Map{
				"productId":     item.ProductID,
				"productName":   product.Name,
				"quantity":      item.Quantity,
				"size":          item.Size,
				"color":         item.Color,
				"unitPrice":     cart.Round2(currentPrice),
				"originalPrice": cart.Round2(product.Price),
				"discount":      product.Discount,
				"totalPrice":    cart.Round2(itemTotal),
			})
		}

		purchaseSummary = echo.Map{
			"userId":          req.UserID,
			"items":           purchaseItems,
			"totalAmount":     cart.Round2(totalAmount),
			"totalItems":      totalItems,
			"shippingAddress": req.ShippingAddress,
			"paymentMethod":   req.PaymentMethod,
			"orderDate":       time.Now().UTC(),
		}

		return tx.Where("cart_id = ?", cartDoc.ID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		prometheus.CartOperationsCounter.WithLabelValues("checkout", "error").Inc()
		return respondCartError(c, log, "Failed to process purchase", err)
	}

	prometheus.CartOperationsCounter.WithLabelValues("checkout", "success").Inc()
	log.Info("Purchase processed", zap.Uint("user_id", req.UserID))

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"message":         "Purchase processed successfully",
		"purchaseSummary": purchaseSummary,
	})
}

// findOrCreateCart loads the user's cart with its items, creating an empty
// cart row if none exists yet
func findOrCreateCart(tx *gorm.DB, userID uint) (*model.Cart, error) {
	var cartDoc model.Cart
	err := tx.Preload("Items").Where("user_id = ?", userID).First(&cartDoc).Error
	if err == nil {
		return &cartDoc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cartDoc = model.Cart{UserID: userID}
	if err := tx.Create(&cartDoc).Error; err != nil {
		return nil, err
	}
	return &cartDoc, nil
}

func saveCart(tx *gorm.DB, cartDoc *model.Cart) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cartDoc).Error
}

// respondWithCart re-reads the cart with product details joined in and
// returns the enriched shape
func respondWithCart(c echo.Context, userID uint, message string) error {
	log := logger.FromContext(c)

	var cartDoc model.Cart
	err := database.GetDB().Preload("Items").Where("user_id = ?", userID).First(&cartDoc).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to reload cart", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load cart"})
	}

	products, err := fetchProducts(database.GetDB(), cartDoc.Items)
	if err != nil {
		log.Error("Failed to load cart products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"cart":    cartResponse(userID, cartDoc.Items, products),
	})
}

// respondCartError maps a domain error to its status code; storage errors
// stay behind a generic message
func respondCartError(c echo.Context, log *zap.Logger, genericMessage string, err error) error {
	status := cart.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error(genericMessage, zap.Error(err))
		message = genericMessage
	} else {
		log.Warn(genericMessage, zap.String("reason", err.Error()))
	}
	return c.JSON(status, echo.Map{"success": false, "error": message})
}

// fetchProducts loads the products referenced by cart lines, keyed by ID.
// Missing products are simply absent from the map.
func fetchProducts(db *gorm.DB, items []model.CartItem) (map[uint]model.Product, error) {
	defer prometheus.TrackDBOperation("fetch_products")(time.Now())

	if len(items) == 0 {
		return map[uint]model.Product{}, nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var products []model.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// cartResponse builds the enriched cart shape: formatted line items with
// joined product fields plus aggregate totals. Lines whose product no longer
// exists are dropped rather than failing the whole read.
func cartResponse(userID uint, items []model.CartItem, products map[uint]model.Product) echo.Map {
	formatted := make([]echo.Map, 0, len(items))
	kept := make([]model.CartItem, 0, len(items))

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		var mainImage string
		if len(product.Images) > 0 {
			mainImage = product.Images[0]
		}
		formatted = append(formatted, echo.Map{
			"id":                item.ID,
			"productId":         item.ProductID,
			"productName":       product.Name,
			"productImage":      mainImage,
			"allImages":         product.Images,
			"category":          product.Category,
			"subCategory":       product.SubCategory,
			"originalPrice":     item.OriginalPrice,
			"discount":          item.Discount,
			"unitPrice":         item.UnitPrice,
			"quantity":          item.Quantity,
			"size":              item.Size,
			"color":             item.Color,
			"totalPrice":        item.TotalPrice,
			"availableSizes":    product.Sizes,
			"availableColors":   product.Colors,
			"stock":             product.Stock,
			"availableQuantity": product.Quantity,
		})
		kept = append(kept, item)
	}

	cartTotal, totalItems, totalSavings := cart.Totals(kept)
	return echo.Map{
		"userId":     userID,
		"items":      formatted,
		"cartTotal":  cartTotal,
		"totalItems": totalItems,
		"cartSummary": echo.Map{
			"totalProducts": len(formatted),
			"totalQuantity": totalItems,
			"totalAmount":   cartTotal,
			"totalSavings":  totalSavings,
		},
	}
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return uint(id), nil
}

func setInventoryGauge(p *model.Product) {
	prometheus.ProductInventoryGauge.
		WithLabelValues(strconv.FormatUint(uint64(p.ID), 10)).
		Set(float64(p.Quantity))
}
