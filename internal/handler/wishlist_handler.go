package handler

import (
	"errors"
	"net/http"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WishlistItemRequest is the body shared by the wishlist endpoints
type WishlistItemRequest struct {
	UserID    uint   `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddToWishlist validates the selection and appends a wishlist entry.
// Wishlisting never reserves stock; only an actual cart add does.
func AddToWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	var req WishlistItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID and Product ID are required"})
	}

	var wishlist model.Wishlist
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Product not found"}
			}
			return err
		}

		if err := cart.ValidateSelection(&product, req.Size, req.Color); err != nil {
			return err
		}

		loaded, err := findOrCreateWishlist(tx, req.UserID)
		if err != nil {
			return err
		}
		wishlist = *loaded

		if findWishlistItem(wishlist.Items, req.ProductID, req.Size, req.Color) >= 0 {
			return &cart.DuplicateError{Message: "Product with these specifications already exists in wishlist"}
		}

		entry := model.WishlistItem{
			WishlistID: wishlist.ID,
			ProductID:  req.ProductID,
			Size:       req.Size,
			Color:      req.Color,
			AddedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		wishlist.Items = append(wishlist.Items, entry)
		return nil
	})
	if err != nil {
		prometheus.WishlistOperationsCounter.WithLabelValues("add", "error").Inc()
		return respondCartError(c, log, "Failed to add item to wishlist", err)
	}

	prometheus.WishlistOperationsCounter.WithLabelValues("add", "success").Inc()
	log.Info("Item added to wishlist",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Item added to wishlist successfully",
		"wishlist": echo.Map{
			"userId":     wishlist.UserID,
			"items":      wishlist.Items,
			"totalItems": len(wishlist.Items),
		},
	})
}

// GetWishlist joins live product data into the wishlist entries. Entries
// whose product no longer exists are dropped rather than failing the read.
func GetWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var wishlist model.Wishlist
	result := database.GetDB().Preload("Items").Where("user_id = ?", userID).First(&wishlist)
	if result.Error != nil || len(wishlist.Items) == 0 {
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Error("Failed to load wishlist", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get wishlist"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Wishlist is empty",
			"wishlist": echo.Map{
				"userId":     userID,
				"items":      []echo.Map{},
				"totalItems": 0,
			},
		})
	}

	ids := make([]uint, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		ids = append(ids, item.ProductID)
	}
	var products []model.Product
	if err := database.GetDB().Where("id IN ?", ids).Find(&products).Error; err != nil {
		log.Error("Failed to load wishlist products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get wishlist"})
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	formatted := make([]echo.Map, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		var mainImage string
		if len(product.Images) > 0 {
			mainImage = product.Images[0]
		}
		// Wishlist prices are always live, never a snapshot
		formatted = append(formatted, echo.Map{
			"id":              item.ID,
			"productId":       item.ProductID,
			"productName":     product.Name,
			"productImage":    mainImage,
			"allImages":       product.Images,
			"category":        product.Category,
			"subCategory":     product.SubCategory,
			"price":           product.Price,
			"discount":        product.Discount,
			"discountedPrice": cart.Round2(cart.UnitPrice(product.Price, product.Discount)),
			"size":            item.Size,
			"color":           item.Color,
			"availableSizes":  product.Sizes,
			"availableColors": product.Colors,
			"addedAt":         item.AddedAt,
		})
	}

	log.Info("Wishlist retrieved", zap.Uint("user_id", userID), zap.Int("entries", len(formatted)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Wishlist retrieved successfully",
		"wishlist": echo.Map{
			"userId":     wishlist.UserID,
			"items":      formatted,
			"totalItems": len(formatted),
		},
	})
}

// RemoveFromWishlist deletes an entry matched by the full triple
func RemoveFromWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	var req WishlistItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID and Product ID are required"})
	}

	var wishlist model.Wishlist
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&wishlist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Wishlist not found"}
			}
			return err
		}

		idx := findWishlistItem(wishlist.Items, req.ProductID, req.Size, req.Color)
		if idx < 0 {
			return &cart.NotFoundError{Message: "Item not found in wishlist"}
		}

		removed := wishlist.Items[idx]
		wishlist.Items = append(wishlist.Items[:idx], wishlist.Items[idx+1:]...)
		return tx.Delete(&model.WishlistItem{}, removed.ID).Error
	})
	if err != nil {
		prometheus.WishlistOperationsCounter.WithLabelValues("remove", "error").Inc()
		return respondCartError(c, log, "Failed to remove item from wishlist", err)
	}

	prometheus.WishlistOperationsCounter.WithLabelValues("remove", "success").Inc()
	log.Info("Item removed from wishlist",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Item removed from wishlist successfully",
		"wishlist": echo.Map{
			"userId":     wishlist.UserID,
			"items":      wishlist.Items,
			"totalItems": len(wishlist.Items),
		},
	})
}

// ClearWishlist empties the wishlist. No inventory is involved.
func ClearWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	var req WishlistItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var wishlist model.Wishlist
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", req.UserID).First(&wishlist).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &cart.NotFoundError{Message: "Wishlist not found"}
			}
			return err
		}
		return tx.Where("wishlist_id = ?", wishlist.ID).Delete(&model.WishlistItem{}).Error
	})
	if err != nil {
		prometheus.WishlistOperationsCounter.WithLabelValues("clear", "error").Inc()
		return respondCartError(c, log, "Failed to clear wishlist", err)
	}

	prometheus.WishlistOperationsCounter.WithLabelValues("clear", "success").Inc()
	log.Info("Wishlist cleared", zap.Uint("user_id", req.UserID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Wishlist cleared successfully",
		"wishlist": echo.Map{
			"userId":     wishlist.UserID,
			"items":      []echo.Map{},
			"totalItems": 0,
		},
	})
}

// CheckWishlistItem reports membership by product ID alone. The check backs
// a "wishlisted" badge that ignores size/color variants; remove and transfer
// match the full triple.
func CheckWishlistItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req WishlistItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID and Product ID are required"})
	}

	var wishlist model.Wishlist
	err := database.GetDB().Preload("Items").Where("user_id = ?", req.UserID).First(&wishlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "inWishlist": false})
		}
		log.Error("Failed to check wishlist item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to check wishlist item"})
	}

	inWishlist := false
	for _, item := range wishlist.Items {
		if item.ProductID == req.ProductID {
			inWishlist = true
			break
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "inWishlist": inWishlist})
}

// TransferToCart removes the wishlist entry when present (absence is not an
// error) and then runs the shared cart add path, so the move reserves stock
// exactly like a direct add.
func TransferToCart(c echo.Context) error {
	log := logger.FromContext(c)

	var req WishlistItemRequest
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

	var product model.Product
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var wishlist model.Wishlist
		err := tx.Preload("Items").Where("user_id = ?", req.UserID).First(&wishlist).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if idx := findWishlistItem(wishlist.Items, req.ProductID, req.Size, req.Color); idx >= 0 {
				if err := tx.Delete(&model.WishlistItem{}, wishlist.Items[idx].ID).Error; err != nil {
					return err
				}
			}
		}

		_, err = lockedCartAdd(tx, req.UserID, req.ProductID, cart.AddParams{
			Quantity: qty,
			Size:     req.Size,
			Color:    req.Color,
		}, &product)
		return err
	})
	if err != nil {
		prometheus.WishlistOperationsCounter.WithLabelValues("transfer", "error").Inc()
		return respondCartError(c, log, "Failed to move item to cart", err)
	}

	prometheus.WishlistOperationsCounter.WithLabelValues("transfer", "success").Inc()
	setInventoryGauge(&product)

	log.Info("Item moved from wishlist to cart",
		zap.Uint("user_id", req.UserID),
		zap.Uint("product_id", req.ProductID),
		zap.Int("quantity", qty))

	return respondWithCart(c, req.UserID, "Item moved to cart successfully")
}

func findOrCreateWishlist(tx *gorm.DB, userID uint) (*model.Wishlist, error) {
	var wishlist model.Wishlist
	err := tx.Preload("Items").Where("user_id = ?", userID).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	wishlist = model.Wishlist{UserID: userID}
	if err := tx.Create(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// findWishlistItem matches by the full (product, normalized size, normalized
// color) triple
func findWishlistItem(items []model.WishlistItem, productID uint, size, color string) int {
	for i, item := range items {
		if item.ProductID == productID &&
			cart.Normalize(item.Size) == cart.Normalize(size) &&
			cart.Normalize(item.Color) == cart.Normalize(color) {
			return i
		}
	}
	return -1
}
