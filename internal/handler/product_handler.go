package handler

import (
	"net/http"
	"strconv"

	"storefront-service/internal/cart"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests.
// Sizes and colors accept a native list, a JSON-encoded string, or a
// comma-separated string, since admin forms post all three.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Price       decimal.Decimal `json:"price"`
	Discount    float64         `json:"discount"`
	Quantity    int             `json:"quantity"`
	Stock       string          `json:"stock"`
	Images      []string        `json:"images"`
	Sizes       interface{}     `json:"sizes"`
	Colors      interface{}     `json:"colors"`
	Bestseller  bool            `json:"bestseller"`
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var products []model.Product

	// Handle query parameters for filtering
	query := db

	category := c.QueryParam("category")
	if category != "" {
		query = query.Where("category = ?", category)
		log.Info("Filtering products by category", zap.String("category", category))
	}

	subCategory := c.QueryParam("subCategory")
	if subCategory != "" {
		query = query.Where("sub_category = ?", subCategory)
	}

	bestseller := c.QueryParam("bestseller")
	if bestseller != "" {
		best, err := strconv.ParseBool(bestseller)
		if err == nil {
			query = query.Where("bestseller = ?", best)
		} else {
			log.Warn("Invalid bestseller parameter", zap.String("value", bestseller), zap.Error(err))
		}
	}

	// Execute the query
	result := query.Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Failed to retrieve products",
		})
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": products,
	})
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Product not found",
		})
	}

	log.Info("Product retrieved successfully",
		zap.String("product_id", id),
		zap.String("product_name", product.Name))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"product": product,
	})
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	if req.Name == "" || req.Description == "" || req.Category == "" || req.SubCategory == "" || !req.Price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Name, description, price, category, and subCategory are required",
		})
	}
	if req.Discount < 0 || req.Discount > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Discount must be between 0 and 100",
		})
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	stock := req.Stock
	if stock == "" {
		stock = model.StockInStock
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Price:       req.Price,
		Discount:    req.Discount,
		Quantity:    quantity,
		Stock:       stock,
		Images:      req.Images,
		Sizes:       cart.ParseArrayField(req.Sizes),
		Colors:      cart.ParseArrayField(req.Colors),
		Bestseller:  req.Bestseller,
	}

	result := database.GetDB().Create(&product)
	if result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Failed to create product",
		})
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"product": product,
	})
}

// ProductUpdateRequest carries optional fields for partial updates; absent
// fields keep their stored value
type ProductUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	SubCategory *string          `json:"subCategory"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *float64         `json:"discount"`
	Quantity    *int             `json:"quantity"`
	Stock       *string          `json:"stock"`
	Images      *[]string        `json:"images"`
	Sizes       interface{}      `json:"sizes"`
	Colors      interface{}      `json:"colors"`
	Bestseller  *bool            `json:"bestseller"`
}

// applyProductUpdate applies only the fields present in the request,
// re-validating price and discount before anything is touched
func applyProductUpdate(product *model.Product, req *ProductUpdateRequest) error {
	if req.Price != nil && !req.Price.IsPositive() {
		return &cart.ValidationError{Message: "Price must be a positive number"}
	}
	if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 100) {
		return &cart.ValidationError{Message: "Discount must be between 0 and 100"}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.SubCategory != nil {
		product.SubCategory = *req.SubCategory
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Sizes != nil {
		product.Sizes = cart.ParseArrayField(req.Sizes)
	}
	if req.Colors != nil {
		product.Colors = cart.ParseArrayField(req.Colors)
	}
	if req.Bestseller != nil {
		product.Bestseller = *req.Bestseller
	}
	return nil
}

// UpdateProduct handles partially updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	// Find existing product
	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Product not found",
		})
	}

	oldPrice := product.Price

	if err := applyProductUpdate(&product, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	result = database.GetDB().Save(&product)
	if result.Error != nil {
		log.Error("Failed to update product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Failed to update product",
		})
	}

	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("name", product.Name),
		zap.String("old_price", oldPrice.String()),
		zap.String("new_price", product.Price.String()))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"product": product,
	})
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product",
			zap.String("product_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Failed to delete product",
		})
	}

	if result.RowsAffected == 0 {
		log.Warn("Product not found for deletion", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Product not found",
		})
	}

	log.Info("Product deleted successfully",
		zap.String("product_id", id),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}
