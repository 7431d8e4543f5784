package handler

import (
	"errors"
	"net/http"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddressRequest defines the structure for address creation/update requests
type AddressRequest struct {
	UserID       uint   `json:"userId"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	Landmark     string `json:"landmark"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	IsDefault    bool   `json:"isDefault"`
}

// AddAddress creates a shipping address. The user's first active address
// becomes the default automatically.
func AddAddress(c echo.Context) error {
	log := logger.FromContext(c)

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 || req.Name == "" || req.PhoneNumber == "" || req.Email == "" ||
		req.AddressLine1 == "" || req.City == "" || req.State == "" || req.Pincode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "All required fields must be provided"})
	}

	address := model.Address{
		UserID:       req.UserID,
		Name:         strings.TrimSpace(req.Name),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		Landmark:     strings.TrimSpace(req.Landmark),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		Pincode:      strings.TrimSpace(req.Pincode),
		IsActive:     true,
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var activeCount int64
		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND is_active = ?", req.UserID, true).
			Count(&activeCount).Error; err != nil {
			return err
		}

		address.IsDefault = defaultOnCreate(activeCount, req.IsDefault)
		if err := tx.Create(&address).Error; err != nil {
			return err
		}

		// Only one active address may hold the default flag
		if address.IsDefault {
			return tx.Model(&model.Address{}).
				Where("user_id = ? AND id != ?", req.UserID, address.ID).
				Update("is_default", false).Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to add address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add address"})
	}

	log.Info("Address added",
		zap.Uint("user_id", req.UserID),
		zap.Uint("address_id", address.ID),
		zap.Bool("is_default", address.IsDefault))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Address added successfully",
		"address": address,
	})
}

// GetUserAddresses lists a user's active addresses, default first
func GetUserAddresses(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var addresses []model.Address
	result := database.GetDB().
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("is_default DESC, created_at DESC").
		Find(&addresses)
	if result.Error != nil {
		log.Error("Failed to get addresses", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to get addresses"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        "Addresses retrieved successfully",
		"addresses":      addresses,
		"totalAddresses": len(addresses),
	})
}

// GetAddressByID retrieves a single active address
func GetAddressByID(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var address model.Address
	result := database.GetDB().Where("id = ? AND is_active = ?", id, true).First(&address)
	if result.Error != nil {
		log.Warn("Address not found", zap.String("address_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Address not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Address retrieved successfully",
		"address": address,
	})
}

// GetDefaultAddress retrieves the user's default shipping address
func GetDefaultAddress(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "User ID is required"})
	}

	var address model.Address
	result := database.GetDB().
		Where("user_id = ? AND is_default = ? AND is_active = ?", userID, true, true).
		First(&address)
	if result.Error != nil {
		log.Warn("No default address found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "No default address found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Default address retrieved successfully",
		"address": address,
	})
}

// UpdateAddress updates the fields of an active address
func UpdateAddress(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}

	var address model.Address
	result := database.GetDB().Where("id = ? AND is_active = ?", id, true).First(&address)
	if result.Error != nil {
		log.Warn("Address not found for update", zap.String("address_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Address not found"})
	}

	// The owning user never changes via update
	address.Name = strings.TrimSpace(req.Name)
	address.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	address.Email = strings.ToLower(strings.TrimSpace(req.Email))
	address.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	address.AddressLine2 = strings.TrimSpace(req.AddressLine2)
	address.Landmark = strings.TrimSpace(req.Landmark)
	address.City = strings.TrimSpace(req.City)
	address.State = strings.TrimSpace(req.State)
	address.Pincode = strings.TrimSpace(req.Pincode)

	if err := database.GetDB().Save(&address).Error; err != nil {
		log.Error("Failed to update address", zap.String("address_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update address"})
	}

	log.Info("Address updated", zap.String("address_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Address updated successfully",
		"address": address,
	})
}

// SetDefaultAddress flags one address as default and clears its siblings
func SetDefaultAddress(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Address ID and User ID are required"})
	}

	var address model.Address
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", id, req.UserID, true).First(&address).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND id != ?", req.UserID, address.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		address.IsDefault = true
		return tx.Save(&address).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Address not found for default change", zap.String("address_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Address not found"})
		}
		log.Error("Failed to set default address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to set default address"})
	}

	log.Info("Default address updated",
		zap.Uint("user_id", req.UserID),
		zap.String("address_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Default address updated successfully",
		"address": address,
	})
}

// DeleteAddress soft-deletes an address. Deleting the default promotes
// another active address to default when one exists.
func DeleteAddress(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Address ID and User ID are required"})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var address model.Address
		if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", id, req.UserID, true).First(&address).Error; err != nil {
			return err
		}

		var siblings []model.Address
		if err := tx.Where("user_id = ? AND is_active = ?", req.UserID, true).
			Order("created_at ASC").
			Find(&siblings).Error; err != nil {
			return err
		}
		if promoted := promoteAfterDelete(address, siblings); promoted != nil {
			promoted.IsDefault = true
			if err := tx.Save(promoted).Error; err != nil {
				return err
			}
		}

		address.IsDefault = false
		address.IsActive = false
		return tx.Save(&address).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Address not found for deletion", zap.String("address_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Address not found"})
		}
		log.Error("Failed to delete address", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to delete address"})
	}

	log.Info("Address deleted",
		zap.Uint("user_id", req.UserID),
		zap.String("address_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Address deleted successfully",
	})
}

// defaultOnCreate decides whether a newly created address takes the default
// flag. A user's first active address always does.
func defaultOnCreate(activeCount int64, requested bool) bool {
	return activeCount == 0 || requested
}

// promoteAfterDelete picks the address that inherits the default flag when
// one is deleted. Only deleting the default promotes anything; the oldest
// remaining active address wins.
func promoteAfterDelete(deleted model.Address, addresses []model.Address) *model.Address {
	if !deleted.IsDefault {
		return nil
	}
	for i := range addresses {
		if addresses[i].ID != deleted.ID && addresses[i].IsActive {
			return &addresses[i]
		}
	}
	return nil
}
