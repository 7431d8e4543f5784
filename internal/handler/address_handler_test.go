package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func TestDefaultOnCreate(t *testing.T) {
	tests := []struct {
		name        string
		activeCount int64
		requested   bool
		expected    bool
	}{
		{"first active address always defaults", 0, false, true},
		{"first active address with flag", 0, true, true},
		{"later address without flag", 2, false, false},
		{"later address with flag", 2, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, defaultOnCreate(tt.activeCount, tt.requested))
		})
	}
}

func TestPromoteAfterDelete(t *testing.T) {
	t.Run("deleting the default promotes the oldest active sibling", func(t *testing.T) {
		deleted := model.Address{ID: 1, IsDefault: true, IsActive: true}
		siblings := []model.Address{
			{ID: 1, IsDefault: true, IsActive: true},
			{ID: 2, IsActive: true},
			{ID: 3, IsActive: true},
		}

		promoted := promoteAfterDelete(deleted, siblings)
		require.NotNil(t, promoted)
		assert.Equal(t, uint(2), promoted.ID)
	})

	t.Run("deleting a non-default promotes nothing", func(t *testing.T) {
		deleted := model.Address{ID: 2, IsActive: true}
		siblings := []model.Address{
			{ID: 1, IsDefault: true, IsActive: true},
			{ID: 2, IsActive: true},
		}

		assert.Nil(t, promoteAfterDelete(deleted, siblings))
	})

	t.Run("no remaining active sibling leaves no default", func(t *testing.T) {
		deleted := model.Address{ID: 1, IsDefault: true, IsActive: true}
		siblings := []model.Address{
			{ID: 1, IsDefault: true, IsActive: true},
		}

		assert.Nil(t, promoteAfterDelete(deleted, siblings))
	})

	t.Run("inactive siblings are skipped", func(t *testing.T) {
		deleted := model.Address{ID: 1, IsDefault: true, IsActive: true}
		siblings := []model.Address{
			{ID: 1, IsDefault: true, IsActive: true},
			{ID: 2, IsActive: false},
			{ID: 3, IsActive: true},
		}

		promoted := promoteAfterDelete(deleted, siblings)
		require.NotNil(t, promoted)
		assert.Equal(t, uint(3), promoted.ID)
	})
}
