package handler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDuplicateEmail(t *testing.T) {
	assert.True(t, duplicateEmail(gorm.ErrDuplicatedKey))
	assert.True(t, duplicateEmail(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)))
	assert.False(t, duplicateEmail(gorm.ErrRecordNotFound))
	assert.False(t, duplicateEmail(nil))
}
