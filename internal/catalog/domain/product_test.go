package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInStock(t *testing.T) {
	p := &Product{Stock: 3}

	assert.True(t, p.InStock(1))
	assert.True(t, p.InStock(3))
	assert.False(t, p.InStock(4))
}

func TestInsufficientStockErrorNamesProduct(t *testing.T) {
	err := &InsufficientStockError{ProductID: 1, Name: "Apex Carbon", Requested: 3, Available: 2}

	assert.Contains(t, err.Error(), "Apex Carbon")
	assert.Contains(t, err.Error(), "requested 3")
	assert.Contains(t, err.Error(), "available 2")
}

func TestInsufficientStockErrorMatchesSentinel(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: 1, Requested: 3, Available: 2}

	assert.ErrorIs(t, err, ErrInsufficientStock)

	wrapped := fmt.Errorf("checkout: %w", err)
	assert.ErrorIs(t, wrapped, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(wrapped, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
}
