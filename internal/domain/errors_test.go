package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{"not found", NotFoundf("order with id %d", 7), ErrNotFound, "order with id 7 not found"},
		{"invalid", InvalidArgumentf("quantity must be greater than zero"), ErrInvalidArgument, "quantity must be greater than zero"},
		{"stock", fmt.Errorf("product 3: %w", ErrInsufficientStock), ErrConflict, "product 3: insufficient stock"},
		{"duplicate", fmt.Errorf("category 'Tees' %w", ErrAlreadyExists), ErrConflict, "category 'Tees' already exists"},
		{"in use", fmt.Errorf("category 1 is %w", ErrInUse), ErrConflict, "category 1 is still referenced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestErrorKinds_DoNotOverlap(t *testing.T) {
	err := NotFoundf("product with id %d", 1)
	assert.False(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(ErrInsufficientStock, ErrAlreadyExists))
}

func TestOptional(t *testing.T) {
	var absent Optional[string]
	_, ok := absent.Get()
	assert.False(t, ok)
	assert.False(t, absent.IsSet())

	cleared := Some("")
	v, ok := cleared.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)

	assert.True(t, ProductPatch{}.IsEmpty())
	assert.False(t, ProductPatch{Stock: Some(0)}.IsEmpty())
	assert.True(t, CategoryPatch{}.IsEmpty())
	assert.False(t, OrderPatch{Status: Some(StatusPending)}.IsEmpty())
}
