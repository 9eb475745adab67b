package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NotFoundf("order with id %d", 3), http.StatusNotFound},
		{domain.InvalidArgumentf("quantity must be greater than zero"), http.StatusBadRequest},
		{fmt.Errorf("category 'x' %w", domain.ErrAlreadyExists), http.StatusConflict},
		{fmt.Errorf("product 1: %w", domain.ErrInsufficientStock), http.StatusConflict},
		{fmt.Errorf("category 2 has products and is %w", domain.ErrInUse), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorToStatus(tt.err), tt.err.Error())
	}
}
