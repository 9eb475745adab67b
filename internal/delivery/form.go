package delivery

import (
	"strconv"
	"strings"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Request bodies are form-encoded (urlencoded or multipart). A field is
// "provided" when its key is present, even with an empty value.

func pathID(c *gin.Context) (int, error) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, domain.InvalidArgumentf("invalid id %q", idStr)
	}
	return id, nil
}

func formString(c *gin.Context, key string) domain.Optional[string] {
	if v, ok := c.GetPostForm(key); ok {
		return domain.Some(v)
	}
	return domain.Optional[string]{}
}

func formInt(c *gin.Context, key string) (domain.Optional[int], error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Optional[int]{}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return domain.Optional[int]{}, domain.InvalidArgumentf("%s must be an integer, got %q", key, v)
	}
	return domain.Some(n), nil
}

func formDecimal(c *gin.Context, key string) (domain.Optional[decimal.Decimal], error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return domain.Optional[decimal.Decimal]{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return domain.Optional[decimal.Decimal]{}, domain.InvalidArgumentf("%s must be a number, got %q", key, v)
	}
	return domain.Some(d), nil
}

func requiredString(c *gin.Context, key string) (string, error) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return "", domain.InvalidArgumentf("%s is required", key)
	}
	return v, nil
}

func requiredInt(c *gin.Context, key string) (int, error) {
	n, err := formInt(c, key)
	if err != nil {
		return 0, err
	}
	if !n.IsSet() {
		return 0, domain.InvalidArgumentf("%s is required", key)
	}
	return n.Value(), nil
}

func requiredDecimal(c *gin.Context, key string) (decimal.Decimal, error) {
	d, err := formDecimal(c, key)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsSet() {
		return decimal.Zero, domain.InvalidArgumentf("%s is required", key)
	}
	return d.Value(), nil
}

// textPtr maps an absent or empty optional text field to nil.
func textPtr(o domain.Optional[string]) *string {
	if v, ok := o.Get(); ok && v != "" {
		return &v
	}
	return nil
}
