package delivery

import (
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
	router.GET("/categories/:id/products", h.ListProductsByCategory)
}

// productForm reads the create form. Stock defaults to 0.
func productForm(c *gin.Context) (*domain.Product, error) {
	name, err := requiredString(c, "name")
	if err != nil {
		return nil, err
	}
	price, err := requiredDecimal(c, "price")
	if err != nil {
		return nil, err
	}
	categoryID, err := requiredInt(c, "category_id")
	if err != nil {
		return nil, err
	}
	stock, err := formInt(c, "stock")
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		Name:        name,
		Description: textPtr(formString(c, "description")),
		Price:       price,
		Stock:       stock.Value(),
		ImageURL:    textPtr(formString(c, "image_url")),
		CategoryID:  categoryID,
	}, nil
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	product, err := productForm(c)
	if err != nil {
		h.log.Warnf("Invalid create product request: %v", err)
		fail(c, "Invalid request body", err)
		return
	}

	created, err := h.useCase.CreateProduct(c.Request.Context(), product)
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		fail(c, "Failed to create product", err)
		return
	}

	h.log.Infof("Product created successfully: ID %d, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Product created", gin.H{"product_id": created.ID})
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("id"))
		fail(c, "Invalid product ID format", err)
		return
	}

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product by ID %d: %v", id, err)
		fail(c, "Failed to retrieve product", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid product ID parameter for update: %s", c.Param("id"))
		fail(c, "Invalid product ID format", err)
		return
	}

	price, err := formDecimal(c, "price")
	if err != nil {
		fail(c, "Invalid request body", err)
		return
	}
	stock, err := formInt(c, "stock")
	if err != nil {
		fail(c, "Invalid request body", err)
		return
	}
	patch := domain.ProductPatch{
		Name:        formString(c, "name"),
		Description: formString(c, "description"),
		Price:       price,
		Stock:       stock,
		ImageURL:    formString(c, "image_url"),
	}

	updated, err := h.useCase.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Errorf("Failed to update product ID %d: %v", id, err)
		fail(c, "Failed to update product", err)
		return
	}

	h.log.Infof("Product updated successfully: ID %d", updated.ID)
	SuccessResponse(c, http.StatusOK, "Product updated", gin.H{"product_id": updated.ID})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid product ID parameter for delete: %s", c.Param("id"))
		fail(c, "Invalid product ID format", err)
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %d: %v", id, err)
		fail(c, "Failed to delete product", err)
		return
	}

	h.log.Infof("Product deleted successfully: ID %d", id)
	SuccessResponse(c, http.StatusOK, "Product deleted", nil)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		fail(c, "Failed to retrieve products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid category ID parameter: %s", c.Param("id"))
		fail(c, "Invalid category ID format", err)
		return
	}

	products, err := h.useCase.ListProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.log.Errorf("Failed to list products for category %d: %v", categoryID, err)
		fail(c, "Failed to retrieve products", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}
