package delivery

import (
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategoryByID)
		categories.PATCH("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	name, err := requiredString(c, "name")
	if err != nil {
		h.log.Warnf("Invalid create category request: %v", err)
		fail(c, "Invalid request body", err)
		return
	}

	category := domain.Category{
		Name:        name,
		Description: textPtr(formString(c, "description")),
	}
	created, err := h.useCase.CreateCategory(c.Request.Context(), &category)
	if err != nil {
		h.log.Errorf("Failed to create category '%s': %v", name, err)
		fail(c, "Failed to create category", err)
		return
	}

	h.log.Infof("Category created successfully: ID %d, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Category created", gin.H{"category_id": created.ID})
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid category ID parameter: %s", c.Param("id"))
		fail(c, "Invalid category ID format", err)
		return
	}

	category, err := h.useCase.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get category by ID %d: %v", id, err)
		fail(c, "Failed to retrieve category", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid category ID parameter for update: %s", c.Param("id"))
		fail(c, "Invalid category ID format", err)
		return
	}

	patch := domain.CategoryPatch{
		Name:        formString(c, "name"),
		Description: formString(c, "description"),
	}
	updated, err := h.useCase.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Errorf("Failed to update category ID %d: %v", id, err)
		fail(c, "Failed to update category", err)
		return
	}

	h.log.Infof("Category updated successfully: ID %d", updated.ID)
	SuccessResponse(c, http.StatusOK, "Category updated", gin.H{"category_id": updated.ID})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid category ID parameter for delete: %s", c.Param("id"))
		fail(c, "Invalid category ID format", err)
		return
	}

	if err := h.useCase.DeleteCategory(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete category ID %d: %v", id, err)
		fail(c, "Failed to delete category", err)
		return
	}

	h.log.Infof("Category deleted successfully: ID %d", id)
	SuccessResponse(c, http.StatusOK, "Category deleted", nil)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		fail(c, "Failed to retrieve categories", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}
