package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderItemHandler struct {
	useCase usecase.OrderItemUseCase
	log     *logrus.Logger
}

func NewOrderItemHandler(uc usecase.OrderItemUseCase, logger *logrus.Logger) *OrderItemHandler {
	return &OrderItemHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderItemHandler) RegisterRoutes(router gin.IRouter) {
	items := router.Group("/order_items")
	{
		items.POST("", h.CreateOrderItem)
		items.GET("", h.ListOrderItems)
		items.GET("/:id", h.GetOrderItemByID)
	}
}

func (h *OrderItemHandler) CreateOrderItem(c *gin.Context) {
	var ids [3]int
	for i, key := range []string{"order_id", "product_id", "quantity"} {
		n, err := requiredInt(c, key)
		if err != nil {
			h.log.Warnf("Invalid create order item request: %v", err)
			fail(c, "Invalid request body", err)
			return
		}
		ids[i] = n
	}
	orderID, productID, quantity := ids[0], ids[1], ids[2]

	item, err := h.useCase.CreateOrderItem(c.Request.Context(), orderID, productID, quantity)
	if err != nil {
		h.log.Warnf("Failed to add product %d x%d to order %d: %v", productID, quantity, orderID, err)
		fail(c, "Failed to create order item", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Order item created", gin.H{"order_item_id": item.ID})
}

func (h *OrderItemHandler) GetOrderItemByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid order item ID parameter: %s", c.Param("id"))
		fail(c, "Invalid order item ID format", err)
		return
	}

	item, err := h.useCase.GetOrderItemByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get order item by ID %d: %v", id, err)
		fail(c, "Failed to retrieve order item", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order item retrieved successfully", item)
}

func (h *OrderItemHandler) ListOrderItems(c *gin.Context) {
	items, err := h.useCase.ListOrderItems(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list order items: %v", err)
		fail(c, "Failed to retrieve order items", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order items retrieved successfully", items)
}
