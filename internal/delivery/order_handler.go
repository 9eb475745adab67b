package delivery

import (
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase usecase.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrderByID)
		orders.PATCH("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	customerName, err := requiredString(c, "customer_name")
	if err != nil {
		h.log.Warnf("Invalid create order request: %v", err)
		fail(c, "Invalid request body", err)
		return
	}

	order, err := h.useCase.CreateOrder(c.Request.Context(), &domain.Order{CustomerName: customerName})
	if err != nil {
		h.log.Errorf("Failed to create order for '%s': %v", customerName, err)
		fail(c, "Failed to create order", err)
		return
	}

	h.log.Infof("Order %d created successfully for '%s'", order.ID, order.CustomerName)
	SuccessResponse(c, http.StatusCreated, "Order created", gin.H{"order_id": order.ID})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid order ID parameter: %s", c.Param("id"))
		fail(c, "Invalid order ID format", err)
		return
	}

	order, err := h.useCase.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get order by ID %d: %v", id, err)
		fail(c, "Failed to retrieve order", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid order ID parameter for update: %s", c.Param("id"))
		fail(c, "Invalid order ID format", err)
		return
	}

	var patch domain.OrderPatch
	if status, ok := formString(c, "status").Get(); ok {
		patch.Status = domain.Some(domain.OrderStatus(status))
	}

	updated, err := h.useCase.UpdateOrder(c.Request.Context(), id, patch)
	if err != nil {
		h.log.Errorf("Failed to update order ID %d: %v", id, err)
		fail(c, "Failed to update order", err)
		return
	}

	h.log.Infof("Order %d status is now '%s'", updated.ID, updated.Status)
	SuccessResponse(c, http.StatusOK, "Order updated", gin.H{"order_id": updated.ID})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.log.Warnf("Invalid order ID parameter for delete: %s", c.Param("id"))
		fail(c, "Invalid order ID format", err)
		return
	}

	if err := h.useCase.DeleteOrder(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete order ID %d: %v", id, err)
		fail(c, "Failed to delete order", err)
		return
	}

	h.log.Infof("Order deleted successfully: ID %d", id)
	SuccessResponse(c, http.StatusOK, "Order deleted", nil)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.useCase.ListOrders(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		fail(c, "Failed to retrieve orders", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}
