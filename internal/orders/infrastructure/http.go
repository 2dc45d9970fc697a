package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/orders/application"
	"ordermgmt/internal/orders/domain"
	"ordermgmt/pkg/errors"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/next-number", h.NextOrderNumber)
		orders.GET("/statistics", h.OrderStatistics)
		orders.GET("/open", h.OpenOrdersByCustomer)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/confirm", h.ConfirmOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/complete-delivery", h.CompleteDelivery)
		orders.POST("/:id/items", h.AddItem)
		orders.PATCH("/:id/items/:itemId", h.UpdateItem)
		orders.DELETE("/:id/items/:itemId", h.DeleteItem)
	}
}

// OrderItemRequest is one order line in a create or add request
type OrderItemRequest struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	Quantity      int              `json:"quantity" binding:"required"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Discount      *decimal.Decimal `json:"discount"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	UnitOfMeasure string           `json:"unit_of_measure"`
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	OrderNumber string             `json:"order_number"`
	CustomerID  uuid.UUID          `json:"customer_id" binding:"required"`
	OrderDate   *time.Time         `json:"order_date"`
	Items       []OrderItemRequest `json:"items"`
}

// UpdateItemRequest is the request body for updating an order item
type UpdateItemRequest struct {
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  *decimal.Decimal `json:"discount"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
}

// CancelOrderRequest is the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	OrderDate     string              `json:"order_date"`
	Status        string              `json:"status"`
	Currency      string              `json:"currency"`
	NetAmount     decimal.Decimal     `json:"net_amount"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	GrossAmount   decimal.Decimal     `json:"gross_amount"`
	InternalNotes string              `json:"internal_notes,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse is the response body for order items
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ItemNumber        int             `json:"item_number"`
	Quantity          int             `json:"quantity"`
	UnitOfMeasure     string          `json:"unit_of_measure,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	DeliveredQuantity int             `json:"delivered_quantity"`
	DeliveryStatus    string          `json:"delivery_status"`
}

func toOrderResponse(order *domain.Order, items []*domain.OrderItem) OrderResponse {
	response := OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		OrderDate:     order.OrderDate.Format(time.RFC3339),
		Status:        string(order.Status),
		Currency:      order.Currency,
		NetAmount:     order.NetAmount,
		TaxAmount:     order.TaxAmount,
		GrossAmount:   order.GrossAmount,
		InternalNotes: order.InternalNotes,
	}
	for _, item := range items {
		response.Items = append(response.Items, toItemResponse(item))
	}
	return response
}

func toItemResponse(item *domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		ItemNumber:        item.ItemNumber,
		Quantity:          item.Quantity,
		UnitOfMeasure:     item.UnitOfMeasure,
		UnitPrice:         item.UnitPrice,
		Discount:          item.Discount,
		TaxRate:           item.TaxRate,
		NetAmount:         item.NetAmount,
		TaxAmount:         item.TaxAmount,
		DeliveredQuantity: item.DeliveredQuantity,
		DeliveryStatus:    string(item.DeliveryStatus),
	}
}

func parseParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(errors.NewValidation("invalid "+what, nil))
		return uuid.Nil, false
	}
	return id, true
}

func toItemInput(req OrderItemRequest) application.OrderItemInput {
	return application.OrderItemInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Discount:      req.Discount,
		TaxRate:       req.TaxRate,
		UnitOfMeasure: req.UnitOfMeasure,
	}
}

// CreateOrder handles POST /orders
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	input := application.CreateOrderInput{
		OrderNumber: req.OrderNumber,
		CustomerID:  req.CustomerID,
		OrderDate:   req.OrderDate,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, toItemInput(item))
	}

	output, err := h.useCase.CreateOrder(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toOrderResponse(output.Order, output.Items)})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, ok := parseParam(c, "id", "order id")
	if !ok {
		return
	}

	output, err := h.useCase.GetOrder(c.Request.Context(), application.GetOrderInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(output.Order, output.Items)})
}

// ConfirmOrder handles POST /orders/:id/confirm
func (h *HTTPHandler) ConfirmOrder(c *gin.Context) {
	id, ok := parseParam(c, "id", "order id")
	if !ok {
		return
	}

	output, err := h.useCase.ConfirmOrder(c.Request.Context(), application.ConfirmOrderInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(output.Order, nil)})
}

// CancelOrder handles POST /orders/:id/cancel
func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	id, ok := parseParam(c, "id", "order id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidation("invalid request body", err.Error()))
			return
		}
	}

	output, err := h.useCase.CancelOrder(c.Request.Context(), application.CancelOrderInput{
		ID:     id,
		Reason: req.Reason,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(output.Order, nil)})
}

// CompleteDelivery handles POST /orders/:id/complete-delivery
func (h *HTTPHandler) CompleteDelivery(c *gin.Context) {
	id, ok := parseParam(c, "id", "order id")
	if !ok {
		return
	}

	output, err := h.useCase.CompleteDelivery(c.Request.Context(), application.CompleteDeliveryInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toOrderResponse(output.Order, output.Items)})
}

// AddItem handles POST /orders/:id/items
func (h *HTTPHandler) AddItem(c *gin.Context) {
	id, ok := parseParam(c, "id", "order id")
	if !ok {
		return
	}

	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AddItem(c.Request.Context(), application.AddItemInput{
		OrderID: id,
		Item:    toItemInput(req),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"item":         toItemResponse(output.Item),
		"net_amount":   output.Totals.Net,
		"tax_amount":   output.Totals.Tax,
		"gross_amount": output.Totals.Gross,
	}})
}

// UpdateItem handles PATCH /orders/:id/items/:itemId
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseParam(c, "itemId", "item id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.UpdateItem(c.Request.Context(), application.UpdateItemInput{
		ItemID:    itemID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Discount:  req.Discount,
		TaxRate:   req.TaxRate,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"item":         toItemResponse(output.Item),
		"net_amount":   output.Totals.Net,
		"tax_amount":   output.Totals.Tax,
		"gross_amount": output.Totals.Gross,
	}})
}

// DeleteItem handles DELETE /orders/:id/items/:itemId
func (h *HTTPHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseParam(c, "itemId", "item id")
	if !ok {
		return
	}

	output, err := h.useCase.DeleteItem(c.Request.Context(), application.DeleteItemInput{ItemID: itemID})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"net_amount":   output.Totals.Net,
		"tax_amount":   output.Totals.Tax,
		"gross_amount": output.Totals.Gross,
	}})
}

// OpenOrdersByCustomer handles GET /orders/open
func (h *HTTPHandler) OpenOrdersByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid or missing customer_id", nil))
		return
	}

	orders, err := h.useCase.OpenOrdersByCustomer(c.Request.Context(),
		application.OpenOrdersByCustomerInput{CustomerID: customerID})
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = toOrderResponse(order, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// NextOrderNumber handles GET /orders/next-number
func (h *HTTPHandler) NextOrderNumber(c *gin.Context) {
	number, err := h.useCase.NextOrderNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"order_number": number}})
}

// OrderStatistics handles GET /orders/statistics
func (h *HTTPHandler) OrderStatistics(c *gin.Context) {
	stats, err := h.useCase.OrderStatistics(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"total_orders":    stats.TotalOrders,
		"open_orders":     stats.OpenOrders,
		"total_revenue":   stats.TotalRevenue,
		"avg_order_value": stats.AvgOrderValue,
	}})
}
