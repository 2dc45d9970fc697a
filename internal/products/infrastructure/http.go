package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/products/application"
	"ordermgmt/internal/products/domain"
	"ordermgmt/pkg/errors"
)

// HTTPHandler handles HTTP requests for products
type HTTPHandler struct {
	useCase *application.ProductUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ProductUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the product routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("/next-number", h.NextProductNumber)
		products.GET("/low-stock", h.LowStockProducts)
		products.GET("/:id", h.GetProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.POST("/:id/adjust-stock", h.AdjustStock)
		products.POST("/:id/activate", h.Activate)
		products.POST("/:id/deactivate", h.Deactivate)
		products.GET("/:id/price-history", h.PriceHistory)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	ProductNumber string           `json:"product_number"`
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	BasePrice     decimal.Decimal  `json:"base_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	UnitOfMeasure string           `json:"unit_of_measure"`
	StockQuantity int              `json:"stock_quantity"`
	MinStockLevel int              `json:"min_stock_level"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	BasePrice     *decimal.Decimal `json:"base_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	MinStockLevel *int             `json:"min_stock_level"`
}

// AdjustStockRequest is the request body for stock adjustment
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductNumber string          `json:"product_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	BasePrice     decimal.Decimal `json:"base_price"`
	Currency      string          `json:"currency"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at"`
}

// PriceHistoryResponse is the response body for price history entries
type PriceHistoryResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	ValidFrom string          `json:"valid_from"`
	ValidTo   string          `json:"valid_to"`
	ChangedBy string          `json:"changed_by"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		ProductNumber: p.ProductNumber,
		Name:          p.Name,
		Description:   p.Description,
		BasePrice:     p.BasePrice,
		Currency:      p.Currency,
		TaxRate:       p.TaxRate,
		UnitOfMeasure: p.UnitOfMeasure,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid product id", nil))
		return uuid.Nil, false
	}
	return id, true
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.CreateProduct(c.Request.Context(), application.CreateProductInput{
		ProductNumber: req.ProductNumber,
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     req.BasePrice,
		TaxRate:       req.TaxRate,
		UnitOfMeasure: req.UnitOfMeasure,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toProductResponse(output.Product)})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.GetProduct(c.Request.Context(), application.GetProductInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProductResponse(output.Product)})
}

// UpdateProduct handles PATCH /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.UpdateProduct(c.Request.Context(), application.UpdateProductInput{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		BasePrice:     req.BasePrice,
		TaxRate:       req.TaxRate,
		UnitOfMeasure: req.UnitOfMeasure,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProductResponse(output.Product)})
}

// AdjustStock handles POST /products/:id/adjust-stock
func (h *HTTPHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AdjustStock(c.Request.Context(), application.AdjustStockInput{
		ID:       id,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProductResponse(output.Product)})
}

// Activate handles POST /products/:id/activate
func (h *HTTPHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.Activate(c.Request.Context(), application.SetActiveInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProductResponse(output.Product)})
}

// Deactivate handles POST /products/:id/deactivate
func (h *HTTPHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.Deactivate(c.Request.Context(), application.SetActiveInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toProductResponse(output.Product)})
}

// LowStockProducts handles GET /products/low-stock
func (h *HTTPHandler) LowStockProducts(c *gin.Context) {
	products, err := h.useCase.LowStockProducts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = toProductResponse(product)
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// PriceHistory handles GET /products/:id/price-history
func (h *HTTPHandler) PriceHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entries, err := h.useCase.PriceHistory(c.Request.Context(), application.PriceHistoryInput{ProductID: id})
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]PriceHistoryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = PriceHistoryResponse{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			Price:     entry.Price,
			Currency:  entry.Currency,
			ValidFrom: entry.ValidFrom.Format(time.RFC3339),
			ValidTo:   entry.ValidTo.Format(time.RFC3339),
			ChangedBy: entry.ChangedBy,
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// NextProductNumber handles GET /products/next-number
func (h *HTTPHandler) NextProductNumber(c *gin.Context) {
	number, err := h.useCase.NextProductNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"product_number": number}})
}
