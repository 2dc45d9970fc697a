package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/customers/application"
	"ordermgmt/internal/customers/domain"
	"ordermgmt/pkg/errors"
)

// HTTPHandler handles HTTP requests for customers
type HTTPHandler struct {
	useCase *application.CustomerUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CustomerUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the customer routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("/next-number", h.NextCustomerNumber)
		customers.GET("/overdue-payments", h.OverduePayments)
		customers.GET("/:id", h.GetCustomer)
		customers.PATCH("/:id", h.UpdateCustomer)
		customers.POST("/:id/addresses", h.AddAddress)
		customers.POST("/:id/block", h.BlockCustomer)
		customers.POST("/:id/unblock", h.UnblockCustomer)
		customers.POST("/:id/credit-limit", h.AdjustCreditLimit)
		customers.GET("/:id/statistics", h.Statistics)
	}
}

// CreateCustomerRequest is the request body for creating a customer
type CreateCustomerRequest struct {
	CustomerNumber string          `json:"customer_number"`
	CompanyName    string          `json:"company_name"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest is the request body for updating a customer
type UpdateCustomerRequest struct {
	CompanyName *string `json:"company_name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
}

// AddAddressRequest is the request body for adding an address
type AddAddressRequest struct {
	AddressType string `json:"address_type" binding:"required"`
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"is_default"`
}

// ReasonRequest is the request body for block and similar actions
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// AdjustCreditLimitRequest is the request body for credit limit adjustment
type AdjustCreditLimitRequest struct {
	NewLimit decimal.Decimal `json:"new_limit"`
	Reason   string          `json:"reason"`
}

// CustomerResponse is the response body for customer operations
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	CustomerNumber string          `json:"customer_number"`
	CompanyName    string          `json:"company_name,omitempty"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	Email          string          `json:"email,omitempty"`
	Status         string          `json:"status"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Currency       string          `json:"currency"`
	CreatedAt      string          `json:"created_at"`
}

// AddressResponse is the response body for address operations
type AddressResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	AddressType string    `json:"address_type"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Country     string    `json:"country,omitempty"`
	IsDefault   bool      `json:"is_default"`
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		CustomerNumber: c.CustomerNumber,
		CompanyName:    c.CompanyName,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Status:         string(c.Status),
		CreditLimit:    c.CreditLimit,
		Currency:       c.Currency,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toAddressResponse(a *domain.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		AddressType: string(a.AddressType),
		Street:      a.Street,
		City:        a.City,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		IsDefault:   a.IsDefault,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errors.NewValidation("invalid customer id", nil))
		return uuid.Nil, false
	}
	return id, true
}

// CreateCustomer handles POST /customers
func (h *HTTPHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.CreateCustomer(c.Request.Context(), application.CreateCustomerInput{
		CustomerNumber: req.CustomerNumber,
		CompanyName:    req.CompanyName,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		CreditLimit:    req.CreditLimit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toCustomerResponse(output.Customer)})
}

// GetCustomer handles GET /customers/:id
func (h *HTTPHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.GetCustomer(c.Request.Context(), application.GetCustomerInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	addresses := make([]AddressResponse, len(output.Addresses))
	for i, a := range output.Addresses {
		addresses[i] = toAddressResponse(a)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      toCustomerResponse(output.Customer),
		"addresses": addresses,
	})
}

// UpdateCustomer handles PATCH /customers/:id
func (h *HTTPHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.UpdateCustomer(c.Request.Context(), application.UpdateCustomerInput{
		ID:          id,
		CompanyName: req.CompanyName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toCustomerResponse(output.Customer)})
}

// AddAddress handles POST /customers/:id/addresses
func (h *HTTPHandler) AddAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AddAddress(c.Request.Context(), application.AddAddressInput{
		CustomerID:  id,
		AddressType: domain.AddressType(req.AddressType),
		Street:      req.Street,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toAddressResponse(output.Address)})
}

// BlockCustomer handles POST /customers/:id/block
func (h *HTTPHandler) BlockCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	output, err := h.useCase.BlockCustomer(c.Request.Context(), application.BlockCustomerInput{
		ID:     id,
		Reason: req.Reason,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toCustomerResponse(output.Customer)})
}

// UnblockCustomer handles POST /customers/:id/unblock
func (h *HTTPHandler) UnblockCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.UnblockCustomer(c.Request.Context(), application.UnblockCustomerInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toCustomerResponse(output.Customer)})
}

// AdjustCreditLimit handles POST /customers/:id/credit-limit
func (h *HTTPHandler) AdjustCreditLimit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AdjustCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AdjustCreditLimit(c.Request.Context(), application.AdjustCreditLimitInput{
		ID:       id,
		NewLimit: req.NewLimit,
		Reason:   req.Reason,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toCustomerResponse(output.Customer)})
}

// NextCustomerNumber handles GET /customers/next-number
func (h *HTTPHandler) NextCustomerNumber(c *gin.Context) {
	number, err := h.useCase.NextCustomerNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"customer_number": number}})
}

// Statistics handles GET /customers/:id/statistics
func (h *HTTPHandler) Statistics(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.useCase.CustomerStatistics(c.Request.Context(), application.CustomerStatisticsInput{CustomerID: id})
	if err != nil {
		c.Error(err)
		return
	}

	var lastOrderDate string
	if output.LastOrderDate != nil {
		lastOrderDate = output.LastOrderDate.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"total_orders":    output.TotalOrders,
		"total_revenue":   output.TotalRevenue,
		"avg_order_value": output.AvgOrderValue,
		"last_order_date": lastOrderDate,
	}})
}

// OverduePayments handles GET /customers/overdue-payments
func (h *HTTPHandler) OverduePayments(c *gin.Context) {
	customers, err := h.useCase.CustomersWithOverduePayments(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]CustomerResponse, len(customers))
	for i, customer := range customers {
		responses[i] = toCustomerResponse(customer)
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}
