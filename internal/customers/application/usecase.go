package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordermgmt/internal/customers/domain"
	"ordermgmt/internal/customers/ports"
	"ordermgmt/pkg/errors"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/sequence"
)

// Order statuses that count as completed revenue for statistics
var completedOrderStatuses = map[string]bool{
	"DELIVERED": true,
	"COMPLETED": true,
}

// CustomerUseCase handles customer business logic
type CustomerUseCase struct {
	repo        ports.CustomerRepository
	orders      ports.OrderReader
	publisher   ports.EventPublisher
	log         *logger.Logger
	seqAttempts int
}

// NewCustomerUseCase creates a new customer use case
func NewCustomerUseCase(
	repo ports.CustomerRepository,
	orders ports.OrderReader,
	publisher ports.EventPublisher,
	log *logger.Logger,
	sequenceRetries int,
) *CustomerUseCase {
	if sequenceRetries < 1 {
		sequenceRetries = 1
	}
	return &CustomerUseCase{
		repo:        repo,
		orders:      orders,
		publisher:   publisher,
		log:         log,
		seqAttempts: sequenceRetries,
	}
}

// CreateCustomerInput represents the input for creating a customer
type CreateCustomerInput struct {
	CustomerNumber string // assigned from the sequence when empty
	CompanyName    string
	FirstName      string
	LastName       string
	Email          string
	CreditLimit    decimal.Decimal
}

// CreateCustomerOutput represents the output of creating a customer
type CreateCustomerOutput struct {
	Customer *domain.Customer
}

// CreateCustomer creates a new customer, assigning the next customer number
// when none is supplied. Number uniqueness is enforced by the store; on a
// collision with a concurrent creation the number is re-derived and the
// insert retried.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CreateCustomerOutput, error) {
	customer, err := domain.NewCustomer(input.CompanyName, input.FirstName, input.LastName, input.Email, input.CreditLimit)
	if err != nil {
		return nil, err
	}

	assignNumber := input.CustomerNumber == ""
	customer.CustomerNumber = input.CustomerNumber

	for attempt := 0; attempt < uc.seqAttempts; attempt++ {
		if assignNumber {
			highest, err := uc.repo.HighestCustomerNumber(ctx)
			if err != nil {
				return nil, err
			}
			customer.CustomerNumber, err = sequence.NextCustomerNumber(highest)
			if err != nil {
				return nil, err
			}
		}

		err = uc.repo.Create(ctx, customer)
		if err == nil {
			break
		}
		if assignNumber && errors.Is(err, errors.CodeConflict) {
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to assign customer number")
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishCustomerCreated(ctx, customer); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish customer created event",
				zap.Error(err),
				zap.String("customer_number", customer.CustomerNumber),
			)
		}
	}

	uc.log.WithContext(ctx).Info("customer created",
		zap.String("customer_number", customer.CustomerNumber),
	)

	return &CreateCustomerOutput{Customer: customer}, nil
}

// GetCustomerInput represents the input for getting a customer
type GetCustomerInput struct {
	ID uuid.UUID
}

// GetCustomerOutput represents the output of getting a customer
type GetCustomerOutput struct {
	Customer  *domain.Customer
	Addresses []*domain.Address
}

// GetCustomer retrieves a customer with its addresses
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, input GetCustomerInput) (*GetCustomerOutput, error) {
	customer, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	addresses, err := uc.repo.ListAddresses(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetCustomerOutput{Customer: customer, Addresses: addresses}, nil
}

// UpdateCustomerInput represents the input for updating a customer.
// Nil fields are left unchanged.
type UpdateCustomerInput struct {
	ID          uuid.UUID
	CompanyName *string
	FirstName   *string
	LastName    *string
	Email       *string
}

// UpdateCustomerOutput represents the output of updating a customer
type UpdateCustomerOutput struct {
	Customer *domain.Customer
}

// UpdateCustomer applies the supplied fields after validation
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*UpdateCustomerOutput, error) {
	customer, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CompanyName != nil {
		customer.CompanyName = *input.CompanyName
	}
	if input.FirstName != nil {
		customer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		customer.LastName = *input.LastName
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return &UpdateCustomerOutput{Customer: customer}, nil
}

// AddAddressInput represents the input for adding a customer address
type AddAddressInput struct {
	CustomerID  uuid.UUID
	AddressType domain.AddressType
	Street      string
	City        string
	PostalCode  string
	Country     string
	IsDefault   bool
}

// AddAddressOutput represents the output of adding an address
type AddAddressOutput struct {
	Address *domain.Address
}

// AddAddress creates an address. When the new address is the default, every
// other address of the same customer and type loses its default flag within
// the same transaction.
func (uc *CustomerUseCase) AddAddress(ctx context.Context, input AddAddressInput) (*AddAddressOutput, error) {
	if _, err := uc.repo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	address, err := domain.NewAddress(input.CustomerID, input.AddressType,
		input.Street, input.City, input.PostalCode, input.Country, input.IsDefault)
	if err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(repo ports.CustomerRepository) error {
		if err := repo.CreateAddress(ctx, address); err != nil {
			return err
		}
		if address.IsDefault {
			return repo.ClearOtherDefaults(ctx, address.CustomerID, address.ID, address.AddressType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AddAddressOutput{Address: address}, nil
}

// AdjustCreditLimitInput represents the input for adjusting a credit limit
type AdjustCreditLimitInput struct {
	ID       uuid.UUID
	NewLimit decimal.Decimal
	Reason   string
}

// AdjustCreditLimitOutput represents the output of adjusting a credit limit
type AdjustCreditLimitOutput struct {
	Customer *domain.Customer
}

// AdjustCreditLimit overwrites the credit limit after validation and writes
// an audit log entry with the previous and new value.
func (uc *CustomerUseCase) AdjustCreditLimit(ctx context.Context, input AdjustCreditLimitInput) (*AdjustCreditLimitOutput, error) {
	if input.NewLimit.IsNegative() {
		return nil, domain.ErrNegativeCreditLimit
	}

	customer, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "no reason given"
	}

	uc.log.WithContext(ctx).Info("credit limit adjusted",
		zap.String("customer_number", customer.CustomerNumber),
		zap.String("old_limit", customer.CreditLimit.String()),
		zap.String("new_limit", input.NewLimit.String()),
		zap.String("reason", reason),
		zap.String("changed_by", logger.GetUserID(ctx)),
	)

	customer.CreditLimit = input.NewLimit
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return &AdjustCreditLimitOutput{Customer: customer}, nil
}

// BlockCustomerInput represents the input for blocking a customer
type BlockCustomerInput struct {
	ID     uuid.UUID
	Reason string
}

// BlockCustomerOutput represents the output of blocking a customer
type BlockCustomerOutput struct {
	Customer *domain.Customer
}

// BlockCustomer marks the customer as blocked
func (uc *CustomerUseCase) BlockCustomer(ctx context.Context, input BlockCustomerInput) (*BlockCustomerOutput, error) {
	customer, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "no reason given"
	}

	uc.log.WithContext(ctx).Info("customer blocked",
		zap.String("customer_number", customer.CustomerNumber),
		zap.String("reason", reason),
	)

	customer.Block()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishCustomerBlocked(ctx, customer); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish customer blocked event",
				zap.Error(err),
				zap.String("customer_number", customer.CustomerNumber),
			)
		}
	}

	return &BlockCustomerOutput{Customer: customer}, nil
}

// UnblockCustomerInput represents the input for unblocking a customer
type UnblockCustomerInput struct {
	ID uuid.UUID
}

// UnblockCustomerOutput represents the output of unblocking a customer
type UnblockCustomerOutput struct {
	Customer *domain.Customer
}

// UnblockCustomer marks the customer as active again
func (uc *CustomerUseCase) UnblockCustomer(ctx context.Context, input UnblockCustomerInput) (*UnblockCustomerOutput, error) {
	customer, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	customer.Unblock()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return &UnblockCustomerOutput{Customer: customer}, nil
}

// NextCustomerNumber returns the number the next customer would receive.
// The number is not reserved; assignment happens on creation.
func (uc *CustomerUseCase) NextCustomerNumber(ctx context.Context) (string, error) {
	highest, err := uc.repo.HighestCustomerNumber(ctx)
	if err != nil {
		return "", err
	}
	return sequence.NextCustomerNumber(highest)
}

// CustomerStatisticsInput represents the input for customer statistics
type CustomerStatisticsInput struct {
	CustomerID uuid.UUID
}

// CustomerStatisticsOutput aggregates a customer's order history
type CustomerStatisticsOutput struct {
	TotalOrders   int
	TotalRevenue  decimal.Decimal
	AvgOrderValue decimal.Decimal
	LastOrderDate *time.Time
}

// CustomerStatistics computes order count, completed revenue and average
// order value for one customer
func (uc *CustomerUseCase) CustomerStatistics(ctx context.Context, input CustomerStatisticsInput) (*CustomerStatisticsOutput, error) {
	if _, err := uc.repo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	orders, err := uc.orders.ListByCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	out := &CustomerStatisticsOutput{
		TotalOrders:   len(orders),
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}

	completed := 0
	for _, order := range orders {
		if completedOrderStatuses[order.Status] {
			out.TotalRevenue = out.TotalRevenue.Add(order.GrossAmount)
			completed++
		}
		if out.LastOrderDate == nil || order.OrderDate.After(*out.LastOrderDate) {
			orderDate := order.OrderDate
			out.LastOrderDate = &orderDate
		}
	}

	out.TotalRevenue = out.TotalRevenue.Round(2)
	if completed > 0 {
		out.AvgOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}

	return out, nil
}

// CustomersWithOverduePayments would query the accounting system for
// customers with overdue invoices. No accounting integration exists, so
// the result is empty by design.
func (uc *CustomerUseCase) CustomersWithOverduePayments(ctx context.Context) ([]*domain.Customer, error) {
	return []*domain.Customer{}, nil
}
