package command

import (
	"context"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/repository"
)

// CustomerCommandService creates customer identity records.
type CustomerCommandService struct {
	customers *repository.CustomerRepository
}

func NewCustomerCommandService(customers *repository.CustomerRepository) *CustomerCommandService {
	return &CustomerCommandService{customers: customers}
}

type CreateCustomerParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

func (s *CustomerCommandService) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*domain.Customer, error) {
	if params.Country == "" {
		params.Country = "USA"
	}
	customer := &domain.Customer{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Phone:     params.Phone,
		Address:   params.Address,
		City:      params.City,
		Country:   params.Country,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer applies a partial update to the customer's identity fields.
func (s *CustomerCommandService) UpdateCustomer(ctx context.Context, customerID int64, upd repository.CustomerUpdate) (*domain.Customer, error) {
	return s.customers.Update(ctx, customerID, upd)
}
