package query

import (
	"context"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
	"github.com/meridianbank/banking/internal/repository"
)

// CustomerQueryService serves customer reads straight from PostgreSQL.
type CustomerQueryService struct {
	customers *repository.CustomerRepository
}

func NewCustomerQueryService(customers *repository.CustomerRepository) *CustomerQueryService {
	return &CustomerQueryService{customers: customers}
}

func (s *CustomerQueryService) GetByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.customers.Get(ctx, customerID)
}

func (s *CustomerQueryService) List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Customer], error) {
	return s.customers.List(ctx, p)
}
