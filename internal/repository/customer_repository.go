package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
)

const customerColumns = `id, first_name, last_name, email, phone, address, city, country, created_at, updated_at`

// CustomerRepository persists customer identity records. Customers sit
// outside the money-movement path entirely.
type CustomerRepository struct {
	q dbtx
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// CustomerUpdate carries the fields of a partial update; nil means leave
// the stored value alone.
type CustomerUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	Country   *string
}

func (u CustomerUpdate) fields() []struct {
	column string
	value  *string
} {
	return []struct {
		column string
		value  *string
	}{
		{"first_name", u.FirstName},
		{"last_name", u.LastName},
		{"email", u.Email},
		{"phone", u.Phone},
		{"address", u.Address},
		{"city", u.City},
		{"country", u.Country},
	}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (first_name, last_name, email, phone, address, city, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, query,
		customer.FirstName, customer.LastName, customer.Email,
		customer.Phone, customer.Address, customer.City, customer.Country,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomerRow(r.q.QueryRowContext(ctx, query, customerID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// Update applies the set fields of upd in one UPDATE. With no fields set it
// fails with domain.ErrNoFieldsToUpdate.
func (r *CustomerRepository) Update(ctx context.Context, customerID int64, upd CustomerUpdate) (*domain.Customer, error) {
	set := ""
	var args []any
	for _, f := range upd.fields() {
		if f.value == nil {
			continue
		}
		args = append(args, *f.value)
		set += fmt.Sprintf("%s = $%d, ", f.column, len(args))
	}
	if len(args) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	args = append(args, customerID)
	query := fmt.Sprintf(
		`UPDATE customers SET %supdated_at = NOW() WHERE id = $%d RETURNING %s`,
		set, len(args), customerColumns,
	)

	c, err := scanCustomerRow(r.q.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Customer], error) {
	p = p.Normalize()

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return pagination.NewPage(customers, p, total), nil
}

// scanCustomerRow reads one customers row. Contact columns are nullable in
// the schema, so they go through sql.NullString.
func scanCustomerRow(row rowScanner) (*domain.Customer, error) {
	var (
		c       domain.Customer
		phone   sql.NullString
		address sql.NullString
		city    sql.NullString
		country sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email,
		&phone, &address, &city, &country, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.Address = address.String
	c.City = city.String
	c.Country = country.String
	return &c, nil
}
