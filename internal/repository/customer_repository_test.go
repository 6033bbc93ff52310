package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/meridianbank/banking/internal/domain"
)

// stubRow feeds canned column values through the rowScanner contract.
type stubRow struct {
	values []any
}

func (r *stubRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = r.values[i].(int64)
		case *string:
			*v = r.values[i].(string)
		case *sql.NullString:
			*v = r.values[i].(sql.NullString)
		case *time.Time:
			*v = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanCustomerRowNullContactFields(t *testing.T) {
	now := time.Now().UTC()
	row := &stubRow{values: []any{
		int64(3), "Jordan", "Avery", "jordan.avery@example.com",
		sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{},
		now, now,
	}}

	c, err := scanCustomerRow(row)
	if err != nil {
		t.Fatalf("scanCustomerRow: %v", err)
	}
	if c.ID != 3 || c.FirstName != "Jordan" || c.Email != "jordan.avery@example.com" {
		t.Errorf("identity fields = %d/%q/%q", c.ID, c.FirstName, c.Email)
	}
	if c.Phone != "" || c.Address != "" || c.City != "" || c.Country != "" {
		t.Errorf("null contact fields not empty: %q/%q/%q/%q", c.Phone, c.Address, c.City, c.Country)
	}
}

func TestCustomerUpdateNoFields(t *testing.T) {
	r := NewCustomerRepository(nil)
	_, err := r.Update(context.Background(), 1, CustomerUpdate{})
	if !errors.Is(err, domain.ErrNoFieldsToUpdate) {
		t.Errorf("err = %v, want ErrNoFieldsToUpdate", err)
	}
}

func TestScanCustomerRowPopulatedContactFields(t *testing.T) {
	now := time.Now().UTC()
	row := &stubRow{values: []any{
		int64(4), "Sam", "Reyes", "sam.reyes@example.com",
		sql.NullString{String: "555-0101", Valid: true},
		sql.NullString{String: "12 Elm St", Valid: true},
		sql.NullString{String: "Austin", Valid: true},
		sql.NullString{String: "USA", Valid: true},
		now, now,
	}}

	c, err := scanCustomerRow(row)
	if err != nil {
		t.Fatalf("scanCustomerRow: %v", err)
	}
	if c.Phone != "555-0101" || c.Address != "12 Elm St" || c.City != "Austin" || c.Country != "USA" {
		t.Errorf("contact fields = %q/%q/%q/%q", c.Phone, c.Address, c.City, c.Country)
	}
}
