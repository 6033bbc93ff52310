package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
)

type mockAccountCommander struct {
	createFn    func(ctx context.Context, params command.CreateAccountParams) (*domain.Account, error)
	closeFn     func(ctx context.Context, accountID int64) (*domain.Account, error)
	setStatusFn func(ctx context.Context, accountID int64, status string) (*domain.Account, error)
}

func (m *mockAccountCommander) CreateAccount(ctx context.Context, params command.CreateAccountParams) (*domain.Account, error) {
	return m.createFn(ctx, params)
}

func (m *mockAccountCommander) CloseAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	return m.closeFn(ctx, accountID)
}

func (m *mockAccountCommander) SetAccountStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error) {
	return m.setStatusFn(ctx, accountID, status)
}

type mockAccountQuerier struct {
	getFn        func(ctx context.Context, accountID int64) (*domain.Account, error)
	byNumberFn   func(ctx context.Context, accountNumber string) (*domain.Account, error)
	listFn       func(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error)
	byCustomerFn func(ctx context.Context, customerID int64) ([]domain.Account, error)
}

func (m *mockAccountQuerier) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return m.getFn(ctx, accountID)
}

func (m *mockAccountQuerier) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return m.byNumberFn(ctx, accountNumber)
}

func (m *mockAccountQuerier) List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error) {
	return m.listFn(ctx, p)
}

func (m *mockAccountQuerier) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return m.byCustomerFn(ctx, customerID)
}

func TestAccountHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       any
		createErr  error
		wantStatus int
	}{
		{
			name:       "success",
			body:       CreateAccountRequest{CustomerID: 1, AccountType: domain.AccountChecking, InitialDeposit: decimal.NewFromInt(1000)},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown account type",
			body:       map[string]any{"customerId": 1, "accountType": "offshore"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing customer id",
			body:       map[string]any{"accountType": "savings"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown customer",
			body:       CreateAccountRequest{CustomerID: 42, AccountType: domain.AccountSavings},
			createErr:  domain.ErrCustomerNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "negative initial deposit",
			body:       CreateAccountRequest{CustomerID: 1, AccountType: domain.AccountChecking, InitialDeposit: decimal.NewFromInt(-5)},
			createErr:  domain.ErrInvalidAmount,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands := &mockAccountCommander{
				createFn: func(ctx context.Context, params command.CreateAccountParams) (*domain.Account, error) {
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					return &domain.Account{
						ID:            1,
						AccountNumber: "ACC0000000001",
						CustomerID:    params.CustomerID,
						AccountType:   params.AccountType,
						Balance:       params.InitialDeposit,
						Status:        domain.StatusActive,
					}, nil
				},
			}
			h := NewAccountHandler(commands, &mockAccountQuerier{})
			router := gin.New()
			router.POST("/accounts", h.Create)

			w := performRequest(router, http.MethodPost, "/accounts", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAccountHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	queries := &mockAccountQuerier{
		getFn: func(ctx context.Context, accountID int64) (*domain.Account, error) {
			if accountID != 1 {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: 1, Status: domain.StatusActive}, nil
		},
	}
	h := NewAccountHandler(&mockAccountCommander{}, queries)
	router := gin.New()
	router.GET("/accounts/:id", h.Get)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/accounts/1", http.StatusOK},
		{"not found", "/accounts/2", http.StatusNotFound},
		{"non-numeric id", "/accounts/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAccountHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotStatus string
	commands := &mockAccountCommander{
		setStatusFn: func(ctx context.Context, accountID int64, status string) (*domain.Account, error) {
			gotStatus = status
			return &domain.Account{ID: accountID, Status: status}, nil
		},
	}
	h := NewAccountHandler(commands, &mockAccountQuerier{})
	router := gin.New()
	router.PATCH("/accounts/:id/status", h.UpdateStatus)

	w := performRequest(router, http.MethodPatch, "/accounts/1/status",
		UpdateAccountStatusRequest{Status: domain.StatusSuspended})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if gotStatus != domain.StatusSuspended {
		t.Errorf("service got status %q, want suspended", gotStatus)
	}

	w = performRequest(router, http.MethodPatch, "/accounts/1/status",
		map[string]any{"status": "frozen"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown status", w.Code)
	}
}

func TestAccountHandlerClose(t *testing.T) {
	gin.SetMode(gin.TestMode)

	commands := &mockAccountCommander{
		closeFn: func(ctx context.Context, accountID int64) (*domain.Account, error) {
			if accountID != 1 {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: 1, Status: domain.StatusClosed}, nil
		},
	}
	h := NewAccountHandler(commands, &mockAccountQuerier{})
	router := gin.New()
	router.DELETE("/accounts/:id", h.Close)

	if w := performRequest(router, http.MethodDelete, "/accounts/1", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w := performRequest(router, http.MethodDelete, "/accounts/9", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAccountHandlerListByCustomer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	queries := &mockAccountQuerier{
		byCustomerFn: func(ctx context.Context, customerID int64) ([]domain.Account, error) {
			if customerID != 3 {
				return []domain.Account{}, nil
			}
			return []domain.Account{{ID: 1, CustomerID: 3}, {ID: 2, CustomerID: 3}}, nil
		},
	}
	h := NewAccountHandler(&mockAccountCommander{}, queries)
	router := gin.New()
	router.GET("/customers/:id/accounts", h.ListByCustomer)

	w := performRequest(router, http.MethodGet, "/customers/3/accounts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if items, ok := envelope["data"].([]any); !ok || len(items) != 2 {
		t.Errorf("data = %v, want 2 accounts", envelope["data"])
	}

	// Unknown customer yields an empty list, not an error.
	w = performRequest(router, http.MethodGet, "/customers/99/accounts", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for unknown customer", w.Code)
	}

	if w := performRequest(router, http.MethodGet, "/customers/abc/accounts", nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-numeric id", w.Code)
	}
}

func TestAccountHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotParams pagination.Params
	queries := &mockAccountQuerier{
		listFn: func(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error) {
			gotParams = p
			return pagination.NewPage([]domain.Account{{ID: 1}}, p, 1), nil
		},
	}
	h := NewAccountHandler(&mockAccountCommander{}, queries)
	router := gin.New()
	router.GET("/accounts", h.List)

	w := performRequest(router, http.MethodGet, "/accounts?page=3&pageSize=25", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotParams.Page != 3 || gotParams.PageSize != 25 {
		t.Errorf("params = %d/%d, want 3/25", gotParams.Page, gotParams.PageSize)
	}
}
