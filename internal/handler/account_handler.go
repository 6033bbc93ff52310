package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/pagination"
)

// AccountCommander defines the write-side account operations used by
// AccountHandler.
type AccountCommander interface {
	CreateAccount(ctx context.Context, params command.CreateAccountParams) (*domain.Account, error)
	CloseAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	SetAccountStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error)
}

// AccountQuerier defines the read-side account operations used by
// AccountHandler.
type AccountQuerier interface {
	GetByID(ctx context.Context, accountID int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
}

type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

type CreateAccountRequest struct {
	CustomerID     int64           `json:"customerId" validate:"required,gt=0"`
	AccountType    string          `json:"accountType" validate:"required,oneof=checking savings business"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	InterestRate   decimal.Decimal `json:"interestRate"`
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended closed"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	account, err := h.commands.CreateAccount(c.Request.Context(), command.CreateAccountParams{
		CustomerID:     req.CustomerID,
		AccountType:    req.AccountType,
		InitialDeposit: req.InitialDeposit,
		InterestRate:   req.InterestRate,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, account, "Account created")
}

func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := h.queries.GetByID(c.Request.Context(), accountID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, account, "")
}

func (h *AccountHandler) GetByNumber(c *gin.Context) {
	account, err := h.queries.GetByNumber(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, account, "")
}

func (h *AccountHandler) List(c *gin.Context) {
	page, err := h.queries.List(c.Request.Context(), parsePagination(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "")
}

// ListByCustomer serves a customer's accounts, newest first.
func (h *AccountHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	accounts, err := h.queries.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, accounts, "")
}

func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	account, err := h.commands.SetAccountStatus(c.Request.Context(), accountID, req.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, account, "Account status updated")
}

// Close handles DELETE on an account. The record is retained in closed
// status, never removed.
func (h *AccountHandler) Close(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := h.commands.CloseAccount(c.Request.Context(), accountID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, account, "Account closed")
}
