package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/ledger"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/pagination"
)

// TransactionProcessor defines the money-movement operations used by
// TransactionHandler.
type TransactionProcessor interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*ledger.Receipt, error)
	Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*ledger.TransferReceipt, error)
}

// TransactionQuerier defines the read-side operations used by
// TransactionHandler.
type TransactionQuerier interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64, p pagination.Params) (*pagination.Page[domain.Transaction], error)
	ListByDateRange(ctx context.Context, start, end time.Time, p pagination.Params) (*pagination.Page[domain.Transaction], error)
	ListAll(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Transaction], error)
}

type TransactionHandler struct {
	processor TransactionProcessor
	queries   TransactionQuerier
}

func NewTransactionHandler(processor TransactionProcessor, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{processor: processor, queries: queries}
}

type TransactionRequest struct {
	AccountID   int64           `json:"accountId" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId" validate:"required,gt=0"`
	ToAccountID   int64           `json:"toAccountId" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=255"`
}

func (h *TransactionHandler) Deposit(c *gin.Context) {
	req, ok := bindTransactionRequest(c)
	if !ok {
		return
	}
	receipt, err := h.processor.Deposit(c.Request.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, receipt, "Deposit successful")
}

func (h *TransactionHandler) Withdraw(c *gin.Context) {
	req, ok := bindTransactionRequest(c)
	if !ok {
		return
	}
	receipt, err := h.processor.Withdraw(c.Request.Context(), req.AccountID, req.Amount, req.Description)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, receipt, "Withdrawal successful")
}

func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	receipt, err := h.processor.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, receipt, "Transfer successful")
}

// List serves the admin ledger listing. A start or end query parameter
// switches it to a date-range query.
func (h *TransactionHandler) List(c *gin.Context) {
	p := parsePagination(c)

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr != "" || endStr != "" {
		// Either bound may be omitted: start defaults to the epoch, end
		// to now.
		var start time.Time
		end := time.Now()
		var err error
		if startStr != "" {
			if start, err = parseTime(startStr); err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "Invalid start parameter")
				return
			}
		}
		if endStr != "" {
			if end, err = parseTime(endStr); err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "Invalid end parameter")
				return
			}
		}
		page, err := h.queries.ListByDateRange(c.Request.Context(), start, end, p)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, page, "")
		return
	}

	page, err := h.queries.ListAll(c.Request.Context(), p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "")
}

func (h *TransactionHandler) Get(c *gin.Context) {
	txn, err := h.queries.GetByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, txn, "")
}

func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, err := h.queries.ListByAccount(c.Request.Context(), accountID, parsePagination(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "")
}

func bindTransactionRequest(c *gin.Context) (*TransactionRequest, bool) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return nil, false
	}
	return &req, true
}
