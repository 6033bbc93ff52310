package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/pagination"
	"github.com/meridianbank/banking/internal/repository"
)

type CustomerCommander interface {
	CreateCustomer(ctx context.Context, params command.CreateCustomerParams) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, upd repository.CustomerUpdate) (*domain.Customer, error)
}

type CustomerQuerier interface {
	GetByID(ctx context.Context, customerID int64) (*domain.Customer, error)
	List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Customer], error)
}

type CustomerHandler struct {
	commands CustomerCommander
	queries  CustomerQuerier
}

func NewCustomerHandler(commands CustomerCommander, queries CustomerQuerier) *CustomerHandler {
	return &CustomerHandler{commands: commands, queries: queries}
}

type CreateCustomerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=20"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"max=100"`
	Country   string `json:"country" validate:"max=100"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	customer, err := h.commands.CreateCustomer(c.Request.Context(), command.CreateCustomerParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, customer, "Customer created")
}

type UpdateCustomerRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
}

// Update applies a partial update; absent fields keep their stored values.
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	customer, err := h.commands.UpdateCustomer(c.Request.Context(), customerID, repository.CustomerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer, "Customer updated")
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.queries.GetByID(c.Request.Context(), customerID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, customer, "")
}

func (h *CustomerHandler) List(c *gin.Context) {
	page, err := h.queries.List(c.Request.Context(), parsePagination(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, page, "")
}
