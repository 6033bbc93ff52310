// Package handler maps HTTP requests onto the command, query and ledger
// services, and domain errors onto HTTP statuses. All responses share the
// {success, data|error, message} envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/pagination"
)

type successResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondSuccess(c *gin.Context, status int, data any, message string) {
	c.JSON(status, successResponse{Success: true, Data: data, Message: message})
}

// respondDomainError maps each domain error kind to its distinct
// client-facing status. Unknown errors never leak details.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrNoFieldsToUpdate):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrUsernameTaken):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		middleware.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parsePagination(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	return pagination.Params{Page: page, PageSize: pageSize}.Normalize()
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
