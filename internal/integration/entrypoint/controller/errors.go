package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/domain/valueobject"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/dto"
)

// handleError writes the error response for a failed use case.
func handleError(ctx *gin.Context, err error) {
	var rpErr *domainerror.RecurringPaymentError
	if errors.As(err, &rpErr) {
		statusCode := statusCodeFor(rpErr.Code)
		if statusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx.Request.Context(), "request failed",
				"method", ctx.Request.Method,
				"path", ctx.FullPath(),
				"code", string(rpErr.Code),
				"error", err,
			)
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error:   rpErr.Message,
			Code:    string(rpErr.Code),
			Details: rpErr.Messages(),
		})
		return
	}

	slog.ErrorContext(ctx.Request.Context(), "request failed",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeFor maps recurring payment error codes to HTTP status codes.
func statusCodeFor(code domainerror.RecurringPaymentErrorCode) int {
	switch code {
	case domainerror.ErrCodeValidationFailed,
		domainerror.ErrCodeInvalidRecurrence,
		domainerror.ErrCodeInvalidHorizon,
		domainerror.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case domainerror.ErrCodeDefinitionNotFound,
		domainerror.ErrCodeOccurrenceNotFound,
		domainerror.ErrCodeCategoryNotFound,
		domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeBalanceNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON binds the request body, writing a 400 response on failure.
// An empty body leaves req untouched when optional is true.
func bindJSON(ctx *gin.Context, req any, optional bool) bool {
	if optional && ctx.Request.ContentLength == 0 {
		return true
	}
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body: " + err.Error(),
			Code:    string(domainerror.ErrCodeInvalidRequest),
			Details: []string{err.Error()},
		})
		return false
	}
	return true
}

// idParam parses a UUID path parameter, writing a 400 response on failure.
func idParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		handleError(ctx, domainerror.NewInvalidRequestError("invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// queryParser reads optional query parameters, collecting every malformed value.
type queryParser struct {
	ctx     *gin.Context
	reasons []string
}

func newQueryParser(ctx *gin.Context) *queryParser {
	return &queryParser{ctx: ctx}
}

func (q *queryParser) date(key string) *time.Time {
	value := q.ctx.Query(key)
	if value == "" {
		return nil
	}
	d, err := valueobject.ParseDate(value)
	if err != nil {
		q.reasons = append(q.reasons, key+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func (q *queryParser) integer(key string) int {
	value := q.ctx.Query(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		q.reasons = append(q.reasons, key+" must be an integer")
		return 0
	}
	return n
}

// list splits a comma separated parameter.
func (q *queryParser) list(key string) []string {
	value := q.ctx.Query(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (q *queryParser) ids(key string) []uuid.UUID {
	var ids []uuid.UUID
	for _, item := range q.list(key) {
		id, err := uuid.Parse(item)
		if err != nil {
			q.reasons = append(q.reasons, key+" contains an invalid UUID")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// done writes a 400 response when any parameter was malformed.
func (q *queryParser) done() bool {
	if len(q.reasons) == 0 {
		return true
	}
	handleError(q.ctx, domainerror.NewInvalidRequestError(q.reasons...))
	return false
}
