package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring-payments/internal/domain/error"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/dto"
)

// OccurrenceController handles payment occurrence and reconciliation endpoints.
type OccurrenceController struct {
	listUseCase          *recurringpayment.ListOccurrencesUseCase
	completeUseCase      *recurringpayment.CompleteOccurrenceUseCase
	updateUseCase        *recurringpayment.UpdateOccurrenceUseCase
	candidatesUseCase    *reconciliation.GetCandidatesUseCase
	linkUseCase          *reconciliation.LinkTransactionUseCase
	unlinkUseCase        *reconciliation.UnlinkTransactionUseCase
	defaultHorizonMonths int
}

// NewOccurrenceController creates a new occurrence controller instance.
func NewOccurrenceController(
	listUseCase *recurringpayment.ListOccurrencesUseCase,
	completeUseCase *recurringpayment.CompleteOccurrenceUseCase,
	updateUseCase *recurringpayment.UpdateOccurrenceUseCase,
	candidatesUseCase *reconciliation.GetCandidatesUseCase,
	linkUseCase *reconciliation.LinkTransactionUseCase,
	unlinkUseCase *reconciliation.UnlinkTransactionUseCase,
	defaultHorizonMonths int,
) *OccurrenceController {
	return &OccurrenceController{
		listUseCase:          listUseCase,
		completeUseCase:      completeUseCase,
		updateUseCase:        updateUseCase,
		candidatesUseCase:    candidatesUseCase,
		linkUseCase:          linkUseCase,
		unlinkUseCase:        unlinkUseCase,
		defaultHorizonMonths: defaultHorizonMonths,
	}
}

// List handles GET /occurrences requests.
// Supported query parameters: definitionIds, statuses, startDate, endDate.
func (c *OccurrenceController) List(ctx *gin.Context) {
	q := newQueryParser(ctx)
	input := recurringpayment.ListOccurrencesInput{
		DefinitionIDs: q.ids("definitionIds"),
		StartDate:     q.date("startDate"),
		EndDate:       q.date("endDate"),
	}
	for _, s := range q.list("statuses") {
		status := entity.OccurrenceStatus(s)
		if !status.IsValid() {
			q.reasons = append(q.reasons, "statuses contains an unknown status "+s)
			continue
		}
		input.Statuses = append(input.Statuses, status)
	}
	if !q.done() {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.OccurrenceListResponse{
		Occurrences: dto.ToOccurrenceResponses(output.Occurrences),
	})
}

// Complete handles POST /occurrences/:id/complete requests.
func (c *OccurrenceController) Complete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CompleteOccurrenceRequest
	if !bindJSON(ctx, &req, false) {
		return
	}

	input, err := req.ToInput(id, c.defaultHorizonMonths)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.completeUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOccurrenceResultResponse(output.Occurrence, output.Balance, output.Summary))
}

// Update handles PATCH /occurrences/:id requests.
func (c *OccurrenceController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOccurrenceRequest
	if !bindJSON(ctx, &req, false) {
		return
	}

	input, err := req.ToInput(id, c.defaultHorizonMonths)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOccurrenceResultResponse(output.Occurrence, output.Balance, output.Summary))
}

// Candidates handles GET /occurrences/:id/candidates requests.
// Supported query parameters: windowDays, limit, currentDate.
func (c *OccurrenceController) Candidates(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	q := newQueryParser(ctx)
	input := reconciliation.GetCandidatesInput{
		OccurrenceID: id,
		WindowDays:   q.integer("windowDays"),
		Limit:        q.integer("limit"),
		CurrentDate:  q.date("currentDate"),
	}
	if !q.done() {
		return
	}

	output, err := c.candidatesUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCandidatesResponse(output))
}

// Link handles POST /occurrences/:id/link requests.
func (c *OccurrenceController) Link(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.LinkTransactionRequest
	if !bindJSON(ctx, &req, false) {
		return
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		handleError(ctx, domainerror.NewInvalidRequestError("transaction_id must be a valid UUID"))
		return
	}

	output, err := c.linkUseCase.Execute(ctx.Request.Context(), reconciliation.LinkTransactionInput{
		OccurrenceID:  id,
		TransactionID: transactionID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLinkTransactionResponse(output))
}

// Unlink handles DELETE /occurrences/:id/link requests.
func (c *OccurrenceController) Unlink(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	output, err := c.unlinkUseCase.Execute(ctx.Request.Context(), reconciliation.UnlinkTransactionInput{
		OccurrenceID: id,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUnlinkTransactionResponse(output))
}
