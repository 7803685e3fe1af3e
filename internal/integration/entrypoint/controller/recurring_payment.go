package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/dto"
)

// RecurringPaymentController handles payment definition endpoints.
type RecurringPaymentController struct {
	listUseCase          *recurringpayment.ListDefinitionsUseCase
	createUseCase        *recurringpayment.CreateDefinitionUseCase
	getUseCase           *recurringpayment.GetDefinitionUseCase
	updateUseCase        *recurringpayment.UpdateDefinitionUseCase
	deleteUseCase        *recurringpayment.DeleteDefinitionUseCase
	synchronizeUseCase   *recurringpayment.SynchronizeUseCase
	defaultHorizonMonths int
}

// NewRecurringPaymentController creates a new recurring payment controller instance.
func NewRecurringPaymentController(
	listUseCase *recurringpayment.ListDefinitionsUseCase,
	createUseCase *recurringpayment.CreateDefinitionUseCase,
	getUseCase *recurringpayment.GetDefinitionUseCase,
	updateUseCase *recurringpayment.UpdateDefinitionUseCase,
	deleteUseCase *recurringpayment.DeleteDefinitionUseCase,
	synchronizeUseCase *recurringpayment.SynchronizeUseCase,
	defaultHorizonMonths int,
) *RecurringPaymentController {
	return &RecurringPaymentController{
		listUseCase:          listUseCase,
		createUseCase:        createUseCase,
		getUseCase:           getUseCase,
		updateUseCase:        updateUseCase,
		deleteUseCase:        deleteUseCase,
		synchronizeUseCase:   synchronizeUseCase,
		defaultHorizonMonths: defaultHorizonMonths,
	}
}

// List handles GET /recurring-payments requests.
// Supported query parameters: ids, search, categoryIds, referenceDate.
func (c *RecurringPaymentController) List(ctx *gin.Context) {
	q := newQueryParser(ctx)
	input := recurringpayment.ListDefinitionsInput{
		IDs:           q.ids("ids"),
		SearchText:    ctx.Query("search"),
		CategoryIDs:   q.ids("categoryIds"),
		ReferenceDate: q.date("referenceDate"),
	}
	if !q.done() {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringPaymentListResponse(output.Definitions))
}

// Create handles POST /recurring-payments requests.
func (c *RecurringPaymentController) Create(ctx *gin.Context) {
	var req dto.CreateRecurringPaymentRequest
	if !bindJSON(ctx, &req, false) {
		return
	}

	input, err := req.ToInput(c.defaultHorizonMonths)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	response := dto.ToRecurringPaymentDetailsResponse(output.Definition, output.Balance, nil, output.Occurrences)
	summary := dto.ToSynchronizationSummaryResponse(output.Summary)
	response.Summary = &summary

	ctx.JSON(http.StatusCreated, response)
}

// Get handles GET /recurring-payments/:id requests.
func (c *RecurringPaymentController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	q := newQueryParser(ctx)
	referenceDate := q.date("referenceDate")
	if !q.done() {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), recurringpayment.GetDefinitionInput{
		DefinitionID:  id,
		ReferenceDate: referenceDate,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringPaymentDetailsResponse(output.Definition, output.Balance, output.NextOccurrence, output.Occurrences))
}

// Update handles PATCH /recurring-payments/:id requests.
func (c *RecurringPaymentController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecurringPaymentRequest
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

	response := dto.ToRecurringPaymentDetailsResponse(output.Definition, nil, nil, output.Occurrences)
	summary := dto.ToSynchronizationSummaryResponse(output.Summary)
	response.Summary = &summary

	ctx.JSON(http.StatusOK, response)
}

// Delete handles DELETE /recurring-payments/:id requests.
func (c *RecurringPaymentController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), recurringpayment.DeleteDefinitionInput{
		DefinitionID: id,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Synchronize handles POST /recurring-payments/:id/synchronize requests.
// The body is optional.
func (c *RecurringPaymentController) Synchronize(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SynchronizeRequest
	if !bindJSON(ctx, &req, true) {
		return
	}

	input, err := req.ToInput(id, c.defaultHorizonMonths)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.synchronizeUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SynchronizeResponse{
		Summary:     dto.ToSynchronizationSummaryResponse(output.Summary),
		Occurrences: dto.ToOccurrenceResponses(output.Occurrences),
	})
}
