package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/saving"
	"github.com/finance-tracker/recurring-payments/internal/integration/entrypoint/dto"
)

// SavingBalanceController handles saving balance endpoints.
type SavingBalanceController struct {
	listUseCase   *saving.ListBalancesUseCase
	accrueUseCase *saving.AccrueMonthlySavingsUseCase
}

// NewSavingBalanceController creates a new saving balance controller instance.
func NewSavingBalanceController(
	listUseCase *saving.ListBalancesUseCase,
	accrueUseCase *saving.AccrueMonthlySavingsUseCase,
) *SavingBalanceController {
	return &SavingBalanceController{
		listUseCase:   listUseCase,
		accrueUseCase: accrueUseCase,
	}
}

// List handles GET /saving-balances requests.
// Supported query parameters: definitionIds.
func (c *SavingBalanceController) List(ctx *gin.Context) {
	q := newQueryParser(ctx)
	input := saving.ListBalancesInput{
		DefinitionIDs: q.ids("definitionIds"),
	}
	if !q.done() {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SavingBalanceListResponse{
		Balances: dto.ToSavingBalanceResponses(output.Balances),
	})
}

// Accrue handles POST /saving-balances/accrue requests.
func (c *SavingBalanceController) Accrue(ctx *gin.Context) {
	var req dto.AccrueSavingsRequest
	if !bindJSON(ctx, &req, false) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.accrueUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAccrueSavingsResponse(output))
}
