package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests for budgets and variance reports.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(budgetService portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: budgetService,
	}
}

// createBudget creates a draft budget for a building and fiscal year.
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	organizationID, _ := middleware.GetOrganizationFromContext(c)
	createdBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), organizationID, req, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Budget for this building and fiscal year already exists"})
		default:
			logger.Error("Failed to create budget", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// getBudget retrieves one budget by ID.
func (h *budgetHandler) getBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")

	budget, err := h.budgetService.GetBudget(c.Request.Context(), budgetID)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgets lists budgets by building, fiscal year or status.
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	var budgets []domain.Budget
	var err error
	switch {
	case c.Query("buildingID") != "":
		budgets, err = h.budgetService.ListBudgetsByBuilding(c.Request.Context(), c.Query("buildingID"))
	case c.Query("fiscalYear") != "":
		var year int
		year, err = strconv.Atoi(c.Query("fiscalYear"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fiscalYear"})
			return
		}
		budgets, err = h.budgetService.ListBudgetsByFiscalYear(c.Request.Context(), organizationID, year)
	case c.Query("status") != "":
		budgets, err = h.budgetService.ListBudgetsByStatus(c.Request.Context(), organizationID, domain.BudgetStatus(c.Query("status")))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "One of buildingID, fiscalYear or status is required"})
		return
	}
	if err != nil {
		logger.Error("Failed to list budgets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list budgets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": dto.ToBudgetResponses(budgets)})
}

// getActiveBudget retrieves the approved budget in force for a building.
func (h *budgetHandler) getActiveBudget(c *gin.Context) {
	buildingID := c.Param("buildingID")

	budget, err := h.budgetService.GetActiveBudget(c.Request.Context(), buildingID)
	if err != nil {
		h.respondBudgetError(c, buildingID, err, "Failed to retrieve active budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getBudgetForYear retrieves the unique budget of a building and year.
func (h *budgetHandler) getBudgetForYear(c *gin.Context) {
	buildingID := c.Param("buildingID")
	year, err := strconv.Atoi(c.Param("fiscalYear"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fiscal year"})
		return
	}

	budget, err := h.budgetService.GetBudgetForBuildingYear(c.Request.Context(), buildingID, year)
	if err != nil {
		h.respondBudgetError(c, buildingID, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget changes draft amounts and/or notes.
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("budgetID")

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}
	updatedBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), budgetID, req, updatedBy)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// submitBudget moves a draft or rejected budget to the general assembly.
func (h *budgetHandler) submitBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")
	updatedBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.SubmitBudget(c.Request.Context(), budgetID, updatedBy)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to submit budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// approveBudget records the general-assembly approval.
func (h *budgetHandler) approveBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("budgetID")

	var req dto.ApproveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for approveBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}
	updatedBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.ApproveBudget(c.Request.Context(), budgetID, req.MeetingID, updatedBy)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to approve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// rejectBudget marks a submitted budget rejected.
func (h *budgetHandler) rejectBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")

	var req dto.RejectBudgetRequest
	// Body is optional; a bare reject carries no reason.
	_ = c.ShouldBindJSON(&req)
	updatedBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.RejectBudget(c.Request.Context(), budgetID, req.Reason, updatedBy)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to reject budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// archiveBudget closes an approved budget at fiscal year end.
func (h *budgetHandler) archiveBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")
	updatedBy := middleware.GetUserFromContext(c)

	budget, err := h.budgetService.ArchiveBudget(c.Request.Context(), budgetID, updatedBy)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to archive budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget removes a non-approved budget.
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	budgetID := c.Param("budgetID")

	if err := h.budgetService.DeleteBudget(c.Request.Context(), budgetID); err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// getVariance reconciles the budget against actual paid expenses.
func (h *budgetHandler) getVariance(c *gin.Context) {
	budgetID := c.Param("budgetID")

	variance, err := h.budgetService.Variance(c.Request.Context(), budgetID)
	if err != nil {
		h.respondBudgetError(c, budgetID, err, "Failed to compute variance")
		return
	}
	c.JSON(http.StatusOK, dto.ToVarianceResponse(variance))
}

// respondBudgetError maps service errors to HTTP statuses.
func (h *budgetHandler) respondBudgetError(c *gin.Context, id string, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("budget_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// registerBudgetRoutes registers budget lifecycle and variance routes.
func registerBudgetRoutes(group *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := group.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.POST("/:budgetID/submit", h.submitBudget)
		budgets.POST("/:budgetID/approve", h.approveBudget)
		budgets.POST("/:budgetID/reject", h.rejectBudget)
		budgets.POST("/:budgetID/archive", h.archiveBudget)
		budgets.GET("/:budgetID/variance", h.getVariance)
	}

	buildings := group.Group("/buildings")
	{
		buildings.GET("/:buildingID/budgets/active", h.getActiveBudget)
		buildings.GET("/:buildingID/budgets/:fiscalYear", h.getBudgetForYear)
	}
}
