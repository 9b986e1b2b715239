package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for journal entries and the expense
// generator triggers.
type ledgerHandler struct {
	accountingService portssvc.AccountingSvcFacade
}

func newLedgerHandler(accountingService portssvc.AccountingSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		accountingService: accountingService,
	}
}

// createEntry creates a manual balanced journal entry.
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	organizationID, ok := middleware.GetOrganizationFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing organization"})
		return
	}
	createdBy := middleware.GetUserFromContext(c)

	entry, err := h.accountingService.CreateManualEntry(c.Request.Context(), organizationID, req, createdBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry retrieves one journal entry with its lines.
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	entry, err := h.accountingService.GetEntry(c.Request.Context(), organizationID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to get entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries retrieves a filtered page of entries, newest first.
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	filter := portsrepo.EntryFilter{
		BuildingID:  c.Query("buildingID"),
		JournalType: domain.JournalType(c.Query("journalType")),
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		filter.From = &from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		filter.To = &to
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.accountingService.ListEntries(c.Request.Context(), organizationID, filter, limit, offset)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.ToEntryResponses(entries),
		Limit:   limit,
		Offset:  offset,
	})
}

// deleteEntry removes an entry and its lines.
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	if err := h.accountingService.DeleteEntry(c.Request.Context(), organizationID, entryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to delete entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

// validateEntryBalance re-derives the balance invariant from persisted rows.
func (h *ledgerHandler) validateEntryBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	balanced, err := h.accountingService.ValidateEntryBalance(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to validate entry balance", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entryID": entryID, "balanced": balanced})
}

// generateExpenseEntry builds the recognition entry from an expense snapshot.
func (h *ledgerHandler) generateExpenseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	organizationID, _ := middleware.GetOrganizationFromContext(c)
	createdBy := middleware.GetUserFromContext(c)

	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for generateExpenseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	expense := req.ToDomainExpense(expenseID, organizationID)
	entry, err := h.accountingService.GenerateEntryForExpense(c.Request.Context(), expense, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error generating entry", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Entry already generated for this expense"})
		default:
			logger.Error("Failed to generate entry", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate entry"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// generatePaymentEntry builds the settlement entry from an expense snapshot.
func (h *ledgerHandler) generatePaymentEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	organizationID, _ := middleware.GetOrganizationFromContext(c)
	createdBy := middleware.GetUserFromContext(c)

	var req dto.GeneratePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for generatePaymentEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	expense := req.Expense.ToDomainExpense(expenseID, organizationID)
	entry, err := h.accountingService.GeneratePaymentEntry(c.Request.Context(), expense, req.PaymentAccount, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment entry already generated for this expense"})
		default:
			logger.Error("Failed to generate payment entry", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate payment entry"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getExpenseEntries lists the entries generated from one expense.
func (h *ledgerHandler) getExpenseEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	entries, err := h.accountingService.GetExpenseJournalEntries(c.Request.Context(), organizationID, expenseID)
	if err != nil {
		logger.Error("Failed to get expense entries", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": dto.ToEntryResponses(entries)})
}

// parseDateQuery reads an RFC 3339 date or date-time query parameter.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// registerLedgerRoutes registers journal entry and generator routes.
func registerLedgerRoutes(group *gin.RouterGroup, accountingService portssvc.AccountingSvcFacade) {
	h := newLedgerHandler(accountingService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.GET("/:entryID/balance", h.validateEntryBalance)
		entries.DELETE("/:entryID", h.deleteEntry)
	}

	expenses := group.Group("/expenses")
	{
		expenses.POST("/:expenseID/entries", h.generateExpenseEntry)
		expenses.POST("/:expenseID/payment", h.generatePaymentEntry)
		expenses.GET("/:expenseID/entries", h.getExpenseEntries)
	}
}
