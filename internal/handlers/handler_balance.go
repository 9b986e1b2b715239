package handlers

import (
	"log/slog"
	"net/http"

	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler handles HTTP requests for balance reports.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: balanceService,
	}
}

// getBalances reports per-account balances within the requested scope.
// Query parameters: buildingID, scope (building_shared|building_only),
// from, to (RFC 3339 or YYYY-MM-DD, inclusive-exclusive).
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID, _ := middleware.GetOrganizationFromContext(c)

	query := portsrepo.BalanceQuery{
		BuildingID: c.Query("buildingID"),
		Scope:      portsrepo.BuildingScope(c.Query("scope")),
	}
	if query.BuildingID != "" && query.Scope == portsrepo.ScopeOrganization {
		// A building filter without an explicit scope means shared costs count.
		query.Scope = portsrepo.ScopeBuildingShared
	}
	if query.Scope != portsrepo.ScopeOrganization && query.BuildingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buildingID is required for a building scope"})
		return
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		query.From = &from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		query.To = &to
	}

	balances, err := h.balanceService.AccountBalances(c.Request.Context(), organizationID, query)
	if err != nil {
		logger.Error("Failed to compute balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceReportResponse{
		OrganizationID: organizationID,
		BuildingID:     query.BuildingID,
		Balances:       dto.ToAccountBalanceResponses(balances),
	})
}

// registerBalanceRoutes registers the balance report route.
func registerBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)
	group.GET("/balances", h.getBalances)
}
