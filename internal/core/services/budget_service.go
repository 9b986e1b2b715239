package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/shopspring/decimal"
)

// overrunThresholdPct flags a category as overrun when actual spending exceeds
// budget by more than 10 percent (variance percentage below -10).
var overrunThresholdPct = decimal.NewFromInt(-10)

// CategoryMapping routes an expense category to the ordinary or extraordinary
// side of the budget. True means extraordinary.
type CategoryMapping func(category domain.ExpenseCategory) bool

// DefaultCategoryMapping sends one-off works to the extraordinary budget and
// every recurring category to the ordinary budget.
func DefaultCategoryMapping(category domain.ExpenseCategory) bool {
	return category == domain.CategoryWorks
}

// budgetService manages budget lifecycle and the variance read path.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepository
	mapping    CategoryMapping
	now        func() time.Time
}

// BudgetServiceOption configures optional behavior of the budget service.
type BudgetServiceOption func(*budgetService)

// WithCategoryMapping overrides the ordinary/extraordinary routing of expense
// categories in variance computation.
func WithCategoryMapping(mapping CategoryMapping) BudgetServiceOption {
	return func(s *budgetService) {
		if mapping != nil {
			s.mapping = mapping
		}
	}
}

// WithClock overrides the time source used for months-elapsed and projection.
func WithClock(now func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepository, opts ...BudgetServiceOption) portssvc.BudgetSvcFacade {
	s := &budgetService{
		budgetRepo: budgetRepo,
		mapping:    DefaultCategoryMapping,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget builds and persists a draft budget for a building and year.
func (s *budgetService) CreateBudget(ctx context.Context, organizationID string, req dto.CreateBudgetRequest, createdBy string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, err := domain.NewBudget(organizationID, req.BuildingID, req.FiscalYear, req.OrdinaryBudget, req.ExtraordinaryBudget)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	budget.CreatedBy = createdBy
	budget.LastUpdatedBy = createdBy
	if req.Notes != nil {
		budget.Notes = req.Notes
	}

	if err := s.budgetRepo.CreateBudget(ctx, *budget); err != nil {
		logger.Error("Failed to persist budget",
			slog.String("building_id", req.BuildingID),
			slog.Int("fiscal_year", req.FiscalYear),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Budget created",
		slog.String("budget_id", budget.BudgetID),
		slog.String("building_id", budget.BuildingID),
		slog.Int("fiscal_year", budget.FiscalYear))
	return budget, nil
}

// GetBudget retrieves a budget by ID.
func (s *budgetService) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudgetForBuildingYear retrieves the unique budget of a building and year.
func (s *budgetService) GetBudgetForBuildingYear(ctx context.Context, buildingID string, fiscalYear int) (*domain.Budget, error) {
	return s.budgetRepo.FindBudgetByBuildingAndYear(ctx, buildingID, fiscalYear)
}

// GetActiveBudget retrieves the approved budget currently in force.
func (s *budgetService) GetActiveBudget(ctx context.Context, buildingID string) (*domain.Budget, error) {
	return s.budgetRepo.FindActiveBudgetByBuilding(ctx, buildingID)
}

// ListBudgetsByBuilding retrieves all budgets of a building, any status.
func (s *budgetService) ListBudgetsByBuilding(ctx context.Context, buildingID string) ([]domain.Budget, error) {
	return s.budgetRepo.FindBudgetsByBuilding(ctx, buildingID)
}

// ListBudgetsByFiscalYear retrieves a tenant's budgets for one year.
func (s *budgetService) ListBudgetsByFiscalYear(ctx context.Context, organizationID string, fiscalYear int) ([]domain.Budget, error) {
	return s.budgetRepo.FindBudgetsByFiscalYear(ctx, organizationID, fiscalYear)
}

// ListBudgetsByStatus retrieves a tenant's budgets in one workflow status.
func (s *budgetService) ListBudgetsByStatus(ctx context.Context, organizationID string, status domain.BudgetStatus) ([]domain.Budget, error) {
	return s.budgetRepo.FindBudgetsByStatus(ctx, organizationID, status)
}

// UpdateBudget changes draft amounts and/or notes.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, updatedBy string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if req.OrdinaryBudget != nil || req.ExtraordinaryBudget != nil {
		if req.OrdinaryBudget == nil || req.ExtraordinaryBudget == nil {
			return nil, fmt.Errorf("%w: ordinary and extraordinary amounts must be updated together", apperrors.ErrValidation)
		}
		if err := budget.UpdateAmounts(*req.OrdinaryBudget, *req.ExtraordinaryBudget); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
		}
	}
	if req.Notes != nil {
		budget.UpdateNotes(*req.Notes)
	}
	budget.LastUpdatedBy = updatedBy

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// transition loads the budget, applies one state change and persists it.
func (s *budgetService) transition(ctx context.Context, budgetID, updatedBy string, apply func(*domain.Budget) error) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if err := apply(budget); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
	}
	budget.LastUpdatedBy = updatedBy
	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// SubmitBudget moves a draft or rejected budget to the general assembly.
func (s *budgetService) SubmitBudget(ctx context.Context, budgetID string, updatedBy string) (*domain.Budget, error) {
	budget, err := s.transition(ctx, budgetID, updatedBy, func(b *domain.Budget) error {
		return b.SubmitForApproval()
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget submitted", slog.String("budget_id", budgetID))
	return budget, nil
}

// ApproveBudget records the general-assembly approval.
func (s *budgetService) ApproveBudget(ctx context.Context, budgetID, meetingID string, updatedBy string) (*domain.Budget, error) {
	if meetingID == "" {
		return nil, fmt.Errorf("%w: approving meeting ID is required", apperrors.ErrValidation)
	}
	budget, err := s.transition(ctx, budgetID, updatedBy, func(b *domain.Budget) error {
		return b.Approve(meetingID)
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget approved",
		slog.String("budget_id", budgetID),
		slog.String("meeting_id", meetingID))
	return budget, nil
}

// RejectBudget marks a submitted budget rejected. The rejection reason, when
// given, is appended to the notes.
func (s *budgetService) RejectBudget(ctx context.Context, budgetID string, reason *string, updatedBy string) (*domain.Budget, error) {
	budget, err := s.transition(ctx, budgetID, updatedBy, func(b *domain.Budget) error {
		if err := b.Reject(); err != nil {
			return err
		}
		if reason != nil && *reason != "" {
			note := fmt.Sprintf("Rejected: %s", *reason)
			if b.Notes != nil && *b.Notes != "" {
				note = *b.Notes + "\n" + note
			}
			b.UpdateNotes(note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget rejected", slog.String("budget_id", budgetID))
	return budget, nil
}

// ArchiveBudget closes an approved budget at fiscal year end.
func (s *budgetService) ArchiveBudget(ctx context.Context, budgetID string, updatedBy string) (*domain.Budget, error) {
	budget, err := s.transition(ctx, budgetID, updatedBy, func(b *domain.Budget) error {
		return b.Archive()
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget archived", slog.String("budget_id", budgetID))
	return budget, nil
}

// DeleteBudget removes a budget. Approved budgets cannot be deleted, only
// archived, so the history of voted budgets survives.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if budget.Status == domain.BudgetApproved || budget.Status == domain.BudgetArchived {
		return fmt.Errorf("%w: cannot delete budget with status %s", apperrors.ErrConflict, budget.Status)
	}
	return s.budgetRepo.DeleteBudget(ctx, budgetID)
}

// Variance reconciles the budget against the paid expenses of its fiscal year.
func (s *budgetService) Variance(ctx context.Context, budgetID string) (*domain.BudgetVariance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	yearStart := time.Date(budget.FiscalYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)
	actualByCategory, err := s.budgetRepo.SumPaidExpensesByCategory(ctx, budget.BuildingID, yearStart, yearEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum paid expenses for building %s: %w", budget.BuildingID, err)
	}

	actualOrdinary := decimal.Zero
	actualExtraordinary := decimal.Zero
	for category, total := range actualByCategory {
		if s.mapping(category) {
			actualExtraordinary = actualExtraordinary.Add(total)
		} else {
			actualOrdinary = actualOrdinary.Add(total)
		}
	}
	actualTotal := actualOrdinary.Add(actualExtraordinary)

	varOrdinary := budget.OrdinaryBudget.Sub(actualOrdinary)
	varExtraordinary := budget.ExtraordinaryBudget.Sub(actualExtraordinary)
	varTotal := budget.TotalBudget.Sub(actualTotal)

	variance := &domain.BudgetVariance{
		BudgetID:                 budget.BudgetID,
		FiscalYear:               budget.FiscalYear,
		BuildingID:               budget.BuildingID,
		BudgetedOrdinary:         budget.OrdinaryBudget,
		BudgetedExtraordinary:    budget.ExtraordinaryBudget,
		BudgetedTotal:            budget.TotalBudget,
		ActualOrdinary:           actualOrdinary,
		ActualExtraordinary:      actualExtraordinary,
		ActualTotal:              actualTotal,
		VarianceOrdinary:         varOrdinary,
		VarianceExtraordinary:    varExtraordinary,
		VarianceTotal:            varTotal,
		VarianceOrdinaryPct:      variancePct(varOrdinary, budget.OrdinaryBudget),
		VarianceExtraordinaryPct: variancePct(varExtraordinary, budget.ExtraordinaryBudget),
		VarianceTotalPct:         variancePct(varTotal, budget.TotalBudget),
	}

	overruns := make([]string, 0, 2)
	if variance.VarianceOrdinaryPct.LessThan(overrunThresholdPct) {
		overruns = append(overruns, "ordinary")
	}
	if variance.VarianceExtraordinaryPct.LessThan(overrunThresholdPct) {
		overruns = append(overruns, "extraordinary")
	}
	sort.Strings(overruns)
	variance.OverrunCategories = overruns
	// The total can overrun even when neither category pct does, e.g. when a
	// category with zero budget absorbs spending and its pct stays zero.
	variance.HasOverruns = len(overruns) > 0 ||
		variance.VarianceTotalPct.LessThan(overrunThresholdPct)

	variance.MonthsElapsed = monthsElapsed(s.now(), budget.FiscalYear)
	if variance.MonthsElapsed > 0 {
		variance.ProjectedYearEndTotal = actualTotal.
			Div(decimal.NewFromInt(int64(variance.MonthsElapsed))).
			Mul(decimal.NewFromInt(12)).
			Round(2)
	}

	logger.Debug("Budget variance computed",
		slog.String("budget_id", budgetID),
		slog.Bool("has_overruns", variance.HasOverruns),
		slog.Int("months_elapsed", variance.MonthsElapsed))
	return variance, nil
}

// variancePct expresses a variance as a percentage of the budgeted amount.
// A zero budget yields zero rather than a division error.
func variancePct(variance, budgeted decimal.Decimal) decimal.Decimal {
	if budgeted.IsZero() {
		return decimal.Zero
	}
	return variance.Div(budgeted).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthsElapsed counts the months of the fiscal year already underway: the
// current month for the running year, twelve for a past year, zero for a
// future year.
func monthsElapsed(now time.Time, fiscalYear int) int {
	switch {
	case now.Year() == fiscalYear:
		return int(now.Month())
	case now.Year() > fiscalYear:
		return 12
	default:
		return 0
	}
}
