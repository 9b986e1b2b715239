package repositories

import (
	"context"
	"time"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository persists annual budgets. One active budget is expected per
// (building, fiscal year); the store enforces this with a unique constraint.
type BudgetRepository interface {
	CreateBudget(ctx context.Context, budget domain.Budget) error

	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindBudgetByBuildingAndYear retrieves the unique budget of a building
	// for one fiscal year.
	FindBudgetByBuildingAndYear(ctx context.Context, buildingID string, fiscalYear int) (*domain.Budget, error)

	FindBudgetsByBuilding(ctx context.Context, buildingID string) ([]domain.Budget, error)

	// FindActiveBudgetByBuilding retrieves the approved budget with the most
	// recent fiscal year.
	FindActiveBudgetByBuilding(ctx context.Context, buildingID string) (*domain.Budget, error)

	FindBudgetsByFiscalYear(ctx context.Context, organizationID string, fiscalYear int) ([]domain.Budget, error)

	FindBudgetsByStatus(ctx context.Context, organizationID string, status domain.BudgetStatus) ([]domain.Budget, error)

	UpdateBudget(ctx context.Context, budget domain.Budget) error

	DeleteBudget(ctx context.Context, budgetID string) error

	// SumPaidExpensesByCategory totals the paid expenses of a building per
	// category, with from <= expense_date < to. Feeds the variance engine.
	SumPaidExpensesByCategory(ctx context.Context, buildingID string, from, to time.Time) (map[domain.ExpenseCategory]decimal.Decimal, error)
}
