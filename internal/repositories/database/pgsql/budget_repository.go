package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// uqBudgetBuildingYear guards one budget per (building, fiscal year).
const uqBudgetBuildingYear = "uq_budgets_building_id_fiscal_year"

type PgxBudgetRepository struct {
	BaseRepository
}

// NewPgxBudgetRepository creates a new repository for budget data.
func NewPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepository.
var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

const budgetColumns = `
	budget_id, organization_id, building_id, fiscal_year,
	ordinary_budget, extraordinary_budget, total_budget, status,
	submitted_date, approved_date, approved_by_meeting_id,
	monthly_provision_amount, notes,
	created_at, created_by, last_updated_at, last_updated_by`

// CreateBudget inserts a new budget row.
func (r *PgxBudgetRepository) CreateBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.OrganizationID,
		budget.BuildingID,
		budget.FiscalYear,
		budget.OrdinaryBudget,
		budget.ExtraordinaryBudget,
		budget.TotalBudget,
		budget.Status,
		budget.SubmittedDate,
		budget.ApprovedDate,
		budget.ApprovedByMeetingID,
		budget.MonthlyProvisionAmount,
		budget.Notes,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, uqBudgetBuildingYear) {
			return fmt.Errorf("%w: budget for building %s and fiscal year %d already exists",
				apperrors.ErrDuplicate, budget.BuildingID, budget.FiscalYear)
		}
		return fmt.Errorf("failed to insert budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1;
	`
	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		return nil, mapNotFound(err, "failed to find budget by ID "+budgetID)
	}
	return budget, nil
}

// FindBudgetByBuildingAndYear retrieves the unique budget of a building and year.
func (r *PgxBudgetRepository) FindBudgetByBuildingAndYear(ctx context.Context, buildingID string, fiscalYear int) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE building_id = $1 AND fiscal_year = $2;
	`
	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, buildingID, fiscalYear))
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("failed to find budget for building %s year %d", buildingID, fiscalYear))
	}
	return budget, nil
}

// FindBudgetsByBuilding retrieves all budgets of a building, newest year first.
func (r *PgxBudgetRepository) FindBudgetsByBuilding(ctx context.Context, buildingID string) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE building_id = $1
		ORDER BY fiscal_year DESC;
	`
	return r.queryBudgets(ctx, query, buildingID)
}

// FindActiveBudgetByBuilding retrieves the approved budget with the most
// recent fiscal year.
func (r *PgxBudgetRepository) FindActiveBudgetByBuilding(ctx context.Context, buildingID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE building_id = $1 AND status = $2
		ORDER BY fiscal_year DESC
		LIMIT 1;
	`
	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, buildingID, domain.BudgetApproved))
	if err != nil {
		return nil, mapNotFound(err, "failed to find active budget for building "+buildingID)
	}
	return budget, nil
}

// FindBudgetsByFiscalYear retrieves a tenant's budgets for one year.
func (r *PgxBudgetRepository) FindBudgetsByFiscalYear(ctx context.Context, organizationID string, fiscalYear int) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE organization_id = $1 AND fiscal_year = $2
		ORDER BY building_id;
	`
	return r.queryBudgets(ctx, query, organizationID, fiscalYear)
}

// FindBudgetsByStatus retrieves a tenant's budgets in one workflow status.
func (r *PgxBudgetRepository) FindBudgetsByStatus(ctx context.Context, organizationID string, status domain.BudgetStatus) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE organization_id = $1 AND status = $2
		ORDER BY fiscal_year DESC, building_id;
	`
	return r.queryBudgets(ctx, query, organizationID, status)
}

// UpdateBudget rewrites the mutable columns of a budget.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		UPDATE budgets
		SET ordinary_budget = $2,
		    extraordinary_budget = $3,
		    total_budget = $4,
		    status = $5,
		    submitted_date = $6,
		    approved_date = $7,
		    approved_by_meeting_id = $8,
		    monthly_provision_amount = $9,
		    notes = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.OrdinaryBudget,
		budget.ExtraordinaryBudget,
		budget.TotalBudget,
		budget.Status,
		budget.SubmittedDate,
		budget.ApprovedDate,
		budget.ApprovedByMeetingID,
		budget.MonthlyProvisionAmount,
		budget.Notes,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", budget.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteBudget removes a budget row.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumPaidExpensesByCategory totals the paid expenses of a building per
// category, with from <= expense_date < to.
func (r *PgxBudgetRepository) SumPaidExpensesByCategory(ctx context.Context, buildingID string, from, to time.Time) (map[domain.ExpenseCategory]decimal.Decimal, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE building_id = $1
		  AND paid_date IS NOT NULL
		  AND expense_date >= $2 AND expense_date < $3
		GROUP BY category;
	`
	rows, err := r.Pool.Query(ctx, query, buildingID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum paid expenses for building %s: %w", buildingID, err)
	}
	defer rows.Close()

	totals := make(map[domain.ExpenseCategory]decimal.Decimal)
	for rows.Next() {
		var category domain.ExpenseCategory
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan expense totals: %w", err)
		}
		totals[category] = total
	}
	return totals, rows.Err()
}

// queryBudgets runs a budget query and scans all rows.
func (r *PgxBudgetRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	return budgets, rows.Err()
}

// scanBudget reads one budget row in budgetColumns order.
func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.BudgetID,
		&b.OrganizationID,
		&b.BuildingID,
		&b.FiscalYear,
		&b.OrdinaryBudget,
		&b.ExtraordinaryBudget,
		&b.TotalBudget,
		&b.Status,
		&b.SubmittedDate,
		&b.ApprovedDate,
		&b.ApprovedByMeetingID,
		&b.MonthlyProvisionAmount,
		&b.Notes,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
