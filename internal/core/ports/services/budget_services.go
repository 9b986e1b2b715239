package services

import (
	"context"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/coproledger/coproledger/internal/dto"
)

// BudgetSvcFacade manages annual budgets and the variance read path.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, organizationID string, req dto.CreateBudgetRequest, createdBy string) (*domain.Budget, error)

	GetBudget(ctx context.Context, budgetID string) (*domain.Budget, error)

	GetBudgetForBuildingYear(ctx context.Context, buildingID string, fiscalYear int) (*domain.Budget, error)

	GetActiveBudget(ctx context.Context, buildingID string) (*domain.Budget, error)

	ListBudgetsByBuilding(ctx context.Context, buildingID string) ([]domain.Budget, error)

	ListBudgetsByFiscalYear(ctx context.Context, organizationID string, fiscalYear int) ([]domain.Budget, error)

	ListBudgetsByStatus(ctx context.Context, organizationID string, status domain.BudgetStatus) ([]domain.Budget, error)

	UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, updatedBy string) (*domain.Budget, error)

	SubmitBudget(ctx context.Context, budgetID string, updatedBy string) (*domain.Budget, error)

	ApproveBudget(ctx context.Context, budgetID, meetingID string, updatedBy string) (*domain.Budget, error)

	RejectBudget(ctx context.Context, budgetID string, reason *string, updatedBy string) (*domain.Budget, error)

	ArchiveBudget(ctx context.Context, budgetID string, updatedBy string) (*domain.Budget, error)

	DeleteBudget(ctx context.Context, budgetID string) error

	// Variance reconciles the budget against the paid expenses of its fiscal
	// year and computes the year-end projection.
	Variance(ctx context.Context, budgetID string) (*domain.BudgetVariance, error)
}
