package dto

import (
	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse is one row of a balance report.
type AccountBalanceResponse struct {
	AccountCode string              `json:"accountCode"`
	Label       string              `json:"label,omitempty"`
	Class       domain.AccountClass `json:"class"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	Balance     decimal.Decimal     `json:"balance"`
}

// BalanceReportResponse wraps the per-account balances of one query.
type BalanceReportResponse struct {
	OrganizationID string                   `json:"organizationID"`
	BuildingID     string                   `json:"buildingID,omitempty"`
	Balances       []AccountBalanceResponse `json:"balances"`
}

// ToAccountBalanceResponses converts domain balance rows.
func ToAccountBalanceResponses(rows []domain.AccountBalance) []AccountBalanceResponse {
	responses := make([]AccountBalanceResponse, len(rows))
	for i, row := range rows {
		responses[i] = AccountBalanceResponse{
			AccountCode: row.AccountCode,
			Label:       row.Label,
			Class:       row.Class,
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
		}
	}
	return responses
}

// VarianceResponse is the serialized budget variance view.
type VarianceResponse struct {
	BudgetID   string `json:"budgetID"`
	FiscalYear int    `json:"fiscalYear"`
	BuildingID string `json:"buildingID"`

	BudgetedOrdinary      decimal.Decimal `json:"budgetedOrdinary"`
	BudgetedExtraordinary decimal.Decimal `json:"budgetedExtraordinary"`
	BudgetedTotal         decimal.Decimal `json:"budgetedTotal"`

	ActualOrdinary      decimal.Decimal `json:"actualOrdinary"`
	ActualExtraordinary decimal.Decimal `json:"actualExtraordinary"`
	ActualTotal         decimal.Decimal `json:"actualTotal"`

	VarianceOrdinary      decimal.Decimal `json:"varianceOrdinary"`
	VarianceExtraordinary decimal.Decimal `json:"varianceExtraordinary"`
	VarianceTotal         decimal.Decimal `json:"varianceTotal"`

	VarianceOrdinaryPct      decimal.Decimal `json:"varianceOrdinaryPct"`
	VarianceExtraordinaryPct decimal.Decimal `json:"varianceExtraordinaryPct"`
	VarianceTotalPct         decimal.Decimal `json:"varianceTotalPct"`

	HasOverruns       bool     `json:"hasOverruns"`
	OverrunCategories []string `json:"overrunCategories"`

	MonthsElapsed         int             `json:"monthsElapsed"`
	ProjectedYearEndTotal decimal.Decimal `json:"projectedYearEndTotal"`
}

// ToVarianceResponse converts the domain variance view.
func ToVarianceResponse(v *domain.BudgetVariance) VarianceResponse {
	return VarianceResponse{
		BudgetID:                 v.BudgetID,
		FiscalYear:               v.FiscalYear,
		BuildingID:               v.BuildingID,
		BudgetedOrdinary:         v.BudgetedOrdinary,
		BudgetedExtraordinary:    v.BudgetedExtraordinary,
		BudgetedTotal:            v.BudgetedTotal,
		ActualOrdinary:           v.ActualOrdinary,
		ActualExtraordinary:      v.ActualExtraordinary,
		ActualTotal:              v.ActualTotal,
		VarianceOrdinary:         v.VarianceOrdinary,
		VarianceExtraordinary:    v.VarianceExtraordinary,
		VarianceTotal:            v.VarianceTotal,
		VarianceOrdinaryPct:      v.VarianceOrdinaryPct,
		VarianceExtraordinaryPct: v.VarianceExtraordinaryPct,
		VarianceTotalPct:         v.VarianceTotalPct,
		HasOverruns:              v.HasOverruns,
		OverrunCategories:        v.OverrunCategories,
		MonthsElapsed:            v.MonthsElapsed,
		ProjectedYearEndTotal:    v.ProjectedYearEndTotal,
	}
}
