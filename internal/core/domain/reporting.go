package domain

import (
	"github.com/shopspring/decimal"
)

// AccountBalance is one row of a balance report: debit and credit totals for
// an account plus the signed balance under the class-aware sign convention.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	Class       AccountClass    `json:"class"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// BudgetVariance joins a budget with actual spending for the same building
// and fiscal year. Derived, never persisted.
type BudgetVariance struct {
	BudgetID   string `json:"budgetID"`
	FiscalYear int    `json:"fiscalYear"`
	BuildingID string `json:"buildingID"`

	BudgetedOrdinary      decimal.Decimal `json:"budgetedOrdinary"`
	BudgetedExtraordinary decimal.Decimal `json:"budgetedExtraordinary"`
	BudgetedTotal         decimal.Decimal `json:"budgetedTotal"`

	ActualOrdinary      decimal.Decimal `json:"actualOrdinary"`
	ActualExtraordinary decimal.Decimal `json:"actualExtraordinary"`
	ActualTotal         decimal.Decimal `json:"actualTotal"`

	// Positive variance means under budget.
	VarianceOrdinary      decimal.Decimal `json:"varianceOrdinary"`
	VarianceExtraordinary decimal.Decimal `json:"varianceExtraordinary"`
	VarianceTotal         decimal.Decimal `json:"varianceTotal"`

	VarianceOrdinaryPct      decimal.Decimal `json:"varianceOrdinaryPct"`
	VarianceExtraordinaryPct decimal.Decimal `json:"varianceExtraordinaryPct"`
	VarianceTotalPct         decimal.Decimal `json:"varianceTotalPct"`

	HasOverruns       bool     `json:"hasOverruns"`
	OverrunCategories []string `json:"overrunCategories"`

	MonthsElapsed int `json:"monthsElapsed"`
	// Naive linear projection, not a seasonally adjusted forecast.
	ProjectedYearEndTotal decimal.Decimal `json:"projectedYearEndTotal"`
}
