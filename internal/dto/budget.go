package dto

import (
	"time"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the payload for creating a draft budget.
type CreateBudgetRequest struct {
	BuildingID          string          `json:"buildingID" binding:"required"`
	FiscalYear          int             `json:"fiscalYear" binding:"required"`
	OrdinaryBudget      decimal.Decimal `json:"ordinaryBudget"`
	ExtraordinaryBudget decimal.Decimal `json:"extraordinaryBudget"`
	Notes               *string         `json:"notes"`
}

// UpdateBudgetRequest updates draft amounts and/or notes. Both amounts must
// be provided together so the derived total stays consistent.
type UpdateBudgetRequest struct {
	OrdinaryBudget      *decimal.Decimal `json:"ordinaryBudget"`
	ExtraordinaryBudget *decimal.Decimal `json:"extraordinaryBudget"`
	Notes               *string          `json:"notes"`
}

// ApproveBudgetRequest carries the meeting that approved the budget.
type ApproveBudgetRequest struct {
	MeetingID string `json:"meetingID" binding:"required"`
}

// RejectBudgetRequest carries the optional rejection reason.
type RejectBudgetRequest struct {
	Reason *string `json:"reason"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID               string              `json:"budgetID"`
	OrganizationID         string              `json:"organizationID"`
	BuildingID             string              `json:"buildingID"`
	FiscalYear             int                 `json:"fiscalYear"`
	OrdinaryBudget         decimal.Decimal     `json:"ordinaryBudget"`
	ExtraordinaryBudget    decimal.Decimal     `json:"extraordinaryBudget"`
	TotalBudget            decimal.Decimal     `json:"totalBudget"`
	Status                 domain.BudgetStatus `json:"status"`
	SubmittedDate          *time.Time          `json:"submittedDate,omitempty"`
	ApprovedDate           *time.Time          `json:"approvedDate,omitempty"`
	ApprovedByMeetingID    *string             `json:"approvedByMeetingID,omitempty"`
	MonthlyProvisionAmount decimal.Decimal     `json:"monthlyProvisionAmount"`
	Notes                  *string             `json:"notes,omitempty"`
	CreatedAt              time.Time           `json:"createdAt"`
}

// ToBudgetResponse converts a domain budget to its response DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:               b.BudgetID,
		OrganizationID:         b.OrganizationID,
		BuildingID:             b.BuildingID,
		FiscalYear:             b.FiscalYear,
		OrdinaryBudget:         b.OrdinaryBudget,
		ExtraordinaryBudget:    b.ExtraordinaryBudget,
		TotalBudget:            b.TotalBudget,
		Status:                 b.Status,
		SubmittedDate:          b.SubmittedDate,
		ApprovedDate:           b.ApprovedDate,
		ApprovedByMeetingID:    b.ApprovedByMeetingID,
		MonthlyProvisionAmount: b.MonthlyProvisionAmount,
		Notes:                  b.Notes,
		CreatedAt:              b.CreatedAt,
	}
}

// ToBudgetResponses converts a slice of domain budgets.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i])
	}
	return responses
}
