package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetStatus indicates where a budget sits in the approval workflow.
type BudgetStatus string

const (
	BudgetDraft     BudgetStatus = "draft"
	BudgetSubmitted BudgetStatus = "submitted" // Awaiting the general-assembly vote
	BudgetApproved  BudgetStatus = "approved"
	BudgetRejected  BudgetStatus = "rejected"
	BudgetArchived  BudgetStatus = "archived" // Fiscal year closed
)

// Budget is the annual budget of a building, split into ordinary (recurring)
// and extraordinary (works) charges. TotalBudget and MonthlyProvisionAmount
// are derived and maintained by the constructor and UpdateAmounts.
type Budget struct {
	BudgetID               string          `json:"budgetID"`
	OrganizationID         string          `json:"organizationID"`
	BuildingID             string          `json:"buildingID"`
	FiscalYear             int             `json:"fiscalYear"`
	OrdinaryBudget         decimal.Decimal `json:"ordinaryBudget"`
	ExtraordinaryBudget    decimal.Decimal `json:"extraordinaryBudget"`
	TotalBudget            decimal.Decimal `json:"totalBudget"`
	Status                 BudgetStatus    `json:"status"`
	SubmittedDate          *time.Time      `json:"submittedDate"`
	ApprovedDate           *time.Time      `json:"approvedDate"`
	ApprovedByMeetingID    *string         `json:"approvedByMeetingID"`
	MonthlyProvisionAmount decimal.Decimal `json:"monthlyProvisionAmount"` // TotalBudget / 12
	Notes                  *string         `json:"notes"`
	AuditFields
}

// NewBudget builds a draft budget and derives the total and monthly provision.
func NewBudget(organizationID, buildingID string, fiscalYear int, ordinary, extraordinary decimal.Decimal) (*Budget, error) {
	if fiscalYear < 2000 || fiscalYear > 2100 {
		return nil, fmt.Errorf("fiscal year must be between 2000 and 2100, got %d", fiscalYear)
	}
	if ordinary.IsNegative() {
		return nil, fmt.Errorf("ordinary budget cannot be negative")
	}
	if extraordinary.IsNegative() {
		return nil, fmt.Errorf("extraordinary budget cannot be negative")
	}
	total := ordinary.Add(extraordinary)
	if total.IsZero() {
		return nil, fmt.Errorf("total budget cannot be zero")
	}

	now := time.Now().UTC()
	b := &Budget{
		BudgetID:               uuid.NewString(),
		OrganizationID:         organizationID,
		BuildingID:             buildingID,
		FiscalYear:             fiscalYear,
		OrdinaryBudget:         ordinary,
		ExtraordinaryBudget:    extraordinary,
		TotalBudget:            total,
		Status:                 BudgetDraft,
		MonthlyProvisionAmount: total.Div(decimal.NewFromInt(12)).Round(2),
	}
	b.CreatedAt = now
	b.LastUpdatedAt = now
	return b, nil
}

// SubmitForApproval moves a draft or rejected budget to submitted.
func (b *Budget) SubmitForApproval() error {
	switch b.Status {
	case BudgetDraft, BudgetRejected:
		now := time.Now().UTC()
		b.Status = BudgetSubmitted
		b.SubmittedDate = &now
		b.LastUpdatedAt = now
		return nil
	default:
		return fmt.Errorf("cannot submit budget with status %s", b.Status)
	}
}

// Approve marks a submitted budget approved, recording the approving meeting.
func (b *Budget) Approve(meetingID string) error {
	if b.Status != BudgetSubmitted {
		return fmt.Errorf("cannot approve budget with status %s", b.Status)
	}
	now := time.Now().UTC()
	b.Status = BudgetApproved
	b.ApprovedDate = &now
	b.ApprovedByMeetingID = &meetingID
	b.LastUpdatedAt = now
	return nil
}

// Reject marks a submitted budget rejected. A rejected budget can be
// resubmitted; its amounts stay frozen.
func (b *Budget) Reject() error {
	if b.Status != BudgetSubmitted {
		return fmt.Errorf("cannot reject budget with status %s", b.Status)
	}
	b.Status = BudgetRejected
	b.LastUpdatedAt = time.Now().UTC()
	return nil
}

// Archive closes an approved budget at fiscal year end.
func (b *Budget) Archive() error {
	if b.Status != BudgetApproved {
		return fmt.Errorf("cannot archive budget with status %s", b.Status)
	}
	b.Status = BudgetArchived
	b.LastUpdatedAt = time.Now().UTC()
	return nil
}

// UpdateAmounts replaces the budgeted amounts. Only allowed while in draft.
func (b *Budget) UpdateAmounts(ordinary, extraordinary decimal.Decimal) error {
	if b.Status != BudgetDraft {
		return fmt.Errorf("can only update amounts in draft status")
	}
	if ordinary.IsNegative() || extraordinary.IsNegative() {
		return fmt.Errorf("budget amounts cannot be negative")
	}
	total := ordinary.Add(extraordinary)
	if total.IsZero() {
		return fmt.Errorf("total budget cannot be zero")
	}
	b.OrdinaryBudget = ordinary
	b.ExtraordinaryBudget = extraordinary
	b.TotalBudget = total
	b.MonthlyProvisionAmount = total.Div(decimal.NewFromInt(12)).Round(2)
	b.LastUpdatedAt = time.Now().UTC()
	return nil
}

// UpdateNotes sets or replaces the free-text notes.
func (b *Budget) UpdateNotes(notes string) {
	b.Notes = &notes
	b.LastUpdatedAt = time.Now().UTC()
}

// IsActive reports whether this is the approved budget currently in force.
func (b *Budget) IsActive() bool {
	return b.Status == BudgetApproved
}

// IsEditable reports whether the budget amounts may still change.
func (b *Budget) IsEditable() bool {
	return b.Status == BudgetDraft
}
