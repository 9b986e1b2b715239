package dto

import (
	"time"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one debit or credit line of a manual entry.
// Exactly one of debit/credit must be positive.
type CreateEntryLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Label       *string         `json:"label"`
}

// CreateEntryRequest defines the payload for creating a manual journal entry.
type CreateEntryRequest struct {
	BuildingID  *string                  `json:"buildingID"`
	EntryDate   time.Time                `json:"entryDate" binding:"required"`
	Description string                   `json:"description" binding:"required"`
	DocumentRef *string                  `json:"documentRef"`
	JournalType domain.JournalType       `json:"journalType"`
	Lines       []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ExpenseRequest is the expense snapshot posted by the expense workflow when
// it asks for entry generation. The ledger engine keeps no expense state of
// its own beyond what the generated entries reference.
type ExpenseRequest struct {
	BuildingID    string                 `json:"buildingID" binding:"required"`
	Description   string                 `json:"description" binding:"required"`
	Amount        decimal.Decimal        `json:"amount" binding:"required"`
	AmountExclVAT *decimal.Decimal       `json:"amountExclVAT"`
	VATRate       *decimal.Decimal       `json:"vatRate"`
	ExpenseDate   time.Time              `json:"expenseDate" binding:"required"`
	PaidDate      *time.Time             `json:"paidDate"`
	Category      domain.ExpenseCategory `json:"category" binding:"required"`
	Supplier      *string                `json:"supplier"`
	InvoiceNumber *string                `json:"invoiceNumber"`
	AccountCode   *string                `json:"accountCode"`
}

// ToDomainExpense builds the read-only expense view consumed by the generator.
func (r ExpenseRequest) ToDomainExpense(expenseID, organizationID string) domain.Expense {
	return domain.Expense{
		ExpenseID:      expenseID,
		OrganizationID: organizationID,
		BuildingID:     r.BuildingID,
		Description:    r.Description,
		Amount:         r.Amount,
		AmountExclVAT:  r.AmountExclVAT,
		VATRate:        r.VATRate,
		ExpenseDate:    r.ExpenseDate,
		PaidDate:       r.PaidDate,
		Category:       r.Category,
		Supplier:       r.Supplier,
		InvoiceNumber:  r.InvoiceNumber,
		AccountCode:    r.AccountCode,
	}
}

// GeneratePaymentRequest carries the expense snapshot plus the optional
// payment account override (5500 when empty).
type GeneratePaymentRequest struct {
	Expense        ExpenseRequest `json:"expense" binding:"required"`
	PaymentAccount string         `json:"paymentAccount"`
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Label       *string         `json:"label,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string              `json:"entryID"`
	OrganizationID  string              `json:"organizationID"`
	BuildingID      *string             `json:"buildingID,omitempty"`
	EntryDate       time.Time           `json:"entryDate"`
	Description     string              `json:"description"`
	DocumentRef     *string             `json:"documentRef,omitempty"`
	JournalType     domain.JournalType  `json:"journalType"`
	SourceExpenseID *string             `json:"sourceExpenseID,omitempty"`
	TotalDebits     decimal.Decimal     `json:"totalDebits"`
	TotalCredits    decimal.Decimal     `json:"totalCredits"`
	Lines           []EntryLineResponse `json:"lines"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy,omitempty"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		AccountCode: l.AccountCode,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Label:       l.Label,
	}
}

// ToEntryResponse converts a domain entry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = ToEntryLineResponse(&e.Lines[i])
	}
	return EntryResponse{
		EntryID:         e.EntryID,
		OrganizationID:  e.OrganizationID,
		BuildingID:      e.BuildingID,
		EntryDate:       e.EntryDate,
		Description:     e.Description,
		DocumentRef:     e.DocumentRef,
		JournalType:     e.JournalType,
		SourceExpenseID: e.SourceExpenseID,
		TotalDebits:     e.TotalDebits(),
		TotalCredits:    e.TotalCredits(),
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
