package services

import (
	"context"

	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	"github.com/coproledger/coproledger/internal/dto"
)

// AccountingSvcFacade is the journal entry generator surface exposed to
// workflow collaborators (expense approval, payment recording) plus the
// ledger read path.
type AccountingSvcFacade interface {
	// GenerateEntryForExpense builds and persists the recognition entry for an
	// approved expense: debit on the expense account for the VAT-exclusive
	// amount, debit on 4110 for the VAT when above the rounding threshold,
	// credit on 4400 for the full amount.
	GenerateEntryForExpense(ctx context.Context, expense domain.Expense, createdBy string) (*domain.JournalEntry, error)

	// GeneratePaymentEntry builds and persists the payment entry: debit on
	// 4400 and credit on the payment account (5500 when unspecified).
	GeneratePaymentEntry(ctx context.Context, expense domain.Expense, paymentAccount string, createdBy string) (*domain.JournalEntry, error)

	// ExpenseHasJournalEntries reports whether any entry references the expense.
	ExpenseHasJournalEntries(ctx context.Context, organizationID, expenseID string) (bool, error)

	// GetExpenseJournalEntries returns all entries generated from the expense.
	GetExpenseJournalEntries(ctx context.Context, organizationID, expenseID string) ([]domain.JournalEntry, error)

	// CreateManualEntry persists a caller-assembled balanced entry (ODS style
	// corrections, opening balances).
	CreateManualEntry(ctx context.Context, organizationID string, req dto.CreateEntryRequest, createdBy string) (*domain.JournalEntry, error)

	GetEntry(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error)

	ListEntries(ctx context.Context, organizationID string, filter portsrepo.EntryFilter, limit, offset int) ([]domain.JournalEntry, error)

	// ValidateEntryBalance re-checks the balance invariant from persisted rows.
	ValidateEntryBalance(ctx context.Context, entryID string) (bool, error)

	DeleteEntry(ctx context.Context, organizationID, entryID string) error
}
