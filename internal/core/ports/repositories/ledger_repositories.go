package repositories

import (
	"context"
	"time"

	"github.com/coproledger/coproledger/internal/core/domain"
	"github.com/coproledger/coproledger/internal/utils/accounting"
)

// BuildingScope selects how building filtering treats organization-wide
// entries (those with a nil building ID). There is no hidden default: the
// zero value means no building filter at all.
type BuildingScope string

const (
	// ScopeOrganization applies no building filter.
	ScopeOrganization BuildingScope = ""
	// ScopeBuildingShared keeps the building's lines plus organization-wide lines.
	ScopeBuildingShared BuildingScope = "building_shared"
	// ScopeBuildingOnly keeps strictly the building's own lines.
	ScopeBuildingOnly BuildingScope = "building_only"
)

// BalanceQuery scopes a balance aggregation. The date range is inclusive of
// From and exclusive of To.
type BalanceQuery struct {
	BuildingID string
	Scope      BuildingScope
	From       *time.Time
	To         *time.Time
}

// EntryFilter narrows ListEntries results. Zero-valued fields are ignored.
type EntryFilter struct {
	BuildingID  string
	JournalType domain.JournalType
	From        *time.Time
	To          *time.Time
}

// LedgerReader defines read operations over persisted journal entries.
type LedgerReader interface {
	// FindEntryByID retrieves a single entry with its lines.
	FindEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByExpense retrieves all entries generated from one expense
	// (the recognition entry plus the payment entry once paid).
	FindEntriesByExpense(ctx context.Context, organizationID, expenseID string) ([]domain.JournalEntry, error)

	// FindEntriesByOrganization retrieves every entry of a tenant.
	FindEntriesByOrganization(ctx context.Context, organizationID string) ([]domain.JournalEntry, error)

	// FindEntriesByDateRange retrieves entries with from <= entry_date < to.
	FindEntriesByDateRange(ctx context.Context, organizationID string, from, to time.Time) ([]domain.JournalEntry, error)

	// ListEntries retrieves a filtered page of entries, newest first.
	ListEntries(ctx context.Context, organizationID string, filter EntryFilter, limit, offset int) ([]domain.JournalEntry, error)

	// FindLinesByAccount retrieves all lines posted to one account code.
	FindLinesByAccount(ctx context.Context, organizationID, accountCode string) ([]domain.JournalEntryLine, error)

	// ValidateBalance re-derives sum(debit) vs sum(credit) from the persisted
	// lines of an entry, independent of the in-memory invariant check.
	ValidateBalance(ctx context.Context, entryID string) (bool, error)

	// SumAccountTotals accumulates debit and credit totals per account code
	// within the query scope. The sign convention is applied by the balance
	// calculator, never by the store.
	SumAccountTotals(ctx context.Context, organizationID string, query BalanceQuery) (map[string]accounting.DebitCredit, error)
}

// LedgerWriter defines write operations over journal entries.
type LedgerWriter interface {
	// SaveEntry persists an entry and its lines atomically. The store holds a
	// uniqueness constraint on (source_expense_id, journal_type); a violation
	// surfaces as apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes an entry and its lines.
	DeleteEntry(ctx context.Context, organizationID, entryID string) error
}

// LedgerRepositoryFacade combines ledger read and write capabilities.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
