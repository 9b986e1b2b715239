package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalType partitions entries by origin.
type JournalType string

const (
	JournalPurchases JournalType = "ACH" // Supplier invoices
	JournalSales     JournalType = "VEN"
	JournalFinancial JournalType = "FIN" // Payments, bank movements
	JournalMisc      JournalType = "ODS"
)

// validJournalTypes is the closed set of accepted journal codes.
var validJournalTypes = map[JournalType]bool{
	JournalPurchases: true,
	JournalSales:     true,
	JournalFinancial: true,
	JournalMisc:      true,
}

// JournalEntry represents a single balanced financial event composed of
// multiple debit and credit lines (double-entry bookkeeping). Entries are
// append-only: corrections are new reversing entries, never mutations.
type JournalEntry struct {
	EntryID        string      `json:"entryID"`
	OrganizationID string      `json:"organizationID"`
	BuildingID     *string     `json:"buildingID"` // Nil means organization-wide
	EntryDate      time.Time   `json:"entryDate"`  // Date the event occurred, not when recorded
	Description    string      `json:"description"`
	DocumentRef    *string     `json:"documentRef"` // Invoice number, receipt reference
	JournalType    JournalType `json:"journalType"`
	// Back-references to the triggering business record, if any.
	SourceExpenseID      *string            `json:"sourceExpenseID"`
	SourceContributionID *string            `json:"sourceContributionID"`
	Lines                []JournalEntryLine `json:"lines"` // Insertion order significant for display only
	AuditFields
}

// JournalEntryLine is a single debit or credit line within an entry,
// affecting one account. Exactly one of Debit/Credit is non-zero.
type JournalEntryLine struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	LineNumber     int             `json:"lineNumber"` // 1-based position within the entry
	OrganizationID string          `json:"organizationID"`
	AccountCode    string          `json:"accountCode"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Label          *string         `json:"label"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewDebitLine creates a debit line for the given account and amount.
func NewDebitLine(entryID, organizationID, accountCode string, amount decimal.Decimal, label *string) (JournalEntryLine, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return JournalEntryLine{}, fmt.Errorf("debit amount must be positive, got %s", amount)
	}
	return JournalEntryLine{
		LineID:         uuid.NewString(),
		EntryID:        entryID,
		OrganizationID: organizationID,
		AccountCode:    accountCode,
		Debit:          amount,
		Credit:         decimal.Zero,
		Label:          label,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// NewCreditLine creates a credit line for the given account and amount.
func NewCreditLine(entryID, organizationID, accountCode string, amount decimal.Decimal, label *string) (JournalEntryLine, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return JournalEntryLine{}, fmt.Errorf("credit amount must be positive, got %s", amount)
	}
	return JournalEntryLine{
		LineID:         uuid.NewString(),
		EntryID:        entryID,
		OrganizationID: organizationID,
		AccountCode:    accountCode,
		Debit:          decimal.Zero,
		Credit:         amount,
		Label:          label,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsDebit reports whether this is a debit line.
func (l JournalEntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the line amount regardless of side.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// validate checks the one-side-only rule for a line.
func (l JournalEntryLine) validate() error {
	if l.Debit.IsPositive() && l.Credit.IsPositive() {
		return fmt.Errorf("line on account %s cannot have both debit and credit", l.AccountCode)
	}
	if l.Debit.IsZero() && l.Credit.IsZero() {
		return fmt.Errorf("line on account %s must have either debit or credit", l.AccountCode)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("line amounts must be non-negative on account %s", l.AccountCode)
	}
	if l.AccountCode == "" {
		return fmt.Errorf("line is missing an account code")
	}
	return nil
}

// NewJournalEntry constructs a journal entry and validates the balance
// invariant before it can reach any store.
func NewJournalEntry(organizationID string, buildingID *string, entryDate time.Time, description string, documentRef *string, journalType JournalType, sourceExpenseID, sourceContributionID *string, lines []JournalEntryLine, createdBy string) (*JournalEntry, error) {
	entry := &JournalEntry{
		EntryID:              uuid.NewString(),
		OrganizationID:       organizationID,
		BuildingID:           buildingID,
		EntryDate:            entryDate,
		Description:          description,
		DocumentRef:          documentRef,
		JournalType:          journalType,
		SourceExpenseID:      sourceExpenseID,
		SourceContributionID: sourceContributionID,
		Lines:                lines,
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.CreatedBy = createdBy
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = createdBy

	// Re-parent lines that were built before the entry ID existed and fix
	// their display positions.
	for i := range entry.Lines {
		entry.Lines[i].EntryID = entry.EntryID
		entry.Lines[i].LineNumber = i + 1
		if entry.Lines[i].OrganizationID == "" {
			entry.Lines[i].OrganizationID = organizationID
		}
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate checks per-line rules, the journal type and the balance invariant.
func (e *JournalEntry) Validate() error {
	if len(e.Lines) == 0 {
		return fmt.Errorf("journal entry must have at least one line")
	}
	for _, line := range e.Lines {
		if err := line.validate(); err != nil {
			return err
		}
	}
	if e.JournalType != "" && !validJournalTypes[e.JournalType] {
		return fmt.Errorf("invalid journal type %q, must be one of ACH, VEN, FIN, ODS", e.JournalType)
	}
	if !e.IsBalanced() {
		return fmt.Errorf("journal entry is unbalanced: debits=%s credits=%s",
			e.TotalDebits(), e.TotalCredits())
	}
	return nil
}

// TotalDebits sums the debit side of the entry.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the entry.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits to the cent.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebits().Equal(e.TotalCredits())
}
