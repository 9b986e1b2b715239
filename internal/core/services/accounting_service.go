package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingAccountCode = errors.New("expense must have an account code to generate a journal entry")
	ErrInvalidAccountCode = errors.New("account code is not in the chart of accounts")
	ErrNotExpenseAccount  = errors.New("expense account code must be a class 6 expense account")
)

// vatLineThreshold suppresses near-zero VAT lines produced by rounding.
var vatLineThreshold = decimal.NewFromFloat(0.01)

// accountingService generates balanced journal entries from expense events
// and exposes the ledger read path.
type accountingService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	chartRepo  portsrepo.ChartRepository
}

// NewAccountingService creates a new AccountingService.
func NewAccountingService(ledgerRepo portsrepo.LedgerRepositoryFacade, chartRepo portsrepo.ChartRepository) portssvc.AccountingSvcFacade {
	return &accountingService{
		ledgerRepo: ledgerRepo,
		chartRepo:  chartRepo,
	}
}

// Ensure accountingService implements the facade.
var _ portssvc.AccountingSvcFacade = (*accountingService)(nil)

// validateExpenseAccount checks that the code exists in the tenant's chart
// and carries the expense class.
func (s *accountingService) validateExpenseAccount(ctx context.Context, organizationID, code string) error {
	account, err := s.chartRepo.FindAccountByCode(ctx, organizationID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %w: %s", apperrors.ErrValidation, ErrInvalidAccountCode, code)
		}
		return fmt.Errorf("failed to look up account %s: %w", code, err)
	}
	if account.Class != domain.ClassExpense {
		return fmt.Errorf("%w: %w: %s is %s", apperrors.ErrValidation, ErrNotExpenseAccount, code, account.Class)
	}
	return nil
}

// GenerateEntryForExpense builds the recognition entry for an approved expense.
//
// For a 1,210.00 expense with 1,000.00 excl. VAT:
//
//	Debit  6100 (expense account)  1,000.00
//	Debit  4110 (VAT recoverable)    210.00
//	Credit 4400 (suppliers)        1,210.00
func (s *accountingService) GenerateEntryForExpense(ctx context.Context, expense domain.Expense, createdBy string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if expense.AccountCode == nil || *expense.AccountCode == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrMissingAccountCode)
	}
	accountCode := *expense.AccountCode

	if err := s.validateExpenseAccount(ctx, expense.OrganizationID, accountCode); err != nil {
		return nil, err
	}

	// Fall back to the full amount when no VAT breakdown is present.
	amountExclVAT := expense.Amount
	if expense.AmountExclVAT != nil {
		amountExclVAT = *expense.AmountExclVAT
	}
	vatAmount := expense.Amount.Sub(amountExclVAT)

	// A residue at or below the threshold folds into the expense line so the
	// entry still balances without a noise VAT line.
	expenseAmount := amountExclVAT
	if !vatAmount.GreaterThan(vatLineThreshold) {
		expenseAmount = expense.Amount
	}

	lines := make([]domain.JournalEntryLine, 0, 3)

	expenseLabel := fmt.Sprintf("Expense: %s", expense.Description)
	expenseLine, err := domain.NewDebitLine("", expense.OrganizationID, accountCode, expenseAmount, &expenseLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: expense debit line: %w", apperrors.ErrValidation, err)
	}
	lines = append(lines, expenseLine)

	if vatAmount.GreaterThan(vatLineThreshold) {
		vatRate := decimal.Zero
		if expense.VATRate != nil {
			vatRate = *expense.VATRate
		}
		vatLabel := fmt.Sprintf("VAT recoverable %s%%", vatRate.Mul(decimal.NewFromInt(100)))
		vatLine, err := domain.NewDebitLine("", expense.OrganizationID, domain.AccountVATRecoverable, vatAmount, &vatLabel)
		if err != nil {
			return nil, fmt.Errorf("%w: VAT debit line: %w", apperrors.ErrValidation, err)
		}
		lines = append(lines, vatLine)
	}

	var supplierLabel *string
	if expense.Supplier != nil {
		label := fmt.Sprintf("Supplier: %s", *expense.Supplier)
		supplierLabel = &label
	}
	supplierLine, err := domain.NewCreditLine("", expense.OrganizationID, domain.AccountSuppliers, expense.Amount, supplierLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: supplier credit line: %w", apperrors.ErrValidation, err)
	}
	lines = append(lines, supplierLine)

	buildingID := expense.BuildingID
	entry, err := domain.NewJournalEntry(
		expense.OrganizationID,
		&buildingID,
		expense.ExpenseDate,
		fmt.Sprintf("%s - %s", expense.Description, expense.Category),
		expense.InvoiceNumber,
		domain.JournalPurchases,
		&expense.ExpenseID,
		nil,
		lines,
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.ledgerRepo.SaveEntry(ctx, *entry); err != nil {
		logger.Error("Failed to persist expense journal entry",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal entry generated for expense",
		slog.String("entry_id", entry.EntryID),
		slog.String("expense_id", expense.ExpenseID),
		slog.Int("line_count", len(entry.Lines)))
	return entry, nil
}

// GeneratePaymentEntry records the settlement of an expense:
//
//	Debit  4400 (suppliers)        1,210.00
//	Credit 5500 (bank)             1,210.00
func (s *accountingService) GeneratePaymentEntry(ctx context.Context, expense domain.Expense, paymentAccount string, createdBy string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if paymentAccount == "" {
		paymentAccount = domain.AccountBank
	}

	supplierLabel := fmt.Sprintf("Payment: %s", expense.Description)
	supplierLine, err := domain.NewDebitLine("", expense.OrganizationID, domain.AccountSuppliers, expense.Amount, &supplierLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: supplier debit line: %w", apperrors.ErrValidation, err)
	}

	paymentLabel := fmt.Sprintf("Paid via %s", paymentAccountName(paymentAccount))
	paymentLine, err := domain.NewCreditLine("", expense.OrganizationID, paymentAccount, expense.Amount, &paymentLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: payment credit line: %w", apperrors.ErrValidation, err)
	}

	entryDate := time.Now().UTC()
	if expense.PaidDate != nil {
		entryDate = *expense.PaidDate
	}

	buildingID := expense.BuildingID
	entry, err := domain.NewJournalEntry(
		expense.OrganizationID,
		&buildingID,
		entryDate,
		fmt.Sprintf("Payment: %s", expense.Description),
		expense.InvoiceNumber,
		domain.JournalFinancial,
		&expense.ExpenseID,
		nil,
		[]domain.JournalEntryLine{supplierLine, paymentLine},
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.ledgerRepo.SaveEntry(ctx, *entry); err != nil {
		logger.Error("Failed to persist payment journal entry",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment entry generated for expense",
		slog.String("entry_id", entry.EntryID),
		slog.String("expense_id", expense.ExpenseID),
		slog.String("payment_account", paymentAccount))
	return entry, nil
}

// paymentAccountName resolves the display name of well-known payment accounts.
func paymentAccountName(code string) string {
	switch code {
	case domain.AccountBank:
		return "bank"
	case domain.AccountCash:
		return "cash"
	default:
		return code
	}
}

// ExpenseHasJournalEntries reports whether any entry references the expense.
// Used by workflows as the duplicate-generation pre-check; the store's
// uniqueness constraint on (source_expense_id, journal_type) is the guarantee.
func (s *accountingService) ExpenseHasJournalEntries(ctx context.Context, organizationID, expenseID string) (bool, error) {
	entries, err := s.ledgerRepo.FindEntriesByExpense(ctx, organizationID, expenseID)
	if err != nil {
		return false, fmt.Errorf("failed to find entries for expense %s: %w", expenseID, err)
	}
	return len(entries) > 0, nil
}

// GetExpenseJournalEntries returns all entries generated from the expense.
func (s *accountingService) GetExpenseJournalEntries(ctx context.Context, organizationID, expenseID string) ([]domain.JournalEntry, error) {
	entries, err := s.ledgerRepo.FindEntriesByExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries for expense %s: %w", expenseID, err)
	}
	return entries, nil
}

// CreateManualEntry persists a caller-assembled balanced entry.
func (s *accountingService) CreateManualEntry(ctx context.Context, organizationID string, req dto.CreateEntryRequest, createdBy string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines := make([]domain.JournalEntryLine, 0, len(req.Lines))
	for _, lineReq := range req.Lines {
		switch {
		case lineReq.Debit.IsPositive() && lineReq.Credit.IsPositive():
			return nil, fmt.Errorf("%w: line on account %s cannot have both debit and credit", apperrors.ErrValidation, lineReq.AccountCode)
		case lineReq.Debit.IsPositive():
			line, err := domain.NewDebitLine("", organizationID, lineReq.AccountCode, lineReq.Debit, lineReq.Label)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
			}
			lines = append(lines, line)
		case lineReq.Credit.IsPositive():
			line, err := domain.NewCreditLine("", organizationID, lineReq.AccountCode, lineReq.Credit, lineReq.Label)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
			}
			lines = append(lines, line)
		default:
			return nil, fmt.Errorf("%w: line on account %s must have either debit or credit", apperrors.ErrValidation, lineReq.AccountCode)
		}
	}

	journalType := req.JournalType
	if journalType == "" {
		journalType = domain.JournalMisc
	}

	entry, err := domain.NewJournalEntry(
		organizationID,
		req.BuildingID,
		req.EntryDate,
		req.Description,
		req.DocumentRef,
		journalType,
		nil,
		nil,
		lines,
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if err := s.ledgerRepo.SaveEntry(ctx, *entry); err != nil {
		logger.Error("Failed to persist manual journal entry", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Manual journal entry created", slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// GetEntry retrieves a single entry with its lines.
func (s *accountingService) GetEntry(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, organizationID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find entry by ID",
				slog.String("entry_id", entryID),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves a filtered page of entries, newest first.
func (s *accountingService) ListEntries(ctx context.Context, organizationID string, filter portsrepo.EntryFilter, limit, offset int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledgerRepo.ListEntries(ctx, organizationID, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// ValidateEntryBalance re-checks the balance invariant from persisted rows.
func (s *accountingService) ValidateEntryBalance(ctx context.Context, entryID string) (bool, error) {
	balanced, err := s.ledgerRepo.ValidateBalance(ctx, entryID)
	if err != nil {
		return false, fmt.Errorf("failed to validate balance of entry %s: %w", entryID, err)
	}
	return balanced, nil
}

// DeleteEntry removes an entry and its lines.
func (s *accountingService) DeleteEntry(ctx context.Context, organizationID, entryID string) error {
	if err := s.ledgerRepo.DeleteEntry(ctx, organizationID, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}
