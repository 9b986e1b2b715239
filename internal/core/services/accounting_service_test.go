package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/core/services"
	"github.com/coproledger/coproledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountingServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockChartRepo  *MockChartRepository
	service        portssvc.AccountingSvcFacade
	organizationID string
	userID         string
	expenseAccount domain.Account
}

func (s *AccountingServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockChartRepo = new(MockChartRepository)
	s.service = services.NewAccountingService(s.mockLedgerRepo, s.mockChartRepo)

	s.organizationID = uuid.NewString()
	s.userID = uuid.NewString()
	s.expenseAccount = domain.NewAccount(s.organizationID, "6100", "General charges")
}

func (s *AccountingServiceTestSuite) newExpense(amount, amountExclVAT string) domain.Expense {
	total := decimal.RequireFromString(amount)
	accountCode := "6100"
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		OrganizationID: s.organizationID,
		BuildingID:     "bld-1",
		Description:    "Roof repair",
		Amount:         total,
		ExpenseDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:       domain.CategoryRepairs,
		AccountCode:    &accountCode,
	}
	if amountExclVAT != "" {
		excl := decimal.RequireFromString(amountExclVAT)
		rate := decimal.RequireFromString("0.21")
		expense.AmountExclVAT = &excl
		expense.VATRate = &rate
	}
	return expense
}

// captureSavedEntry wires SaveEntry to succeed and hands back the entry the
// service tried to persist.
func (s *AccountingServiceTestSuite) captureSavedEntry(saved *domain.JournalEntry) {
	s.mockLedgerRepo.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			*saved = args.Get(1).(domain.JournalEntry)
		}).
		Return(nil).Once()
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_VATSplit() {
	expense := s.newExpense("1210.00", "1000.00")
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "6100").
		Return(&s.expenseAccount, nil).Once()

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.JournalPurchases, entry.JournalType)
	require.NotNil(s.T(), entry.SourceExpenseID)
	assert.Equal(s.T(), expense.ExpenseID, *entry.SourceExpenseID)
	require.Len(s.T(), entry.Lines, 3)

	assert.Equal(s.T(), "6100", entry.Lines[0].AccountCode)
	assert.True(s.T(), entry.Lines[0].Debit.Equal(decimal.RequireFromString("1000.00")))

	assert.Equal(s.T(), domain.AccountVATRecoverable, entry.Lines[1].AccountCode)
	assert.True(s.T(), entry.Lines[1].Debit.Equal(decimal.RequireFromString("210.00")))

	assert.Equal(s.T(), domain.AccountSuppliers, entry.Lines[2].AccountCode)
	assert.True(s.T(), entry.Lines[2].Credit.Equal(decimal.RequireFromString("1210.00")))

	assert.True(s.T(), entry.IsBalanced())
	assert.Equal(s.T(), entry.EntryID, saved.EntryID)
	s.mockLedgerRepo.AssertExpectations(s.T())
	s.mockChartRepo.AssertExpectations(s.T())
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_ZeroVATCollapses() {
	// No VAT breakdown: the full amount is the expense amount, no 4110 line.
	expense := s.newExpense("500.00", "")
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "6100").
		Return(&s.expenseAccount, nil).Once()

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.NoError(s.T(), err)

	require.Len(s.T(), entry.Lines, 2)
	assert.Equal(s.T(), "6100", entry.Lines[0].AccountCode)
	assert.True(s.T(), entry.Lines[0].Debit.Equal(decimal.RequireFromString("500.00")))
	assert.Equal(s.T(), domain.AccountSuppliers, entry.Lines[1].AccountCode)
	assert.True(s.T(), entry.IsBalanced())
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_SubCentVATCollapses() {
	expense := s.newExpense("100.01", "100.00")
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "6100").
		Return(&s.expenseAccount, nil).Once()

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.NoError(s.T(), err)

	// A 0.01 residue is rounding noise: no VAT line, the expense debit
	// carries the full amount so the entry still balances.
	require.Len(s.T(), entry.Lines, 2)
	assert.True(s.T(), entry.Lines[0].Debit.Equal(decimal.RequireFromString("100.01")))
	assert.True(s.T(), entry.IsBalanced())
	for _, line := range entry.Lines {
		assert.NotEqual(s.T(), domain.AccountVATRecoverable, line.AccountCode)
	}
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_MissingAccountCode() {
	expense := s.newExpense("1210.00", "1000.00")
	expense.AccountCode = nil

	_, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.ErrorIs(s.T(), err, services.ErrMissingAccountCode)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_UnknownAccountCode() {
	expense := s.newExpense("1210.00", "1000.00")
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "6100").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.ErrorIs(s.T(), err, services.ErrInvalidAccountCode)
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_WrongAccountClass() {
	expense := s.newExpense("1210.00", "1000.00")
	bank := domain.NewAccount(s.organizationID, "5500", "Bank")
	code := "5500"
	expense.AccountCode = &code
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "5500").
		Return(&bank, nil).Once()

	_, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.ErrorIs(s.T(), err, services.ErrNotExpenseAccount)
}

func (s *AccountingServiceTestSuite) TestGenerateEntryForExpense_DuplicatePropagates() {
	expense := s.newExpense("1210.00", "1000.00")
	s.mockChartRepo.On("FindAccountByCode", mock.Anything, s.organizationID, "6100").
		Return(&s.expenseAccount, nil).Once()
	s.mockLedgerRepo.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.GenerateEntryForExpense(context.Background(), expense, s.userID)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)
}

func (s *AccountingServiceTestSuite) TestGeneratePaymentEntry_DefaultBankAccount() {
	expense := s.newExpense("1210.00", "1000.00")
	paidDate := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	expense.PaidDate = &paidDate

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.GeneratePaymentEntry(context.Background(), expense, "", s.userID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.JournalFinancial, entry.JournalType)
	assert.Equal(s.T(), paidDate, entry.EntryDate)
	require.Len(s.T(), entry.Lines, 2)

	assert.Equal(s.T(), domain.AccountSuppliers, entry.Lines[0].AccountCode)
	assert.True(s.T(), entry.Lines[0].Debit.Equal(decimal.RequireFromString("1210.00")))

	assert.Equal(s.T(), domain.AccountBank, entry.Lines[1].AccountCode)
	assert.True(s.T(), entry.Lines[1].Credit.Equal(decimal.RequireFromString("1210.00")))
}

func (s *AccountingServiceTestSuite) TestGeneratePaymentEntry_CashOverride() {
	expense := s.newExpense("80.00", "")

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.GeneratePaymentEntry(context.Background(), expense, domain.AccountCash, s.userID)
	require.NoError(s.T(), err)

	require.Len(s.T(), entry.Lines, 2)
	assert.Equal(s.T(), domain.AccountCash, entry.Lines[1].AccountCode)
}

func (s *AccountingServiceTestSuite) TestExpenseHasJournalEntries() {
	expenseID := uuid.NewString()

	s.mockLedgerRepo.On("FindEntriesByExpense", mock.Anything, s.organizationID, expenseID).
		Return([]domain.JournalEntry{}, nil).Once()
	has, err := s.service.ExpenseHasJournalEntries(context.Background(), s.organizationID, expenseID)
	require.NoError(s.T(), err)
	assert.False(s.T(), has)

	s.mockLedgerRepo.On("FindEntriesByExpense", mock.Anything, s.organizationID, expenseID).
		Return([]domain.JournalEntry{{EntryID: uuid.NewString()}}, nil).Once()
	has, err = s.service.ExpenseHasJournalEntries(context.Background(), s.organizationID, expenseID)
	require.NoError(s.T(), err)
	assert.True(s.T(), has)
}

func (s *AccountingServiceTestSuite) TestCreateManualEntry_Balanced() {
	label := "opening balance"
	req := dto.CreateEntryRequest{
		EntryDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "Opening balances",
		Lines: []dto.CreateEntryLineRequest{
			{AccountCode: "5500", Debit: decimal.RequireFromString("2500.00"), Label: &label},
			{AccountCode: "1000", Credit: decimal.RequireFromString("2500.00")},
		},
	}

	var saved domain.JournalEntry
	s.captureSavedEntry(&saved)

	entry, err := s.service.CreateManualEntry(context.Background(), s.organizationID, req, s.userID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.JournalMisc, entry.JournalType, "defaults to ODS")
	assert.True(s.T(), entry.IsBalanced())
	assert.Nil(s.T(), entry.SourceExpenseID)
}

func (s *AccountingServiceTestSuite) TestCreateManualEntry_Unbalanced() {
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now(),
		Description: "does not balance",
		Lines: []dto.CreateEntryLineRequest{
			{AccountCode: "5500", Debit: decimal.RequireFromString("100.00")},
			{AccountCode: "1000", Credit: decimal.RequireFromString("90.00")},
		},
	}

	_, err := s.service.CreateManualEntry(context.Background(), s.organizationID, req, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountingServiceTestSuite) TestCreateManualEntry_BothSidesRejected() {
	req := dto.CreateEntryRequest{
		EntryDate:   time.Now(),
		Description: "both sides",
		Lines: []dto.CreateEntryLineRequest{
			{AccountCode: "5500", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)},
			{AccountCode: "1000", Credit: decimal.NewFromInt(10)},
		},
	}

	_, err := s.service.CreateManualEntry(context.Background(), s.organizationID, req, s.userID)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountingServiceTestSuite) TestListEntries_ClampsPagination() {
	s.mockLedgerRepo.On("ListEntries", mock.Anything, s.organizationID, mock.Anything, 20, 0).
		Return([]domain.JournalEntry{}, nil).Once()

	_, err := s.service.ListEntries(context.Background(), s.organizationID,
		portsrepo.EntryFilter{}, -5, -3)
	require.NoError(s.T(), err)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func TestAccountingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountingServiceTestSuite))
}
