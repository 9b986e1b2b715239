package services_test

import (
	"context"
	"testing"

	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/core/services"
	"github.com/coproledger/coproledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockChartRepo  *MockChartRepository
	service        portssvc.BalanceSvcFacade
	organizationID string
}

func (s *BalanceServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockChartRepo = new(MockChartRepository)
	s.service = services.NewBalanceService(s.mockLedgerRepo, s.mockChartRepo)
	s.organizationID = uuid.NewString()
}

func (s *BalanceServiceTestSuite) chart(codes ...string) []domain.Account {
	accounts := make([]domain.Account, len(codes))
	for i, code := range codes {
		accounts[i] = domain.NewAccount(s.organizationID, code, "Account "+code)
	}
	return accounts
}

func (s *BalanceServiceTestSuite) TestAccountBalances_SignConvention() {
	query := portsrepo.BalanceQuery{}
	s.mockLedgerRepo.On("SumAccountTotals", mock.Anything, s.organizationID, query).
		Return(map[string]accounting.DebitCredit{
			"6100": {Debit: decimal.RequireFromString("1000.00"), Credit: decimal.Zero},
			"4400": {Debit: decimal.RequireFromString("300.00"), Credit: decimal.RequireFromString("1210.00")},
			"7000": {Debit: decimal.Zero, Credit: decimal.RequireFromString("2500.00")},
		}, nil).Once()
	s.mockChartRepo.On("ListAccounts", mock.Anything, s.organizationID).
		Return(s.chart("4400", "6100", "7000"), nil).Once()

	balances, err := s.service.AccountBalances(context.Background(), s.organizationID, query)
	require.NoError(s.T(), err)
	require.Len(s.T(), balances, 3)

	// Sorted by account code.
	assert.Equal(s.T(), "4400", balances[0].AccountCode)
	assert.Equal(s.T(), "6100", balances[1].AccountCode)
	assert.Equal(s.T(), "7000", balances[2].AccountCode)

	// 4400 is an asset-class code under the leading-digit rule; debit minus credit.
	assert.True(s.T(), balances[0].Balance.Equal(decimal.RequireFromString("-910.00")))
	// Expense accounts grow with debits.
	assert.True(s.T(), balances[1].Balance.Equal(decimal.RequireFromString("1000.00")))
	// Revenue accounts grow with credits.
	assert.True(s.T(), balances[2].Balance.Equal(decimal.RequireFromString("2500.00")))
}

func (s *BalanceServiceTestSuite) TestAccountBalances_ZeroRowsForIdleAccounts() {
	query := portsrepo.BalanceQuery{}
	s.mockLedgerRepo.On("SumAccountTotals", mock.Anything, s.organizationID, query).
		Return(map[string]accounting.DebitCredit{}, nil).Once()
	s.mockChartRepo.On("ListAccounts", mock.Anything, s.organizationID).
		Return(s.chart("5500", "6100"), nil).Once()

	balances, err := s.service.AccountBalances(context.Background(), s.organizationID, query)
	require.NoError(s.T(), err)
	require.Len(s.T(), balances, 2, "chart accounts without lines still report")

	for _, balance := range balances {
		assert.True(s.T(), balance.Debit.IsZero())
		assert.True(s.T(), balance.Credit.IsZero())
		assert.True(s.T(), balance.Balance.IsZero())
	}
}

func (s *BalanceServiceTestSuite) TestAccountBalances_UnchartedCodeSurfaces() {
	query := portsrepo.BalanceQuery{}
	s.mockLedgerRepo.On("SumAccountTotals", mock.Anything, s.organizationID, query).
		Return(map[string]accounting.DebitCredit{
			"6666": {Debit: decimal.RequireFromString("42.00"), Credit: decimal.Zero},
		}, nil).Once()
	s.mockChartRepo.On("ListAccounts", mock.Anything, s.organizationID).
		Return([]domain.Account{}, nil).Once()

	balances, err := s.service.AccountBalances(context.Background(), s.organizationID, query)
	require.NoError(s.T(), err)
	require.Len(s.T(), balances, 1)

	assert.Equal(s.T(), "6666", balances[0].AccountCode)
	assert.Equal(s.T(), domain.ClassExpense, balances[0].Class, "class falls back to the leading digit")
	assert.True(s.T(), balances[0].Balance.Equal(decimal.RequireFromString("42.00")))
}

func (s *BalanceServiceTestSuite) TestAccountBalances_ScopePassedThrough() {
	query := portsrepo.BalanceQuery{
		BuildingID: "bld-1",
		Scope:      portsrepo.ScopeBuildingOnly,
	}
	s.mockLedgerRepo.On("SumAccountTotals", mock.Anything, s.organizationID, query).
		Return(map[string]accounting.DebitCredit{}, nil).Once()
	s.mockChartRepo.On("ListAccounts", mock.Anything, s.organizationID).
		Return([]domain.Account{}, nil).Once()

	_, err := s.service.AccountBalances(context.Background(), s.organizationID, query)
	require.NoError(s.T(), err)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func TestBalancesFromLines(t *testing.T) {
	debit, err := domain.NewDebitLine("e1", "org-1", "6100", decimal.RequireFromString("100.00"), nil)
	require.NoError(t, err)
	credit, err := domain.NewCreditLine("e1", "org-1", "4400", decimal.RequireFromString("100.00"), nil)
	require.NoError(t, err)

	classes := map[string]domain.AccountClass{
		"4400": domain.ClassLiability,
	}
	balances := services.BalancesFromLines([]domain.JournalEntryLine{debit, credit}, classes)

	require.Len(t, balances, 2)
	assert.Equal(t, "4400", balances[0].AccountCode)
	assert.Equal(t, domain.ClassLiability, balances[0].Class, "explicit class wins over the leading digit")
	assert.True(t, balances[0].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "6100", balances[1].AccountCode)
	assert.True(t, balances[1].Balance.Equal(decimal.RequireFromString("100.00")))
}
