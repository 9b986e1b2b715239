package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	portssvc "github.com/coproledger/coproledger/internal/core/ports/services"
	"github.com/coproledger/coproledger/internal/middleware"
	"github.com/coproledger/coproledger/internal/utils/accounting"
)

// balanceService reduces persisted journal lines to per-account balances.
// The store returns raw debit/credit totals; the sign convention lives here.
type balanceService struct {
	ledgerRepo portsrepo.LedgerReader
	chartRepo  portsrepo.ChartRepository
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(ledgerRepo portsrepo.LedgerReader, chartRepo portsrepo.ChartRepository) portssvc.BalanceSvcFacade {
	return &balanceService{
		ledgerRepo: ledgerRepo,
		chartRepo:  chartRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// BalancesFromLines reduces in-memory lines to per-account balances under the
// sign convention. Codes absent from classes fall back to the leading-digit
// rule. Pure; the database-backed path lives in AccountBalances.
func BalancesFromLines(lines []domain.JournalEntryLine, classes map[string]domain.AccountClass) []domain.AccountBalance {
	totals := accounting.SumLines(lines)
	balances := make([]domain.AccountBalance, 0, len(totals))
	for code, t := range totals {
		class, ok := classes[code]
		if !ok {
			class = domain.ClassFromCode(code)
		}
		balances = append(balances, domain.AccountBalance{
			AccountCode: code,
			Class:       class,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     accounting.SignedBalance(class, t.Debit, t.Credit),
		})
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].AccountCode < balances[j].AccountCode
	})
	return balances
}

// AccountBalances aggregates the tenant's lines within the query scope into
// one row per chart account, sorted by account code. Chart accounts with no
// lines in scope report zero totals. Lines posted to codes missing from the
// chart still appear, with the class derived from the leading digit.
func (s *balanceService) AccountBalances(ctx context.Context, organizationID string, query portsrepo.BalanceQuery) ([]domain.AccountBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	totals, err := s.ledgerRepo.SumAccountTotals(ctx, organizationID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum account totals: %w", err)
	}

	accounts, err := s.chartRepo.ListAccounts(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chart accounts: %w", err)
	}

	balances := make([]domain.AccountBalance, 0, len(accounts))
	seen := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		seen[account.Code] = true
		t := totals[account.Code]
		balances = append(balances, domain.AccountBalance{
			AccountCode: account.Code,
			Label:       account.Label,
			Class:       account.Class,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     accounting.SignedBalance(account.Class, t.Debit, t.Credit),
		})
	}

	// Lines can predate chart maintenance; surface them rather than hiding
	// posted amounts.
	for code, t := range totals {
		if seen[code] {
			continue
		}
		class := domain.ClassFromCode(code)
		balances = append(balances, domain.AccountBalance{
			AccountCode: code,
			Class:       class,
			Debit:       t.Debit,
			Credit:      t.Credit,
			Balance:     accounting.SignedBalance(class, t.Debit, t.Credit),
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].AccountCode < balances[j].AccountCode
	})

	logger.Debug("Account balances computed",
		slog.String("organization_id", organizationID),
		slog.Int("account_count", len(balances)))
	return balances, nil
}
