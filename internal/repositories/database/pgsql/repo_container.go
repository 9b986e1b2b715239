package pgsql

import (
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo: NewPgxLedgerRepository(dbPool),
		BudgetRepo: NewPgxBudgetRepository(dbPool),
		ChartRepo:  NewPgxChartRepository(dbPool),
	}
}
