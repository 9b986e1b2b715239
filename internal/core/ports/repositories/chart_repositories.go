package repositories

import (
	"context"

	"github.com/coproledger/coproledger/internal/core/domain"
)

// ChartRepository persists the per-tenant chart of accounts. Accounts are
// never deleted once a posted line references them.
type ChartRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error

	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error)

	ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error)

	// EnsureDefaultChart seeds the minimal account set the entry generator
	// relies on (4110, 4400, 5500, 5700 and a base expense account). Existing
	// accounts are left untouched.
	EnsureDefaultChart(ctx context.Context, organizationID string) error
}
