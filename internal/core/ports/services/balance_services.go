package services

import (
	"context"

	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
)

// BalanceSvcFacade is the read path that reduces ledger lines to per-account
// balances under the class-aware sign convention.
type BalanceSvcFacade interface {
	// AccountBalances aggregates the tenant's lines within the query scope
	// into one row per chart account. Accounts without lines in scope report
	// a zero balance rather than being absent.
	AccountBalances(ctx context.Context, organizationID string, query portsrepo.BalanceQuery) ([]domain.AccountBalance, error)
}
