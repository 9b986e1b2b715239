package pgsql

import (
	"context"
	"fmt"

	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChartRepository struct {
	BaseRepository
}

// NewPgxChartRepository creates a new repository for the chart of accounts.
func NewPgxChartRepository(pool *pgxpool.Pool) portsrepo.ChartRepository {
	return &PgxChartRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxChartRepository implements portsrepo.ChartRepository.
var _ portsrepo.ChartRepository = (*PgxChartRepository)(nil)

// SaveAccount inserts or updates an account. The class is stored alongside the
// code so balance reports never re-derive it at read time.
func (r *PgxChartRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (code, organization_id, label, class, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id, code)
		DO UPDATE SET label = EXCLUDED.label,
		              last_updated_at = EXCLUDED.last_updated_at,
		              last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		account.Code,
		account.OrganizationID,
		account.Label,
		account.Class,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return nil
}

// FindAccountByCode retrieves one account of the tenant's chart.
func (r *PgxChartRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	query := `
		SELECT code, organization_id, label, class, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE organization_id = $1 AND code = $2;
	`
	var a domain.Account
	err := r.Pool.QueryRow(ctx, query, organizationID, code).Scan(
		&a.Code,
		&a.OrganizationID,
		&a.Label,
		&a.Class,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapNotFound(err, "failed to find account "+code)
	}
	return &a, nil
}

// defaultChart is the minimal PCMN subset the entry generator relies on.
var defaultChart = []struct {
	code  string
	label string
}{
	{domain.AccountVATRecoverable, "VAT recoverable"},
	{domain.AccountSuppliers, "Suppliers"},
	{domain.AccountBank, "Bank"},
	{domain.AccountCash, "Cash"},
	{"6100", "General charges"},
	{"7000", "Owner contributions"},
}

// EnsureDefaultChart seeds the default accounts for a tenant. Codes that
// already exist keep their label.
func (r *PgxChartRepository) EnsureDefaultChart(ctx context.Context, organizationID string) error {
	query := `
		INSERT INTO accounts (code, organization_id, label, class, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, NOW(), 'system', NOW(), 'system')
		ON CONFLICT (organization_id, code) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, a := range defaultChart {
		batch.Queue(query, a.code, organizationID, a.label, domain.ClassFromCode(a.code))
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to seed default chart for %s: %w", organizationID, err)
	}
	return nil
}

// ListAccounts retrieves the tenant's full chart, ordered by code.
func (r *PgxChartRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.Account, error) {
	query := `
		SELECT code, organization_id, label, class, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE organization_id = $1
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		err := rows.Scan(
			&a.Code,
			&a.OrganizationID,
			&a.Label,
			&a.Class,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
