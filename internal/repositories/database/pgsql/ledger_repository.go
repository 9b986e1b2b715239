package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/coproledger/coproledger/internal/apperrors"
	"github.com/coproledger/coproledger/internal/core/domain"
	portsrepo "github.com/coproledger/coproledger/internal/core/ports/repositories"
	"github.com/coproledger/coproledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uqEntrySourceJournal guards one entry per (source expense, journal type).
const uqEntrySourceJournal = "uq_journal_entries_source_expense_journal_type"

type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new repository for journal entries and lines.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade.
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `
	entry_id, organization_id, building_id, entry_date, description, document_ref,
	journal_type, source_expense_id, source_contribution_id,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveEntry persists an entry and its lines in one database transaction.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.OrganizationID,
		entry.BuildingID,
		entry.EntryDate,
		entry.Description,
		entry.DocumentRef,
		entry.JournalType,
		entry.SourceExpenseID,
		entry.SourceContributionID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, uqEntrySourceJournal) {
			return fmt.Errorf("%w: entry for this expense and journal type already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, line_number, organization_id, account_code, debit, credit, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, line := range entry.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.LineNumber,
			line.OrganizationID,
			line.AccountCode,
			line.Debit,
			line.Credit,
			line.Label,
			line.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes an entry and its lines in one transaction.
func (r *PgxLedgerRepository) DeleteEntry(ctx context.Context, organizationID, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`DELETE FROM journal_entry_lines WHERE entry_id = $1 AND organization_id = $2;`,
		entryID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM journal_entries WHERE entry_id = $1 AND organization_id = $2;`,
		entryID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a single entry with its lines.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1 AND organization_id = $2;
	`
	row := r.Pool.QueryRow(ctx, query, entryID, organizationID)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, mapNotFound(err, "failed to find entry by ID "+entryID)
	}

	lines, err := r.findLinesByEntryIDs(ctx, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.EntryID]
	return entry, nil
}

// FindEntriesByExpense retrieves all entries generated from one expense.
func (r *PgxLedgerRepository) FindEntriesByExpense(ctx context.Context, organizationID, expenseID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1 AND source_expense_id = $2
		ORDER BY entry_date, created_at;
	`
	return r.queryEntries(ctx, query, organizationID, expenseID)
}

// FindEntriesByOrganization retrieves every entry of a tenant.
func (r *PgxLedgerRepository) FindEntriesByOrganization(ctx context.Context, organizationID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1
		ORDER BY entry_date, created_at;
	`
	return r.queryEntries(ctx, query, organizationID)
}

// FindEntriesByDateRange retrieves entries with from <= entry_date < to.
func (r *PgxLedgerRepository) FindEntriesByDateRange(ctx context.Context, organizationID string, from, to time.Time) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date, created_at;
	`
	return r.queryEntries(ctx, query, organizationID, from, to)
}

// ListEntries retrieves a filtered page of entries, newest first.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, organizationID string, filter portsrepo.EntryFilter, limit, offset int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1`
	args := []any{organizationID}

	if filter.BuildingID != "" {
		args = append(args, filter.BuildingID)
		query += ` AND building_id = $` + strconv.Itoa(len(args))
	}
	if filter.JournalType != "" {
		args = append(args, filter.JournalType)
		query += ` AND journal_type = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND entry_date < $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += `
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	return r.queryEntries(ctx, query, args...)
}

// FindLinesByAccount retrieves all lines posted to one account code.
func (r *PgxLedgerRepository) FindLinesByAccount(ctx context.Context, organizationID, accountCode string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, line_number, organization_id, account_code, debit, credit, label, created_at
		FROM journal_entry_lines
		WHERE organization_id = $1 AND account_code = $2
		ORDER BY created_at, entry_id, line_number;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for account %s: %w", accountCode, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line for account %s: %w", accountCode, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ValidateBalance re-derives the balance invariant from persisted lines.
func (r *PgxLedgerRepository) ValidateBalance(ctx context.Context, entryID string) (bool, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0) = COALESCE(SUM(credit), 0), COUNT(*)
		FROM journal_entry_lines
		WHERE entry_id = $1;
	`
	var balanced bool
	var lineCount int
	if err := r.Pool.QueryRow(ctx, query, entryID).Scan(&balanced, &lineCount); err != nil {
		return false, fmt.Errorf("failed to validate balance of entry %s: %w", entryID, err)
	}
	if lineCount == 0 {
		return false, apperrors.ErrNotFound
	}
	return balanced, nil
}

// SumAccountTotals accumulates debit and credit totals per account code within
// the query scope. Raw sums only; the sign convention is applied by the caller.
func (r *PgxLedgerRepository) SumAccountTotals(ctx context.Context, organizationID string, query portsrepo.BalanceQuery) (map[string]accounting.DebitCredit, error) {
	sql := `
		SELECT l.account_code, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.organization_id = $1`
	args := []any{organizationID}

	switch query.Scope {
	case portsrepo.ScopeBuildingShared:
		args = append(args, query.BuildingID)
		sql += ` AND (e.building_id = $` + strconv.Itoa(len(args)) + ` OR e.building_id IS NULL)`
	case portsrepo.ScopeBuildingOnly:
		args = append(args, query.BuildingID)
		sql += ` AND e.building_id = $` + strconv.Itoa(len(args))
	}
	if query.From != nil {
		args = append(args, *query.From)
		sql += ` AND e.entry_date >= $` + strconv.Itoa(len(args))
	}
	if query.To != nil {
		args = append(args, *query.To)
		sql += ` AND e.entry_date < $` + strconv.Itoa(len(args))
	}
	sql += `
		GROUP BY l.account_code;`

	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum account totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]accounting.DebitCredit)
	for rows.Next() {
		var code string
		var dc accounting.DebitCredit
		if err := rows.Scan(&code, &dc.Debit, &dc.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account totals: %w", err)
		}
		totals[code] = dc
	}
	return totals, rows.Err()
}

// queryEntries runs an entry query and hydrates the lines of every result.
func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	entryIDs := []string{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
		entryIDs = append(entryIDs, entry.EntryID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nil
}

// findLinesByEntryIDs loads the lines of a batch of entries in one round trip.
// Lines come back in their original display order.
func (r *PgxLedgerRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, line_number, organization_id, account_code, debit, credit, label, created_at
		FROM journal_entry_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry line: %w", err)
		}
		linesByEntry[line.EntryID] = append(linesByEntry[line.EntryID], line)
	}
	return linesByEntry, rows.Err()
}

// scanEntry reads one journal entry row in entryColumns order.
func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.OrganizationID,
		&e.BuildingID,
		&e.EntryDate,
		&e.Description,
		&e.DocumentRef,
		&e.JournalType,
		&e.SourceExpenseID,
		&e.SourceContributionID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// scanLine reads one journal entry line row.
func scanLine(row pgx.Row) (domain.JournalEntryLine, error) {
	var l domain.JournalEntryLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.LineNumber,
		&l.OrganizationID,
		&l.AccountCode,
		&l.Debit,
		&l.Credit,
		&l.Label,
		&l.CreatedAt,
	)
	return l, err
}
