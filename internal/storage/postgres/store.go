package postgres

import (
	"context"
	"database/sql"
	"fmt"

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

const schema = `CREATE TABLE IF NOT EXISTS ledger_entries (
	id            UUID PRIMARY KEY,
	account_id    VARCHAR(32) NOT NULL,
	seq           BIGINT NOT NULL,
	kind          VARCHAR(32) NOT NULL,
	amount        NUMERIC(20,2) NOT NULL,
	balance_after NUMERIC(20,2) NOT NULL,
	counterparty  VARCHAR(32) NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ledger_entries_account_idx ON ledger_entries (account_id, seq);`

type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

// EnsureSchema creates the ledger_entries table if it is missing.
func (p *PostgresLedgerStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	return nil
}

func (p *PostgresLedgerStore) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	return p.SaveEntries(ctx, entry)
}

// SaveEntries inserts all entries in one database transaction. Entries whose
// id already exists are skipped.
func (p *PostgresLedgerStore) SaveEntries(ctx context.Context, entries ...models.LedgerEntry) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, e := range entries {
		if err = p.insertEntry(ctx, dbTx, e); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

func (p *PostgresLedgerStore) insertEntry(ctx context.Context, dbTx *sql.Tx, e models.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries
	(id, account_id, seq, kind, amount, balance_after, counterparty, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (id) DO NOTHING`

	_, err := dbTx.ExecContext(ctx, query,
		e.ID, e.AccountID, int64(e.Seq), string(e.Kind), e.Amount, e.BalanceAfter, e.Counterparty, e.CreatedAt)
	return err
}

func (p *PostgresLedgerStore) GetLedgerEntries() ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_id, seq, kind, amount, balance_after, counterparty, created_at
	FROM ledger_entries ORDER BY created_at, account_id, seq`

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (p *PostgresLedgerStore) GetEntriesByAccount(accountId string) ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_id, seq, kind, amount, balance_after, counterparty, created_at
	FROM ledger_entries WHERE account_id = $1 ORDER BY seq`

	rows, err := p.db.Query(query, accountId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry models.LedgerEntry
			seq   int64
			kind  string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&seq,
			&kind,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.Counterparty,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Seq = uint64(seq)
		entry.Kind = models.EntryKind(kind)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
