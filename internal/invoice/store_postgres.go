package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// Schema creates the invoices table.
const Schema = `
CREATE TABLE IF NOT EXISTS invoices (
    id           UUID PRIMARY KEY,
    operation_id UUID NOT NULL,
    amount       JSONB NOT NULL,
    status       TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS invoices_operation_id_idx ON invoices (operation_id, created_at);
`

// PostgresStore persists invoices in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, inv *Invoice) (*Invoice, error) {
	amount, err := json.Marshal(inv.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO invoices (id, operation_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			operation_id = EXCLUDED.operation_id,
			amount = EXCLUDED.amount,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(inv.ID), uuid.UUID(inv.OperationID), amount, string(inv.Status),
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}
	out := *inv
	return &out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.InvoiceID) (*Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx, selectInvoice+` WHERE id = $1`, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) FindByOperation(ctx context.Context, operationID domain.OperationID) ([]*Invoice, error) {
	rows, err := s.pool.Query(ctx, selectInvoice+` WHERE operation_id = $1 ORDER BY created_at, id`,
		uuid.UUID(operationID))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	results := make([]*Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		results = append(results, inv)
	}
	return results, rows.Err()
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.InvoiceID, status Status, at time.Time) (*Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx, `
		UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1
		RETURNING id, operation_id, amount, status, created_at, updated_at`,
		uuid.UUID(id), string(status), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	return inv, nil
}

const selectInvoice = `
	SELECT id, operation_id, amount, status, created_at, updated_at
	FROM invoices`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var (
		inv         Invoice
		id          uuid.UUID
		operationID uuid.UUID
		amount      []byte
		status      string
	)
	if err := row.Scan(&id, &operationID, &amount, &status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.ID = domain.InvoiceID(id)
	inv.OperationID = domain.OperationID(operationID)
	inv.Status = Status(status)
	if err := json.Unmarshal(amount, &inv.Amount); err != nil {
		return nil, fmt.Errorf("decode amount: %w", err)
	}
	return &inv, nil
}
