package operationtype

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// Schema creates the operation_types table. The code is the primary key;
// there is no surrogate id.
const Schema = `
CREATE TABLE IF NOT EXISTS operation_types (
    code        TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    base_cost   JSONB NOT NULL
);
`

// PostgresStore persists the catalog in PostgreSQL. Upsert is an explicit
// lookup-then-insert/update inside one transaction rather than ON CONFLICT,
// keeping the insert and replace paths observable and the row lock covering
// the whole read-modify-write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, ot *OperationType) (*OperationType, error) {
	cost, err := json.Marshal(ot.BaseCost)
	if err != nil {
		return nil, fmt.Errorf("encode base cost: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing string
	err = tx.QueryRow(ctx, `SELECT code FROM operation_types WHERE code = $1 FOR UPDATE`,
		ot.Code.String()).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `INSERT INTO operation_types (code, description, base_cost) VALUES ($1, $2, $3)`,
			ot.Code.String(), ot.Description, cost)
	case err == nil:
		_, err = tx.Exec(ctx, `UPDATE operation_types SET description = $2, base_cost = $3 WHERE code = $1`,
			ot.Code.String(), ot.Description, cost)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert operation type: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	out := *ot
	return &out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, ot *OperationType) (*OperationType, error) {
	cost, err := json.Marshal(ot.BaseCost)
	if err != nil {
		return nil, fmt.Errorf("encode base cost: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO operation_types (code, description, base_cost)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING`,
		ot.Code.String(), ot.Description, cost)
	if err != nil {
		return nil, fmt.Errorf("insert operation type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, sentinel.ErrAlreadyExists
	}
	out := *ot
	return &out, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*OperationType, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, description, base_cost FROM operation_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list operation types: %w", err)
	}
	defer rows.Close()

	results := make([]*OperationType, 0)
	for rows.Next() {
		var (
			ot   OperationType
			code string
			cost []byte
		)
		if err := rows.Scan(&code, &ot.Description, &cost); err != nil {
			return nil, fmt.Errorf("scan operation type: %w", err)
		}
		ot.Code = domain.TypeCode(code)
		if err := json.Unmarshal(cost, &ot.BaseCost); err != nil {
			return nil, fmt.Errorf("decode base cost: %w", err)
		}
		results = append(results, &ot)
	}
	return results, rows.Err()
}
