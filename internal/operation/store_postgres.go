package operation

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

// Schema creates the operations table. Notes, details, and asset keys live as
// JSONB: they are only ever read back whole with their operation.
const Schema = `
CREATE TABLE IF NOT EXISTS operations (
    id             UUID PRIMARY KEY,
    patient_id     UUID NOT NULL,
    type_code      TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    executor       TEXT NOT NULL DEFAULT '',
    asset_keys     JSONB NOT NULL DEFAULT '[]',
    notes          JSONB NOT NULL DEFAULT '[]',
    estimated_cost JSONB NOT NULL,
    details        JSONB NOT NULL DEFAULT '[]',
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS operations_patient_id_idx ON operations (patient_id, created_at);
`

// PostgresStore persists operations in PostgreSQL. The append methods run a
// row-locked read-modify-write inside one transaction so concurrent appends
// cannot drop each other's entries.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, op *PatientOperation) (*PatientOperation, error) {
	assetKeys, notes, cost, details, err := marshalOperationJSON(op)
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO operations (id, patient_id, type_code, description, executor, asset_keys, notes, estimated_cost, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			patient_id = EXCLUDED.patient_id,
			type_code = EXCLUDED.type_code,
			description = EXCLUDED.description,
			executor = EXCLUDED.executor,
			asset_keys = EXCLUDED.asset_keys,
			notes = EXCLUDED.notes,
			estimated_cost = EXCLUDED.estimated_cost,
			details = EXCLUDED.details,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(op.ID), uuid.UUID(op.PatientID), op.Type.String(), op.Description,
		op.Executor, assetKeys, notes, cost, details, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save operation: %w", err)
	}
	return cloneOperation(op), nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.OperationID) (*PatientOperation, error) {
	op, err := scanOperation(s.pool.QueryRow(ctx, selectOperation+` WHERE id = $1`, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find operation: %w", err)
	}
	return op, nil
}

func (s *PostgresStore) FindByPatient(ctx context.Context, patientID domain.PatientID) ([]*PatientOperation, error) {
	rows, err := s.pool.Query(ctx, selectOperation+` WHERE patient_id = $1 ORDER BY created_at, id`, uuid.UUID(patientID))
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	results := make([]*PatientOperation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		results = append(results, op)
	}
	return results, rows.Err()
}

func (s *PostgresStore) AppendNote(ctx context.Context, id domain.OperationID, note Note) (*PatientOperation, error) {
	return s.appendLocked(ctx, id, func(op *PatientOperation) {
		op.Notes = append(op.Notes, note)
		op.UpdatedAt = note.At
	})
}

func (s *PostgresStore) AppendAsset(ctx context.Context, id domain.OperationID, key string, at time.Time) (*PatientOperation, error) {
	return s.appendLocked(ctx, id, func(op *PatientOperation) {
		op.AssetKeys = append(op.AssetKeys, key)
		op.UpdatedAt = at
	})
}

func (s *PostgresStore) appendLocked(ctx context.Context, id domain.OperationID, mutate func(*PatientOperation)) (*PatientOperation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	op, err := scanOperation(tx.QueryRow(ctx, selectOperation+` WHERE id = $1 FOR UPDATE`, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock operation: %w", err)
	}

	mutate(op)

	assetKeys, notes, _, _, err := marshalOperationJSON(op)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE operations SET asset_keys = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(id), assetKeys, notes, op.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("append to operation: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return op, nil
}

const selectOperation = `
	SELECT id, patient_id, type_code, description, executor, asset_keys, notes, estimated_cost, details, created_at, updated_at
	FROM operations`

func scanOperation(row pgx.Row) (*PatientOperation, error) {
	var (
		op        PatientOperation
		id        uuid.UUID
		patientID uuid.UUID
		typeCode  string
		assetKeys []byte
		notes     []byte
		cost      []byte
		details   []byte
	)
	if err := row.Scan(&id, &patientID, &typeCode, &op.Description, &op.Executor,
		&assetKeys, &notes, &cost, &details, &op.CreatedAt, &op.UpdatedAt); err != nil {
		return nil, err
	}
	op.ID = domain.OperationID(id)
	op.PatientID = domain.PatientID(patientID)
	op.Type = domain.TypeCode(typeCode)
	if err := json.Unmarshal(assetKeys, &op.AssetKeys); err != nil {
		return nil, fmt.Errorf("decode asset keys: %w", err)
	}
	if err := json.Unmarshal(notes, &op.Notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	if err := json.Unmarshal(cost, &op.EstimatedCost); err != nil {
		return nil, fmt.Errorf("decode estimated cost: %w", err)
	}
	if err := json.Unmarshal(details, &op.Details); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	return &op, nil
}

func marshalOperationJSON(op *PatientOperation) (assetKeys, notes, cost, details []byte, err error) {
	if assetKeys, err = json.Marshal(op.AssetKeys); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode asset keys: %w", err)
	}
	if notes, err = json.Marshal(op.Notes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode notes: %w", err)
	}
	if cost, err = json.Marshal(op.EstimatedCost); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode estimated cost: %w", err)
	}
	if details, err = json.Marshal(op.Details); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode details: %w", err)
	}
	return assetKeys, notes, cost, details, nil
}
