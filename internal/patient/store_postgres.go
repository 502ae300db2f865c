package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinica/pkg/domain"
	"clinica/pkg/platform/sentinel"
)

// Schema creates the patients table. Applied by deploy tooling and the
// integration test harness.
const Schema = `
CREATE TABLE IF NOT EXISTS patients (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    phone           TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    city            TEXT NOT NULL DEFAULT '',
    nationality     TEXT NOT NULL DEFAULT '',
    birth_date      TIMESTAMPTZ NOT NULL,
    tax_code        TEXT NOT NULL DEFAULT '',
    medical_history TEXT NOT NULL DEFAULT ''
);
`

// PostgresStore persists patients in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, p *Patient) (*Patient, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patients (id, name, email, phone, address, city, nationality, birth_date, tax_code, medical_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			nationality = EXCLUDED.nationality,
			birth_date = EXCLUDED.birth_date,
			tax_code = EXCLUDED.tax_code,
			medical_history = EXCLUDED.medical_history`,
		uuid.UUID(p.ID), p.Name, p.Email, p.Phone, p.Address, p.City,
		p.Nationality, p.BirthDate, p.TaxCode, p.MedicalHistory)
	if err != nil {
		return nil, fmt.Errorf("save patient: %w", err)
	}
	out := *p
	return &out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.PatientID) (*Patient, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, city, nationality, birth_date, tax_code, medical_history
		FROM patients WHERE id = $1`, uuid.UUID(id))
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SearchByName(ctx context.Context, fragment string) ([]*Patient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, address, city, nationality, birth_date, tax_code, medical_history
		FROM patients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id`, fragment)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer rows.Close()

	results := make([]*Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var id uuid.UUID
	if err := row.Scan(&id, &p.Name, &p.Email, &p.Phone, &p.Address, &p.City,
		&p.Nationality, &p.BirthDate, &p.TaxCode, &p.MedicalHistory); err != nil {
		return nil, err
	}
	p.ID = domain.PatientID(id)
	return &p, nil
}
