package user

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

// Schema creates the users table.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT NOT NULL DEFAULT '',
    address    TEXT NOT NULL DEFAULT '',
    birth_date TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, u *User) (*User, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, address, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			birth_date = EXCLUDED.birth_date`,
		uuid.UUID(u.ID), u.Name, u.Email, u.Phone, u.Address, u.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	out := *u
	return &out, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.UserID) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, birth_date FROM users WHERE id = $1`,
		uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) SearchByName(ctx context.Context, fragment string) ([]*User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, address, birth_date FROM users
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id`, fragment)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	results := make([]*User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var id uuid.UUID
	if err := row.Scan(&id, &u.Name, &u.Email, &u.Phone, &u.Address, &u.BirthDate); err != nil {
		return nil, err
	}
	u.ID = domain.UserID(id)
	return &u, nil
}
