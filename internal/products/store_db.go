package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore persists documents as JSONB rows. The pos column keeps
// insertion order; the id column is deliberately not unique so lookups
// resolve to the oldest row, same as the memory backend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS products (
				pos BIGSERIAL PRIMARY KEY,
				id  TEXT NOT NULL,
				doc JSONB NOT NULL
			)
		`)
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS products_id_idx ON products (id)
		`)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT doc
			FROM products
			ORDER BY pos ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var raw []byte
			if err := rows.Scan(&raw); err != nil {
				return err
			}

			var p Product
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, bool, error) {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT doc
			FROM products
			WHERE id = $1
			ORDER BY pos ASC
			LIMIT 1
		`, id).Scan(&raw)
	})

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Append(ctx context.Context, p Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, doc) VALUES ($1, $2)
		`, p.ID(), raw)
		return err
	})
}

func (s *PostgresStore) Replace(ctx context.Context, id string, p Product) (Product, bool, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, false, err
	}

	var n int64
	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE products
			SET doc = $2
			WHERE pos = (
				SELECT pos FROM products WHERE id = $1 ORDER BY pos ASC LIMIT 1
			)
		`, id, raw)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM products
			WHERE pos = (
				SELECT pos FROM products WHERE id = $1 ORDER BY pos ASC LIMIT 1
			)
		`, id)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
