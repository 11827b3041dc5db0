package products

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Store keeps products in insertion order. Lookups by id match the
// oldest document first, so duplicate ids never fault.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Append(ctx context.Context, p Product) error
	Replace(ctx context.Context, id string, p Product) (Product, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

func NewStore(ctx context.Context, backend, databaseURL string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemStore(), nil

	case BackendPostgres:
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		s := NewPostgresStore(db)
		if err := s.Init(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("init postgres schema: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: memory, postgres)", backend)
	}
}
