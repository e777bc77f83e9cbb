package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Recorder {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Insert(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO audit_log (actor, action, entity, detail)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, q, e.Actor, e.Action, e.Entity, e.Detail)
	return err
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, actor, action, entity, detail, created_at
FROM audit_log
ORDER BY created_at DESC, id DESC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
