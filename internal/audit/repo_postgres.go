package audit

import (
	"context"
	"database/sql"

	"hrms-gateway/pkg/utils"
)

// PostgresRepo persists audit events in the auth_events table.
//
// Schema:
//
//	CREATE TABLE auth_events (
//	    id                TEXT PRIMARY KEY,
//	    type              TEXT NOT NULL,
//	    actor_employee_id TEXT NOT NULL DEFAULT '',
//	    actor_role        TEXT NOT NULL DEFAULT '',
//	    ip_address        TEXT NOT NULL DEFAULT '',
//	    path              TEXT NOT NULL DEFAULT '',
//	    message           TEXT NOT NULL DEFAULT '',
//	    created_at        TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO auth_events
				(id, type, actor_employee_id, actor_role, ip_address, path, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID,
			string(e.Type),
			e.ActorEmployeeID,
			e.ActorRole,
			e.IPAddress,
			e.Path,
			e.Message,
			e.CreatedAt,
		)
		return err
	})
}

var _ Repository = (*PostgresRepo)(nil)
