package repository

import (
	"context"
	"fmt"

	"furniture/admin/internal/domain"
	"furniture/admin/internal/domain/event"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type AuditRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, record *event.Record) error
	Recent(ctx context.Context, limit int) ([]event.Record, error)
}

// DB is the part of *pgxpool.Pool the repository needs
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type auditRepository struct {
	db DB
}

func NewAuditRepository(db DB) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

const createAuditTable = `
	CREATE TABLE IF NOT EXISTS admin_audit_log (
		event_id    TEXT PRIMARY KEY,
		event_type  TEXT NOT NULL,
		action      TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		entity_name TEXT NOT NULL DEFAULT '',
		actor       TEXT NOT NULL DEFAULT '',
		occurred_at TIMESTAMPTZ NOT NULL,
		payload     JSONB NOT NULL
	)`

func (r *auditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createAuditTable); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

func (r *auditRepository) Save(ctx context.Context, record *event.Record) error {
	query := `
	INSERT INTO admin_audit_log (event_id, event_type, action, entity_id, entity_name, actor, occurred_at, payload)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (event_id)
	DO UPDATE SET event_type = $2, action = $3, entity_id = $4, entity_name = $5, actor = $6, occurred_at = $7, payload = $8`
	_, err := r.db.Exec(ctx, query,
		record.EventID,
		record.EventType,
		string(record.Action),
		record.EntityID.String(),
		record.EntityName,
		record.Actor,
		record.OccurredAt,
		[]byte(record.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record %s: %w", record.EventID, err)
	}

	return nil
}

func (r *auditRepository) Recent(ctx context.Context, limit int) ([]event.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT event_id, event_type, action, entity_id, entity_name, actor, occurred_at, payload
	FROM admin_audit_log
	ORDER BY occurred_at DESC
	LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	records := make([]event.Record, 0, limit)
	for rows.Next() {
		var (
			rec      event.Record
			action   string
			entityID string
			payload  []byte
		)
		if err := rows.Scan(&rec.EventID, &rec.EventType, &action, &entityID,
			&rec.EntityName, &rec.Actor, &rec.OccurredAt, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Action = event.Action(action)
		rec.EntityID = domain.ID(entityID)
		rec.Payload = payload
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	return records, nil
}
