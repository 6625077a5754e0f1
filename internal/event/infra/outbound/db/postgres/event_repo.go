package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	sharedPostgres "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/postgres"
)

// EventRepoPostgres implementa la interfaz EventRepository para PostgreSQL.
type EventRepoPostgres struct {
	db *sql.DB
}

func NewEventRepoPostgres(db *sql.DB) *EventRepoPostgres {
	return &EventRepoPostgres{db: db}
}

// InitEventSchema crea las tablas events y outbox si no existen.
func InitEventSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS events (
        id BIGSERIAL PRIMARY KEY,
        type TEXT NOT NULL,
        created_by TEXT NOT NULL,
        created_by_user_id BIGINT NOT NULL DEFAULT 0,
        feature_name TEXT,
        project TEXT,
        environment TEXT,
        data JSONB,
        pre_data JSONB,
        tags JSONB,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return sharedPostgres.InitOutboxSchema(ctx, db)
}

// Store inserta el evento y su outbox en una transacción.
func (r *EventRepoPostgres) Store(ctx context.Context, e *eventDomain.Event, outbox sharedDomain.OutboxEvent) error {
	data, err := jsonOrNil(e.Data, e.Data == nil)
	if err != nil {
		return err
	}
	preData, err := jsonOrNil(e.PreData, e.PreData == nil)
	if err != nil {
		return err
	}
	tags, err := jsonOrNil(e.Tags, len(e.Tags) == 0)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO events (type, created_by, created_by_user_id, feature_name, project, environment, data, pre_data, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		e.Type, e.CreatedBy, e.CreatedByUserID, e.FeatureName, e.Project, e.Environment, data, preData, tags, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	outbox.AggregateID = strconv.FormatInt(e.ID, 10)

	if err := sharedPostgres.InsertOutboxTx(ctx, tx, outbox); err != nil {
		return fmt.Errorf("failed to insert outbox: %w", err)
	}

	return tx.Commit()
}

const selectEvent = `SELECT id, type, created_by, created_by_user_id, feature_name, project, environment, data, pre_data, tags, created_at FROM events`

func (r *EventRepoPostgres) GetByID(ctx context.Context, id int64) (*eventDomain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, selectEvent+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eventDomain.ErrEventNotFound
	}
	return e, err
}

func (r *EventRepoPostgres) List(ctx context.Context, f eventDomain.EventFilter) ([]*eventDomain.Event, error) {
	var clauses []string
	var args []interface{}
	add := func(field, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	add("type", f.Type)
	add("feature_name", f.FeatureName)
	add("project", f.Project)

	query := selectEvent
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*eventDomain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(s scanner) (*eventDomain.Event, error) {
	var e eventDomain.Event
	var featureName, project, environment sql.NullString
	var data, preData, tags []byte

	if err := s.Scan(&e.ID, &e.Type, &e.CreatedBy, &e.CreatedByUserID, &featureName, &project, &environment,
		&data, &preData, &tags, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.FeatureName, e.Project, e.Environment = featureName.String, project.String, environment.String

	for _, field := range []struct {
		raw  []byte
		dest interface{}
	}{{data, &e.Data}, {preData, &e.PreData}, {tags, &e.Tags}} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return nil, fmt.Errorf("invalid JSON in event %d: %w", e.ID, err)
		}
	}
	return &e, nil
}

func jsonOrNil(v interface{}, empty bool) (interface{}, error) {
	if empty {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event field: %w", err)
	}
	return string(b), nil
}

// Verificación en tiempo de compilación.
var _ eventDomain.EventRepository = (*EventRepoPostgres)(nil)
