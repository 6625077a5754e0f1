package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	eventDomain "github.com/davicafu/flaghooks/internal/event/domain"
	sharedDomain "github.com/davicafu/flaghooks/internal/shared/domain"
	sharedSQLite "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/sqlite"
)

type EventRepoSQLite struct {
	db *sql.DB
}

func NewEventRepoSQLite(db *sql.DB) *EventRepoSQLite {
	return &EventRepoSQLite{db: db}
}

// InitEventSchema crea las tablas events y outbox.
func InitEventSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        type TEXT NOT NULL,
        created_by TEXT NOT NULL,
        created_by_user_id INTEGER NOT NULL DEFAULT 0,
        feature_name TEXT,
        project TEXT,
        environment TEXT,
        data TEXT,
        pre_data TEXT,
        tags TEXT,
        created_at TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_events_feature ON events(feature_name);`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return sharedSQLite.InitOutboxSchema(ctx, db)
}

// Store inserta evento y outbox en transacción. El payload del outbox se
// serializa después de asignar el ID, así el consumidor lo recibe completo.
func (r *EventRepoSQLite) Store(ctx context.Context, e *eventDomain.Event, outbox sharedDomain.OutboxEvent) error {
	data, preData, tags, err := marshalEventJSON(e)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (type, created_by, created_by_user_id, feature_name, project, environment, data, pre_data, tags, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.Type, e.CreatedBy, e.CreatedByUserID, e.FeatureName, e.Project, e.Environment,
		data, preData, tags, sharedSQLite.FormatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	outbox.AggregateID = strconv.FormatInt(id, 10)

	if err := sharedSQLite.InsertOutboxTx(ctx, tx, outbox); err != nil {
		return err
	}

	return tx.Commit()
}

const selectEvent = `SELECT id, type, created_by, created_by_user_id, feature_name, project, environment, data, pre_data, tags, created_at FROM events`

func (r *EventRepoSQLite) GetByID(ctx context.Context, id int64) (*eventDomain.Event, error) {
	row := r.db.QueryRowContext(ctx, selectEvent+` WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eventDomain.ErrEventNotFound
	}
	return e, err
}

func (r *EventRepoSQLite) List(ctx context.Context, f eventDomain.EventFilter) ([]*eventDomain.Event, error) {
	var clauses []string
	var args []interface{}
	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, f.Type)
	}
	if f.FeatureName != "" {
		clauses = append(clauses, "feature_name = ?")
		args = append(args, f.FeatureName)
	}
	if f.Project != "" {
		clauses = append(clauses, "project = ?")
		args = append(args, f.Project)
	}

	query := selectEvent
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
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
	var featureName, project, environment, data, preData, tags sql.NullString
	var createdAt string

	if err := s.Scan(&e.ID, &e.Type, &e.CreatedBy, &e.CreatedByUserID, &featureName, &project, &environment,
		&data, &preData, &tags, &createdAt); err != nil {
		return nil, err
	}
	e.FeatureName, e.Project, e.Environment = featureName.String, project.String, environment.String

	var err error
	if e.CreatedAt, err = sharedSQLite.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for event %d: %w", e.ID, err)
	}
	if err := unmarshalIfSet(data, &e.Data); err != nil {
		return nil, fmt.Errorf("invalid data for event %d: %w", e.ID, err)
	}
	if err := unmarshalIfSet(preData, &e.PreData); err != nil {
		return nil, fmt.Errorf("invalid pre_data for event %d: %w", e.ID, err)
	}
	if err := unmarshalIfSet(tags, &e.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags for event %d: %w", e.ID, err)
	}
	return &e, nil
}

func marshalEventJSON(e *eventDomain.Event) (data, preData, tags sql.NullString, err error) {
	if data, err = nullJSON(e.Data, e.Data == nil); err != nil {
		return
	}
	if preData, err = nullJSON(e.PreData, e.PreData == nil); err != nil {
		return
	}
	tags, err = nullJSON(e.Tags, len(e.Tags) == 0)
	return
}

func nullJSON(v interface{}, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal event field: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalIfSet(s sql.NullString, dest interface{}) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dest)
}

// Verificación en tiempo de compilación.
var _ eventDomain.EventRepository = (*EventRepoSQLite)(nil)
