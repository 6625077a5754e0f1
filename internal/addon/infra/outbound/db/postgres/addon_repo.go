package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

// AddonRepoPostgres implementa AddonRepository e IntegrationEventRepository sobre PostgreSQL.
type AddonRepoPostgres struct {
	db *sql.DB
}

func NewAddonRepoPostgres(db *sql.DB) *AddonRepoPostgres {
	return &AddonRepoPostgres{db: db}
}

// InitAddonSchema crea las tablas addons e integration_events si no existen.
func InitAddonSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS addons (
        id BIGSERIAL PRIMARY KEY,
        provider TEXT NOT NULL,
        description TEXT,
        enabled BOOLEAN NOT NULL DEFAULT TRUE,
        parameters JSONB NOT NULL DEFAULT '{}',
        events JSONB NOT NULL DEFAULT '[]',
        projects JSONB NOT NULL DEFAULT '[]',
        environments JSONB NOT NULL DEFAULT '[]',
        created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("failed to create addons table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS integration_events (
        id BIGSERIAL PRIMARY KEY,
        integration_id BIGINT NOT NULL REFERENCES addons(id) ON DELETE CASCADE,
        state TEXT NOT NULL,
        state_details TEXT NOT NULL,
        event JSONB NOT NULL,
        details JSONB NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("failed to create integration_events table: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_integration_events_integration ON integration_events(integration_id, id DESC)`)
	return err
}

type jsonColumns struct {
	parameters, events, projects, environments []byte
}

func marshalColumns(a *domain.AddonConfig) (jsonColumns, error) {
	var c jsonColumns
	var err error
	if c.parameters, err = json.Marshal(orEmptyMap(a.Parameters)); err != nil {
		return c, err
	}
	if c.events, err = json.Marshal(orEmpty(a.Events)); err != nil {
		return c, err
	}
	if c.projects, err = json.Marshal(orEmpty(a.Projects)); err != nil {
		return c, err
	}
	c.environments, err = json.Marshal(orEmpty(a.Environments))
	return c, err
}

func (r *AddonRepoPostgres) Insert(ctx context.Context, a *domain.AddonConfig) error {
	c, err := marshalColumns(a)
	if err != nil {
		return fmt.Errorf("failed to marshal addon: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO addons (provider, description, enabled, parameters, events, projects, environments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		a.Provider, a.Description, a.Enabled, string(c.parameters), string(c.events), string(c.projects), string(c.environments),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *AddonRepoPostgres) Update(ctx context.Context, a *domain.AddonConfig) error {
	c, err := marshalColumns(a)
	if err != nil {
		return fmt.Errorf("failed to marshal addon: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE addons SET provider=$1, description=$2, enabled=$3, parameters=$4, events=$5, projects=$6, environments=$7 WHERE id=$8`,
		a.Provider, a.Description, a.Enabled, string(c.parameters), string(c.events), string(c.projects), string(c.environments), a.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAddonNotFound
	}
	return nil
}

func (r *AddonRepoPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addons WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrAddonNotFound
	}
	return nil
}

const selectAddon = `SELECT id, provider, description, enabled, parameters, events, projects, environments, created_at FROM addons`

func (r *AddonRepoPostgres) Get(ctx context.Context, id int64) (*domain.AddonConfig, error) {
	a, err := scanAddon(r.db.QueryRowContext(ctx, selectAddon+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAddonNotFound
	}
	return a, err
}

func (r *AddonRepoPostgres) GetAll(ctx context.Context, f domain.AddonFilter) ([]*domain.AddonConfig, error) {
	query := selectAddon
	var args []interface{}
	if f.Enabled != nil {
		query += ` WHERE enabled=$1`
		args = append(args, *f.Enabled)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addons := []*domain.AddonConfig{}
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAddon(s scanner) (*domain.AddonConfig, error) {
	var a domain.AddonConfig
	var description sql.NullString
	var c jsonColumns

	if err := s.Scan(&a.ID, &a.Provider, &description, &a.Enabled,
		&c.parameters, &c.events, &c.projects, &c.environments, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Description = description.String

	for _, f := range []struct {
		raw  []byte
		dest interface{}
	}{
		{c.parameters, &a.Parameters},
		{c.events, &a.Events},
		{c.projects, &a.Projects},
		{c.environments, &a.Environments},
	} {
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return nil, fmt.Errorf("invalid JSON for addon %d: %w", a.ID, err)
		}
	}
	return &a, nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Verificación en tiempo de compilación.
var _ domain.AddonRepository = (*AddonRepoPostgres)(nil)
