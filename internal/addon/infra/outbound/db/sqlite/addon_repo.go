package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	sharedSQLite "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/sqlite"
)

type AddonRepoSQLite struct {
	db *sql.DB
}

func NewAddonRepoSQLite(db *sql.DB) *AddonRepoSQLite {
	return &AddonRepoSQLite{db: db}
}

// addonRow es la forma serializada de las columnas JSON de addons.
type addonRow struct {
	parameters, events, projects, environments string
}

func toRow(a *domain.AddonConfig) (addonRow, error) {
	var row addonRow
	fields := []struct {
		v    interface{}
		dest *string
	}{
		{nonNilMap(a.Parameters), &row.parameters},
		{nonNilSlice(a.Events), &row.events},
		{nonNilSlice(a.Projects), &row.projects},
		{nonNilSlice(a.Environments), &row.environments},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return row, fmt.Errorf("failed to marshal addon: %w", err)
		}
		*f.dest = string(b)
	}
	return row, nil
}

func (r *AddonRepoSQLite) Insert(ctx context.Context, a *domain.AddonConfig) error {
	row, err := toRow(a)
	if err != nil {
		return err
	}
	a.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO addons (provider, description, enabled, parameters, events, projects, environments, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.Provider, a.Description, a.Enabled, row.parameters, row.events, row.projects, row.environments,
		sharedSQLite.FormatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	a.ID, err = res.LastInsertId()
	return err
}

func (r *AddonRepoSQLite) Update(ctx context.Context, a *domain.AddonConfig) error {
	row, err := toRow(a)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE addons SET provider=?, description=?, enabled=?, parameters=?, events=?, projects=?, environments=? WHERE id=?`,
		a.Provider, a.Description, a.Enabled, row.parameters, row.events, row.projects, row.environments, a.ID,
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

func (r *AddonRepoSQLite) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addons WHERE id=?`, id)
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

func (r *AddonRepoSQLite) Get(ctx context.Context, id int64) (*domain.AddonConfig, error) {
	a, err := scanAddon(r.db.QueryRowContext(ctx, selectAddon+` WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAddonNotFound
	}
	return a, err
}

func (r *AddonRepoSQLite) GetAll(ctx context.Context, f domain.AddonFilter) ([]*domain.AddonConfig, error) {
	query := selectAddon
	var args []interface{}
	if f.Enabled != nil {
		query += ` WHERE enabled=?`
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
	var row addonRow
	var createdAt string

	if err := s.Scan(&a.ID, &a.Provider, &description, &a.Enabled,
		&row.parameters, &row.events, &row.projects, &row.environments, &createdAt); err != nil {
		return nil, err
	}
	a.Description = description.String

	var err error
	if a.CreatedAt, err = sharedSQLite.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for addon %d: %w", a.ID, err)
	}

	for _, f := range []struct {
		raw  string
		dest interface{}
	}{
		{row.parameters, &a.Parameters},
		{row.events, &a.Events},
		{row.projects, &a.Projects},
		{row.environments, &a.Environments},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dest); err != nil {
			return nil, fmt.Errorf("invalid JSON for addon %d: %w", a.ID, err)
		}
	}
	return &a, nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Verificación en tiempo de compilación.
var _ domain.AddonRepository = (*AddonRepoSQLite)(nil)
