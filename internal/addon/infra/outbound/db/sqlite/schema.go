package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// InitAddonSchema crea las tablas addons e integration_events.
// Borrar una integración borra también su historial de entregas.
func InitAddonSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS addons (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        provider TEXT NOT NULL,
        description TEXT,
        enabled INTEGER NOT NULL DEFAULT 1,
        parameters TEXT NOT NULL DEFAULT '{}',
        events TEXT NOT NULL DEFAULT '[]',
        projects TEXT NOT NULL DEFAULT '[]',
        environments TEXT NOT NULL DEFAULT '[]',
        created_at TEXT NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create addons table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS integration_events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        integration_id INTEGER NOT NULL REFERENCES addons(id) ON DELETE CASCADE,
        state TEXT NOT NULL,
        state_details TEXT NOT NULL,
        event TEXT NOT NULL,
        details TEXT NOT NULL,
        created_at TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_integration_events_integration ON integration_events(integration_id, id);`)
	if err != nil {
		return fmt.Errorf("failed to create integration_events table: %w", err)
	}
	return nil
}
