package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davicafu/flaghooks/internal/addon/domain"
	sharedSQLite "github.com/davicafu/flaghooks/internal/shared/infra/platform/db/sqlite"
)

// IntegrationEventRepoSQLite guarda el historial de entregas.
type IntegrationEventRepoSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewIntegrationEventRepoSQLite(db *sql.DB) *IntegrationEventRepoSQLite {
	return &IntegrationEventRepoSQLite{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *IntegrationEventRepoSQLite) Insert(ctx context.Context, o *domain.DeliveryOutcome) error {
	details, err := json.Marshal(o.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}
	event := string(o.Event)
	if event == "" {
		event = "null"
	}
	o.CreatedAt = r.now()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO integration_events (integration_id, state, state_details, event, details, created_at)
		 VALUES (?,?,?,?,?,?)`,
		o.IntegrationID, o.State.String(), o.StateDetails, event, string(details), sharedSQLite.FormatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	o.ID, err = res.LastInsertId()
	return err
}

func (r *IntegrationEventRepoSQLite) GetPaginatedEvents(ctx context.Context, integrationID int64, limit, offset int) ([]*domain.DeliveryOutcome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, integration_id, state, state_details, event, details, created_at
		 FROM integration_events
		 WHERE integration_id = ?
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`,
		integrationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := []*domain.DeliveryOutcome{}
	for rows.Next() {
		var o domain.DeliveryOutcome
		var state, event, details, createdAt string
		if err := rows.Scan(&o.ID, &o.IntegrationID, &state, &o.StateDetails, &event, &details, &createdAt); err != nil {
			return nil, err
		}
		if o.State, err = domain.ParseDeliveryState(state); err != nil {
			return nil, err
		}
		if o.CreatedAt, err = sharedSQLite.ParseTime(createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(details), &o.Details); err != nil {
			return nil, fmt.Errorf("invalid details for integration event %d: %w", o.ID, err)
		}
		o.Event = json.RawMessage(event)
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}

// CleanUpEvents conserva siempre el registro más reciente de cada integración.
func (r *IntegrationEventRepoSQLite) CleanUpEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM integration_events
		 WHERE created_at < ?
		   AND id NOT IN (SELECT MAX(id) FROM integration_events GROUP BY integration_id)`,
		sharedSQLite.FormatTime(olderThan),
	)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// Verificación en tiempo de compilación.
var _ domain.IntegrationEventRepository = (*IntegrationEventRepoSQLite)(nil)
