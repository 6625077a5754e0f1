package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

type IntegrationEventRepoPostgres struct {
	db *sql.DB
}

func NewIntegrationEventRepoPostgres(db *sql.DB) *IntegrationEventRepoPostgres {
	return &IntegrationEventRepoPostgres{db: db}
}

func (r *IntegrationEventRepoPostgres) Insert(ctx context.Context, o *domain.DeliveryOutcome) error {
	details, err := json.Marshal(o.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}
	event := string(o.Event)
	if event == "" {
		event = "null"
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO integration_events (integration_id, state, state_details, event, details)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		o.IntegrationID, o.State.String(), o.StateDetails, event, string(details),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *IntegrationEventRepoPostgres) GetPaginatedEvents(ctx context.Context, integrationID int64, limit, offset int) ([]*domain.DeliveryOutcome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, integration_id, state, state_details, event, details, created_at
		 FROM integration_events
		 WHERE integration_id=$1
		 ORDER BY id DESC
		 LIMIT $2 OFFSET $3`,
		integrationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := []*domain.DeliveryOutcome{}
	for rows.Next() {
		var o domain.DeliveryOutcome
		var state string
		var event, details []byte
		if err := rows.Scan(&o.ID, &o.IntegrationID, &state, &o.StateDetails, &event, &details, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.State, err = domain.ParseDeliveryState(state); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &o.Details); err != nil {
			return nil, fmt.Errorf("invalid details for integration event %d: %w", o.ID, err)
		}
		o.Event = json.RawMessage(event)
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}

// CleanUpEvents conserva siempre el registro más reciente de cada integración.
func (r *IntegrationEventRepoPostgres) CleanUpEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM integration_events
		 WHERE created_at < $1
		   AND id NOT IN (SELECT MAX(id) FROM integration_events GROUP BY integration_id)`,
		olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// Verificación en tiempo de compilación.
var _ domain.IntegrationEventRepository = (*IntegrationEventRepoPostgres)(nil)
