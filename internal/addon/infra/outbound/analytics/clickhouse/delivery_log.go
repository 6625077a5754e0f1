package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

// DailyDeliveryStats es el resumen diario de entregas de una integración.
type DailyDeliveryStats struct {
	Day               time.Time `json:"day"`
	IntegrationID     int64     `json:"integrationId"`
	Success           uint64    `json:"success"`
	SuccessWithErrors uint64    `json:"successWithErrors"`
	Failed            uint64    `json:"failed"`
}

// DeliveryAnalyticsRepo implementa domain.DeliveryAnalytics para ClickHouse.
type DeliveryAnalyticsRepo struct {
	db *sql.DB
}

func NewDeliveryAnalyticsRepo(addr string, dbName string) (*DeliveryAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &DeliveryAnalyticsRepo{db: conn}, nil
}

// LogBatch inserta un lote de resultados en ClickHouse. Esta es la forma más eficiente.
func (r *DeliveryAnalyticsRepo) LogBatch(ctx context.Context, outcomes []*domain.DeliveryOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO delivery_log (id, integration_id, state, url, content_type, created_at, event_time)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	eventTime := time.Now()
	for _, o := range outcomes {
		if _, err := stmt.ExecContext(
			ctx,
			o.ID,
			o.IntegrationID,
			o.State.String(),
			o.Details.URL,
			o.Details.ContentType,
			o.CreatedAt,
			eventTime,
		); err != nil {
			// Si un registro falla, hacemos rollback de todo el lote.
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for integration event %d: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// GetDailyStats agrupa por día e integración los estados de entrega en [start, end].
func (r *DeliveryAnalyticsRepo) GetDailyStats(ctx context.Context, start, end time.Time) ([]DailyDeliveryStats, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			integration_id,
			countIf(state = 'success') AS success,
			countIf(state = 'successWithErrors') AS success_with_errors,
			countIf(state = 'failed') AS failed
		FROM delivery_log
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day, integration_id
		ORDER BY day, integration_id
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DailyDeliveryStats
	for rows.Next() {
		var s DailyDeliveryStats
		if err := rows.Scan(&s.Day, &s.IntegrationID, &s.Success, &s.SuccessWithErrors, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// InitSchema crea la tabla en ClickHouse si no existe.
func (r *DeliveryAnalyticsRepo) InitSchema(ctx context.Context) error {
	// Particionada por mes, ordenada por integración y fecha.
	query := `
		CREATE TABLE IF NOT EXISTS delivery_log (
			id             Int64,
			integration_id Int64,
			state          LowCardinality(String),
			url            String,
			content_type   String,
			created_at     DateTime64(3),
			event_time     DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (integration_id, event_time);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *DeliveryAnalyticsRepo) Close() error {
	return r.db.Close()
}

// Verificación estática de la interfaz.
var _ domain.DeliveryAnalytics = (*DeliveryAnalyticsRepo)(nil)
