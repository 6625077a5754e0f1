package application

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cleaner es cualquier cosa que sepa purgar registros antiguos.
type Cleaner interface {
	CleanUp(ctx context.Context) (int64, error)
}

// Janitor ejecuta la limpieza periódica de los registros de entrega.
type Janitor struct {
	cleaner  Cleaner
	interval time.Duration
	log      *zap.Logger
}

func NewJanitor(cleaner Cleaner, interval time.Duration, log *zap.Logger) *Janitor {
	return &Janitor{cleaner: cleaner, interval: interval, log: log}
}

// Start bloquea hasta que se cancele ctx; lanzar en una goroutine.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info("🚀 Integration events janitor started", zap.Duration("interval", j.interval))
	for {
		select {
		case <-ctx.Done():
			j.log.Info("🛑 Integration events janitor stopped")
			return
		case <-ticker.C:
			// el error ya lo registra el cleaner
			_, _ = j.cleaner.CleanUp(ctx)
		}
	}
}
