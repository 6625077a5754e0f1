package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"
)

// TimeFormat es de ancho fijo y en UTC para que el orden lexicográfico coincida con el cronológico.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Open abre la base de datos y activa WAL y claves foráneas.
// Con ":memory:" se limita a una conexión: cada conexión tendría su propia base.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	}
	if path != ":memory:" {
		pragmas = append(pragmas, `PRAGMA journal_mode = WAL`)
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite %q: %w", p, err)
		}
	}
	return db, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		// filas escritas por SQLite (CURRENT_TIMESTAMP)
		t, err = time.Parse("2006-01-02 15:04:05", s)
	}
	return t.UTC(), err
}
