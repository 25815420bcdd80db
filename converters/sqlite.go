package converters

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/darianmavgo/mkinsert/converters/common"

	_ "modernc.org/sqlite"
)

// MemoryDatabase keeps the loaded database in memory, which makes LoadSQL a validity check.
const MemoryDatabase = ":memory:"

// LoadOptions defines configuration for LoadSQL.
type LoadOptions struct {
	Database string       // SQLite database file, MemoryDatabase when empty
	Table    string       // If set, rows in this table are counted after loading
	Logger   *slog.Logger // Progress logger, discarded when nil
}

// LoadResult reports what LoadSQL did.
type LoadResult struct {
	Database string
	Table    string
	Rows     int64 // rows in Table after the script ran, 0 when no table was given
}

// LoadSQL executes a generated SQL script against a SQLite database.
// The script runs as one Exec call, so its own begin transaction/commit blocks apply.
func LoadSQL(ctx context.Context, script io.Reader, opts LoadOptions) (LoadResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	result := LoadResult{Database: opts.Database, Table: opts.Table}
	if result.Database == "" {
		result.Database = MemoryDatabase
	}

	content, err := io.ReadAll(script)
	if err != nil {
		return result, fmt.Errorf("%w: failed to read script: %w", common.ErrIO, err)
	}

	db, err := sql.Open("sqlite", result.Database)
	if err != nil {
		return result, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// One connection keeps an in-memory database alive for the count query.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA page_size = 65536; PRAGMA cache_size = -2000;"); err != nil {
		return result, fmt.Errorf("failed to set PRAGMAs: %w", err)
	}

	logger.Debug("executing script", "database", result.Database, "bytes", len(content))
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return result, fmt.Errorf("failed to execute script: %w", err)
	}

	if result.Table != "" {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", result.Table)
		if err := db.QueryRowContext(ctx, query).Scan(&result.Rows); err != nil {
			return result, fmt.Errorf("failed to count rows in %s: %w", result.Table, err)
		}
	}

	logger.Info("script loaded", "database", result.Database, "table", result.Table, "rows", result.Rows)
	return result, nil
}
