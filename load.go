package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/YLivay/delimited/reader"
)

// loadRecords creates table in the SQLite database at dbPath if needed and
// inserts every record of r into it in a single transaction. The table is as
// wide as the first record; longer records are cut and shorter ones padded
// with NULLs. It returns the number of rows inserted.
func loadRecords(ctx context.Context, dbPath, table string, r *reader.Reader, header bool) (int, error) {
	width, err := r.ProbeColumnCount()
	if err != nil {
		return 0, fmt.Errorf("failed to probe column count: %w", err)
	}

	s := reader.NewScanner(r)
	var names []string
	if header {
		if !s.Scan() {
			return 0, s.Err()
		}
		names = s.Record().Fields
	}
	names = columnNames(names, width)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	columns := make([]string, width)
	for i, name := range names {
		columns[i] = quoteIdent(name)
	}

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT)", quoteIdent(table), strings.Join(columns, " TEXT, "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", width), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(columns, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	args := make([]any, width)
	for s.Scan() {
		fields := s.Record().Fields
		for i := range args {
			if i < len(fields) {
				args[i] = fields[i]
			} else {
				args[i] = nil
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return rows, fmt.Errorf("failed to insert record at offset %d: %w", s.Record().Start, err)
		}
		rows++
	}
	if err := s.Err(); err != nil {
		return rows, err
	}

	if err := tx.Commit(); err != nil {
		return rows, fmt.Errorf("failed to commit: %w", err)
	}
	return rows, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
