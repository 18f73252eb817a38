package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS records_collection ON records (collection);
`

// SQLite keeps every collection in one table with a JSON body per record.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Record, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	var body string
	err = s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE collection = ? AND id = ?`, collection, rowID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	return decodeBody(rowID, body)
}

func (s *SQLite) Query(ctx context.Context, collection string, where Record) ([]Record, error) {
	query := `SELECT id, body FROM records WHERE collection = ?`
	args := []any{collection}

	for _, field := range slices.Sorted(maps.Keys(where)) {
		query += ` AND json_extract(body, ?) = ?`
		args = append(args, "$."+field, sqlValue(where[field]))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rowID int64
			body  string
		)
		if err := rows.Scan(&rowID, &body); err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		rec, err := decodeBody(rowID, body)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (s *SQLite) Create(ctx context.Context, collection string, rec Record) (string, error) {
	body, err := encodeBody(rec)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO records (collection, body) VALUES (?, ?)`, collection, body)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	return strconv.FormatInt(rowID, 10), nil
}

func (s *SQLite) Update(ctx context.Context, collection, id string, fields Record) error {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM records WHERE collection = ? AND id = ?`, collection, rowID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	current := Record{}
	if err := json.Unmarshal([]byte(body), &current); err != nil {
		return fmt.Errorf("update %s/%s: decoding body: %w", collection, id, err)
	}
	maps.Copy(current, fields)

	merged, err := encodeBody(current)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE records SET body = ? WHERE id = ?`, merged, rowID); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	return tx.Commit()
}

func encodeBody(rec Record) (string, error) {
	clean := make(Record, len(rec))
	for k, v := range rec {
		if k == IDField {
			continue
		}
		clean[k] = v
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	return string(data), nil
}

func decodeBody(rowID int64, body string) (Record, error) {
	rec := Record{}
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("decoding record %d: %w", rowID, err)
	}
	rec[IDField] = strconv.FormatInt(rowID, 10)
	return rec, nil
}

// sqlValue converts a Go value into what json_extract yields for the stored JSON.
func sqlValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case time.Time:
		data, _ := json.Marshal(val)
		return strings.Trim(string(data), `"`)
	default:
		return v
	}
}
