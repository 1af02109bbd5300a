package portal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps the portal mapping in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the portals table if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS portals (
		key TEXT PRIMARY KEY,
		base_url TEXT NOT NULL,
		article_selector TEXT NOT NULL,
		title_selector TEXT NOT NULL,
		link_selector TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads every stored portal.
func (s *SQLiteStore) Load(ctx context.Context) (Portals, error) {
	query := `
		SELECT key, base_url, article_selector, title_selector, link_selector
		FROM portals
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portals: %w", err)
	}
	defer rows.Close()

	portals := Portals{}
	for rows.Next() {
		var key string
		var p Profile
		if err := rows.Scan(&key, &p.BaseURL, &p.ArticleSelector, &p.TitleSelector, &p.LinkSelector); err != nil {
			return nil, fmt.Errorf("failed to scan portal: %w", err)
		}
		portals[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portals: %w", err)
	}

	return portals, nil
}

// Save replaces every stored portal with portals in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, portals Portals) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM portals"); err != nil {
		return fmt.Errorf("failed to clear portals: %w", err)
	}

	insert := `
		INSERT INTO portals (key, base_url, article_selector, title_selector, link_selector)
		VALUES (?, ?, ?, ?, ?)
	`
	for key, p := range portals {
		if _, err := tx.ExecContext(ctx, insert,
			key, p.BaseURL, p.ArticleSelector, p.TitleSelector, p.LinkSelector,
		); err != nil {
			return fmt.Errorf("failed to insert portal %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit portals: %w", err)
	}

	return nil
}
