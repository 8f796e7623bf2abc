package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kelly-lin/swift-lang-server/parser"
	_ "github.com/mattn/go-sqlite3"
)

const defaultSearchLimit = 100

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store is the SQLite backed symbol index.
type Store struct {
	db     *sql.DB
	q      Querier
	dbPath string
}

// Symbol is an indexed declaration.
type Symbol struct {
	Name           string
	Kind           parser.SymbolKind
	Path           string
	Range          parser.Range
	SelectionRange parser.Range
	Container      string
}

// OpenPath opens or creates the index database at path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newStore(db, path)
}

// OpenMemory opens an in-memory index.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return newStore(db, ":memory:")
}

func newStore(db *sql.DB, path string) (*Store, error) {
	s := &Store{db: db, dbPath: path}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		indexed_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		container TEXT NOT NULL DEFAULT '',
		start_row INTEGER NOT NULL,
		start_col INTEGER NOT NULL,
		end_row INTEGER NOT NULL,
		end_col INTEGER NOT NULL,
		sel_start_row INTEGER NOT NULL,
		sel_start_col INTEGER NOT NULL,
		sel_end_row INTEGER NOT NULL,
		sel_end_col INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
	CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path);
	`)
	return err
}

// WithTransaction runs fn within a single transaction. Store methods called
// on txStore use the transaction, the receiver is left untouched.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// FileHashes returns the content hash of every indexed file keyed by path.
func (s *Store) FileHashes() (map[string]string, error) {
	rows, err := s.q.Query(`SELECT path, hash FROM files`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		result[path] = hash
	}
	return result, rows.Err()
}

// PutFile replaces the symbols of the file at path.
func (s *Store) PutFile(path, hash string, symbols []Symbol) error {
	if _, err := s.q.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete symbols of %s: %w", path, err)
	}
	_, err := s.q.Exec(`INSERT INTO files (path, hash, indexed_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, indexed_at = excluded.indexed_at`,
		path, hash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert file %s: %w", path, err)
	}
	for _, sym := range symbols {
		_, err := s.q.Exec(`INSERT INTO symbols (path, name, kind, container,
			start_row, start_col, end_row, end_col,
			sel_start_row, sel_start_col, sel_end_row, sel_end_col)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			path, sym.Name, string(sym.Kind), sym.Container,
			sym.Range.Start.Row, sym.Range.Start.Column, sym.Range.End.Row, sym.Range.End.Column,
			sym.SelectionRange.Start.Row, sym.SelectionRange.Start.Column,
			sym.SelectionRange.End.Row, sym.SelectionRange.End.Column)
		if err != nil {
			return fmt.Errorf("insert symbol %s: %w", sym.Name, err)
		}
	}
	return nil
}

// DeleteFile removes the file at path and its symbols.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.q.Exec(`DELETE FROM symbols WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete symbols of %s: %w", path, err)
	}
	if _, err := s.q.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

// Search returns symbols whose name contains query, ignoring case. Exact
// matches come first, then shorter names. A non-positive limit uses the
// default of 100.
func (s *Store) Search(query string, limit int) ([]Symbol, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	rows, err := s.q.Query(`SELECT name, kind, path, container,
		start_row, start_col, end_row, end_col,
		sel_start_row, sel_start_col, sel_end_row, sel_end_col
		FROM symbols
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY lower(name) = lower(?) DESC, length(name), name, path, start_row
		LIMIT ?`, "%"+escapeLike(query)+"%", query, limit)
	if err != nil {
		return nil, fmt.Errorf("search symbols: %w", err)
	}
	defer rows.Close()

	var result []Symbol
	for rows.Next() {
		var sym Symbol
		var kind string
		err := rows.Scan(&sym.Name, &kind, &sym.Path, &sym.Container,
			&sym.Range.Start.Row, &sym.Range.Start.Column, &sym.Range.End.Row, &sym.Range.End.Column,
			&sym.SelectionRange.Start.Row, &sym.SelectionRange.Start.Column,
			&sym.SelectionRange.End.Row, &sym.SelectionRange.End.Column)
		if err != nil {
			return nil, err
		}
		sym.Kind = parser.SymbolKind(kind)
		result = append(result, sym)
	}
	return result, rows.Err()
}

// Counts returns the number of indexed files and symbols.
func (s *Store) Counts() (files, symbols int, err error) {
	if err := s.q.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return 0, 0, err
	}
	if err := s.q.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&symbols); err != nil {
		return 0, 0, err
	}
	return files, symbols, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
