package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dfryer1193/siteblog/shared/db"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	defaultPath = "./siteblog.db"
	driverName  = "sqlite"
)

type SQLiteConfig struct {
	Path string
}

// NewSQLiteConfig reads the database path from SQLITE_DB_PATH, falling back to ./siteblog.db
func NewSQLiteConfig() *SQLiteConfig {
	path := os.Getenv("SQLITE_DB_PATH")
	if path == "" {
		path = defaultPath
	}

	return &SQLiteConfig{
		Path: path,
	}
}

var _ db.Database = (*SQLiteDB)(nil)

// SQLiteDB implements the db.Database interface for SQLite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	return &SQLiteDB{
		dbPath: cfg.Path,
	}
}

// Connect opens the database, applies pragmas and runs pending migrations
func (s *SQLiteDB) Connect(ctx context.Context) error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := Open(ctx, s.dbPath)
	if err != nil {
		return err
	}

	if err := runMigrations(ctx, conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	log.Info().Str("path", s.dbPath).Msg("Connected to SQLite database")
	return nil
}

// Open opens and configures a connection pool without running migrations.
// ":memory:" databases are pinned to a single connection so every query sees the same data.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=-64000", // 64MB
	}

	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return conn, nil
}

// OpenMemory opens a migrated in-memory database
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	conn, err := Open(ctx, ":memory:")
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return conn, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
