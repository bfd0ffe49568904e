package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcabrera-io/wayfarer/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and hands out repository implementations
// bound to it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Single writer; SQLite serializes writes anyway and this avoids
	// SQLITE_BUSY under concurrent transactions.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Users returns the user repository bound to this database.
func (db *DB) Users() *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

// Places returns the place repository bound to this database.
func (db *DB) Places() *PlaceRepository {
	return &PlaceRepository{db: db.SqlDB}
}

// Coordinator returns the place/user consistency coordinator bound to this
// database.
func (db *DB) Coordinator() *Coordinator {
	return &Coordinator{db: db.SqlDB}
}

// FileStore returns the blob file store bound to this database.
func (db *DB) FileStore() *FileStore {
	return &FileStore{db: db.SqlDB}
}
