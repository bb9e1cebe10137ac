package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver (default backend)
)

// Config selects the storage backend. DriverSQLite with a local file path is
// the deployment default; DriverPostgres is for installations that already
// run a database server.
type Config struct {
	Driver string // "sqlite3" or "postgres"
	DSN    string // file path for sqlite3, connection string for postgres
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to the configured database and applies the schema.
func Open(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// A single connection keeps sqlite writes serialized and makes
		// in-memory databases usable from database/sql.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := ApplySchema(db, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ApplySchema creates the tables if they do not exist yet.
func ApplySchema(db *sql.DB, driver string) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}
	return nil
}

// Order ids are assigned by the application's order sequence, so orders.id is
// a plain primary key in both dialects. Order lines are keyed by
// (order_id, line_no) to preserve line ordering without a generated id.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGINT PRIMARY KEY,
    order_type TEXT NOT NULL CHECK(order_type IN ('takeaway', 'dinein', 'delivery')),
    table_number INTEGER,
    subtotal DOUBLE PRECISION NOT NULL,
    discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    total DOUBLE PRECISION NOT NULL,
    amount_paid DOUBLE PRECISION NOT NULL DEFAULT 0,
    amount_remaining DOUBLE PRECISION NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('pending', 'complete', 'incomplete')),
    payment_method TEXT NOT NULL CHECK(payment_method IN ('cash', 'card', 'upi')),
    customer_name TEXT,
    customer_contact TEXT,
    customer_address TEXT,
    staff_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    line_no INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    product_name TEXT NOT NULL,
    product_price DOUBLE PRECISION NOT NULL,
    product_category TEXT NOT NULL,
    product_image TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL CHECK(quantity > 0),
    PRIMARY KEY (order_id, line_no)
);

CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL CHECK(price >= 0),
    category TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS backup_logs (
    id INTEGER PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('auto', 'manual')),
    success INTEGER NOT NULL,
    file_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_type ON orders(order_type);
CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGINT PRIMARY KEY,
    order_type TEXT NOT NULL CHECK(order_type IN ('takeaway', 'dinein', 'delivery')),
    table_number INTEGER,
    subtotal DOUBLE PRECISION NOT NULL,
    discount_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
    discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    total DOUBLE PRECISION NOT NULL,
    amount_paid DOUBLE PRECISION NOT NULL DEFAULT 0,
    amount_remaining DOUBLE PRECISION NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('pending', 'complete', 'incomplete')),
    payment_method TEXT NOT NULL CHECK(payment_method IN ('cash', 'card', 'upi')),
    customer_name TEXT,
    customer_contact TEXT,
    customer_address TEXT,
    staff_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    line_no INTEGER NOT NULL,
    product_id TEXT NOT NULL,
    product_name TEXT NOT NULL,
    product_price DOUBLE PRECISION NOT NULL,
    product_category TEXT NOT NULL,
    product_image TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL CHECK(quantity > 0),
    PRIMARY KEY (order_id, line_no)
);

CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL CHECK(price >= 0),
    category TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS backup_logs (
    id BIGSERIAL PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('auto', 'manual')),
    success INTEGER NOT NULL,
    file_path TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_type ON orders(order_type);
CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`
