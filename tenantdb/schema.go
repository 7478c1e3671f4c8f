package tenantdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// DatabaseFile is the name of the tenant database inside the site
// directory.
const DatabaseFile = "data.db"

// schemaDDL is the canonical empty schema every tenant database starts
// from. The template file is created from it once and copied per
// tenant; provisioning never alters the schema afterwards.
const schemaDDL = `
CREATE TABLE user (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at  TIMESTAMP,
    email       VARCHAR(256),
    password    VARCHAR(256),
    active      BOOLEAN,
    login_token VARCHAR(256)
);

CREATE TABLE payment_provider (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    stripe_active     BOOLEAN DEFAULT 0,
    gocardless_active BOOLEAN DEFAULT 0
);

CREATE TABLE setting (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    default_currency     VARCHAR(3),
    default_country_code VARCHAR(2)
);

CREATE TABLE company (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP,
    name       VARCHAR(256)
);

CREATE TABLE integration (
    id INTEGER PRIMARY KEY
);

CREATE TABLE plan (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at        TIMESTAMP,
    archived          BOOLEAN DEFAULT 0,
    uuid              VARCHAR(36),
    title             VARCHAR(256),
    description       TEXT,
    sell_price        INTEGER,
    interval_amount   INTEGER,
    interval_unit     VARCHAR(16),
    trial_period_days INTEGER DEFAULT 0,
    private           BOOLEAN DEFAULT 0
);

CREATE TABLE plan_requirements (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at      TIMESTAMP,
    plan_id         INTEGER REFERENCES plan (id),
    instant_payment BOOLEAN,
    subscription    BOOLEAN
);

CREATE TABLE plan_selling_points (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP,
    point      TEXT,
    position   INTEGER,
    plan_id    INTEGER REFERENCES plan (id)
);
`

// CreateTemplate writes a fresh empty-schema database file at path.
// It fails if the file already exists, so an in-use template can never
// be clobbered.
func CreateTemplate(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("template %s already exists", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open template database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
