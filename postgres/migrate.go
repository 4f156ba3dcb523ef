package postgres

import (
	"fmt"
	"time"

	"github.com/xy-planning-network/golink"
	"gorm.io/gorm"
)

const migrationsTable = "migrations"

// Migration pairs a unique key with the function applying a schema change.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(
			`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`,
			m.Key, time.Now().Unix(),
		).Error
	})
}

// MigrateUp runs, in order, each migration whose key is not yet recorded
// in the migrations table.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("%w: creating schema %s: %s", golink.ErrUnexpected, schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("%w: creating migrations table: %s", golink.ErrUnexpected, err)
	}

	var ran []string
	if err := db.Table(migrationsTable).Pluck("key", &ran).Error; err != nil {
		return fmt.Errorf("%w: fetching ran migrations: %s", golink.ErrUnexpected, err)
	}

	done := make(map[string]bool, len(ran))
	for _, key := range ran {
		done[key] = true
	}

	for _, m := range migrations {
		if done[m.Key] {
			continue
		}

		if err := m.execute(db); err != nil {
			return fmt.Errorf("%w: migration %s: %s", golink.ErrUnexpected, m.Key, err)
		}
	}

	return nil
}

// Migrations creates the tables redirects are stored in.
var Migrations = []Migration{
	{
		Key: "20240301_create_external_users",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE external_users (
					id BIGSERIAL PRIMARY KEY,
					external_id TEXT NOT NULL UNIQUE,
					name TEXT NOT NULL DEFAULT ''
				)
			`).Error
		},
	},
	{
		Key: "20240301_create_redirects",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE redirects (
					id BIGSERIAL PRIMARY KEY,
					public_ref VARCHAR(10) NOT NULL UNIQUE,
					alias TEXT NOT NULL UNIQUE,
					destination TEXT NOT NULL,
					created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
					created_by_id BIGINT NOT NULL REFERENCES external_users (id)
				)
			`).Error
		},
	},
	{
		Key: "20240301_create_redirect_usages",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE redirect_usages (
					id BIGSERIAL PRIMARY KEY,
					redirect_id BIGINT NOT NULL UNIQUE REFERENCES redirects (id) ON DELETE CASCADE,
					clicks BIGINT NOT NULL DEFAULT 0
				)
			`).Error
		},
	},
}
