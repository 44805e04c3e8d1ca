package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"biolab_backend/internals/helpers/logger"
)

// Migration is one idempotent DDL step.
type Migration struct {
	Name string
	SQL  string
}

const contentTable = `
CREATE TABLE IF NOT EXISTS %s (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title          TEXT NOT NULL,
	description    TEXT,
	theory         TEXT,
	process        TEXT,
	class_level    INTEGER,
	image_url      TEXT,
	video_url      TEXT,
	external_links TEXT[] NOT NULL DEFAULT '{}',
	files          TEXT[] NOT NULL DEFAULT '{}',
	created_by     UUID REFERENCES users(id) ON DELETE SET NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_%[1]s_class_level ON %[1]s (class_level);`

// ContentTables are the four content tables, in the order the dashboard lists them.
var ContentTables = []string{"labs", "steam", "teachers_materials", "students_materials"}

// Migrations is the ordered schema. Every step can be rerun.
var Migrations = []Migration{
	{"extensions", `CREATE EXTENSION IF NOT EXISTS pgcrypto;`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email      VARCHAR(255) NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"profiles", `
CREATE TABLE IF NOT EXISTS profiles (
	user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	full_name  VARCHAR(255) NOT NULL,
	role       VARCHAR(16) NOT NULL DEFAULT 'student' CHECK (role IN ('student','teacher','admin')),
	class      INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"labs", fmt.Sprintf(contentTable, "labs")},
	{"labs_kz", `
ALTER TABLE labs ADD COLUMN IF NOT EXISTS title_kz TEXT;
ALTER TABLE labs ADD COLUMN IF NOT EXISTS description_kz TEXT;
ALTER TABLE labs ADD COLUMN IF NOT EXISTS theory_kz TEXT;
ALTER TABLE labs ADD COLUMN IF NOT EXISTS process_kz TEXT;`},
	{"steam", fmt.Sprintf(contentTable, "steam")},
	{"teachers_materials", fmt.Sprintf(contentTable, "teachers_materials")},
	{"students_materials", fmt.Sprintf(contentTable, "students_materials")},
	{"uploads", `
CREATE TABLE IF NOT EXISTS uploads (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	object_key TEXT NOT NULL UNIQUE,
	public_url TEXT NOT NULL,
	kind       VARCHAR(16) NOT NULL,
	status     VARCHAR(16) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','attached','orphaned')),
	metadata   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_uploads_public_url ON uploads (public_url);
CREATE INDEX IF NOT EXISTS idx_uploads_status_updated ON uploads (status, updated_at);`},
	{"token_blacklist", `
CREATE TABLE IF NOT EXISTS token_blacklist (
	id         SERIAL PRIMARY KEY,
	token      TEXT NOT NULL UNIQUE,
	expired_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_token_blacklist_expired_at ON token_blacklist (expired_at);`},
}

// Migrate applies every step inside one transaction.
func Migrate(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range Migrations {
			if err := tx.Exec(m.SQL).Error; err != nil {
				return fmt.Errorf("migration %s: %w", m.Name, err)
			}
			log.Info("migration applied", "name", m.Name)
		}
		return nil
	})
}
