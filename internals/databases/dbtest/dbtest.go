// Package dbtest opens throwaway SQLite databases carrying the BioLab schema, for tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

const contentColumns = `
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	%s
	description TEXT,
	theory TEXT,
	process TEXT,
	class_level INTEGER,
	image_url TEXT,
	video_url TEXT,
	external_links TEXT,
	files TEXT,
	created_by TEXT,
	created_at DATETIME,
	updated_at DATETIME`

const kazakhColumns = `
	title_kz TEXT,
	description_kz TEXT,
	theory_kz TEXT,
	process_kz TEXT,`

var statements = []string{
	fmt.Sprintf(`CREATE TABLE labs (%s)`, fmt.Sprintf(contentColumns, kazakhColumns)),
	fmt.Sprintf(`CREATE TABLE steam (%s)`, fmt.Sprintf(contentColumns, "")),
	fmt.Sprintf(`CREATE TABLE teachers_materials (%s)`, fmt.Sprintf(contentColumns, "")),
	fmt.Sprintf(`CREATE TABLE students_materials (%s)`, fmt.Sprintf(contentColumns, "")),
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE profiles (
		user_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('student','teacher','admin')),
		class INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE uploads (
		id TEXT PRIMARY KEY,
		object_key TEXT NOT NULL UNIQUE,
		public_url TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		metadata TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE token_blacklist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		token TEXT NOT NULL UNIQUE,
		expired_at DATETIME,
		created_at DATETIME,
		deleted_at DATETIME
	)`,
}

// Open returns a private in-memory database with every BioLab table created.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:biolab_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v\n%s", err, stmt)
		}
	}
	return db
}
