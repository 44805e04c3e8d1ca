package database

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"biolab_backend/internals/configs"
)

func TestDSN(t *testing.T) {
	cfg := configs.Config{DatabaseURL: "postgres://u:p@pooler:6543/db"}
	if got := DSN(cfg); got != cfg.DatabaseURL {
		t.Fatalf("DATABASE_URL should win, got %q", got)
	}

	cfg = configs.Config{DBUser: "bio", DBPassword: "p@ss word", DBHost: "db.local", DBPort: "5432", DBName: "biolab", DBSSLMode: "disable"}
	u, err := url.Parse(DSN(cfg))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "db.local:5432" || u.Path != "/biolab" {
		t.Fatalf("host/path: %q %q", u.Host, u.Path)
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Fatalf("password not escaped round trip: %q", pw)
	}
	q := u.Query()
	if q.Get("sslmode") != "disable" || !strings.Contains(q.Get("options"), "statement_timeout") {
		t.Fatalf("query: %v", q)
	}
}

func TestMigrationsCoverContentTables(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Migrations {
		if names[m.Name] {
			t.Fatalf("duplicate migration %s", m.Name)
		}
		names[m.Name] = true
		if !strings.Contains(m.SQL, "IF NOT EXISTS") {
			t.Fatalf("migration %s is not rerunnable", m.Name)
		}
	}
	for _, tbl := range append([]string{"users", "profiles", "uploads", "token_blacklist"}, ContentTables...) {
		if !names[tbl] {
			t.Fatalf("no migration for %s", tbl)
		}
	}
}

func TestSetRLSRejectsUnknownTable(t *testing.T) {
	for _, tbl := range []string{"users", "labs; DROP TABLE labs", ""} {
		if err := SetRLS(context.Background(), nil, tbl, false); err == nil {
			t.Fatalf("%q should be rejected", tbl)
		}
	}
}
