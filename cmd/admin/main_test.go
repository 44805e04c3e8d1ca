package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"biolab_backend/internals/configs"
	"biolab_backend/internals/constants"
	"biolab_backend/internals/databases/dbtest"
	userModel "biolab_backend/internals/features/users/user/model"
	"biolab_backend/internals/helpers/logger"
)

func newEnv(t *testing.T, db *gorm.DB, passwords ...string) (*env, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	e := &env{
		ctx: context.Background(),
		out: out,
		log: logger.Nop(),
		cfg: configs.Config{StorageBucket: "files"},
		openDB: func(context.Context) (*gorm.DB, error) {
			if db == nil {
				return nil, errors.New("no database")
			}
			return db, nil
		},
		readPassword: func(string) (string, error) {
			if len(passwords) == 0 {
				return "", errors.New("no more input")
			}
			p := passwords[0]
			passwords = passwords[1:]
			return p, nil
		},
	}
	return e, out
}

func TestCreateAdmin(t *testing.T) {
	db := dbtest.Open(t)

	e, out := newEnv(t, db, "secret12", "secret12")
	if err := run(e, []string{"create-admin"}); err != nil {
		t.Fatalf("create-admin: %v", err)
	}
	if !strings.Contains(out.String(), "admin created: admin@biolab.kz") {
		t.Fatalf("output = %q", out.String())
	}

	var p userModel.ProfileModel
	if err := db.Table("profiles").First(&p).Error; err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Role != constants.RoleAdmin || p.FullName != "Администратор" {
		t.Fatalf("profile = %+v", p)
	}

	e, out = newEnv(t, db)
	if err := run(e, []string{"create-admin", "--email", " Admin@BioLab.kz ", "--password", "another1"}); err != nil {
		t.Fatalf("second create-admin: %v", err)
	}
	if !strings.Contains(out.String(), "admin role granted") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestCreateAdminPasswordMismatch(t *testing.T) {
	e, _ := newEnv(t, dbtest.Open(t), "secret12", "secret13")
	if err := run(e, []string{"create-admin"}); err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Fatalf("err = %v", err)
	}
}

func TestSeedCommand(t *testing.T) {
	e, out := newEnv(t, dbtest.Open(t))
	if err := run(e, []string{"seed", "--dir", "../../internals/seeds/testdata"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "created=3 skipped=0 failed=1" {
		t.Fatalf("output = %q", got)
	}
}

func TestArgumentErrors(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{nil, "missing command"},
		{[]string{"drop-everything"}, "unknown command"},
		{[]string{"rls"}, "one of enable, disable, status"},
		{[]string{"rls", "toggle"}, "unknown rls action"},
		{[]string{"rls", "status"}, "no database"},
		{[]string{"migrate", "--bogus"}, "unknown flag"},
	}
	for _, tc := range cases {
		e, _ := newEnv(t, nil)
		err := run(e, tc.args)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("run(%v) err = %v, want %q", tc.args, err, tc.want)
		}
	}
}

func TestMigrateList(t *testing.T) {
	e, out := newEnv(t, nil)
	if err := run(e, []string{"migrate", "--list"}); err != nil {
		t.Fatalf("migrate --list: %v", err)
	}
	for _, name := range []string{"users", "labs_kz", "token_blacklist"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("missing %s in %q", name, out.String())
		}
	}
}
