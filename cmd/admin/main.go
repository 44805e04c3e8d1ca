// Command admin runs operator tasks against the BioLab database: creating the admin account,
// applying migrations, toggling row level security and loading seed content.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gorm.io/gorm"

	"biolab_backend/internals/configs"
	database "biolab_backend/internals/databases"
	contentRepo "biolab_backend/internals/features/content/repository"
	contentService "biolab_backend/internals/features/content/service"
	authService "biolab_backend/internals/features/users/auth/service"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/storage"
	"biolab_backend/internals/seeds"
)

const usage = `usage: admin <command> [flags]

commands:
  create-admin  create or promote the admin account
  migrate       apply the schema migrations
  rls           enable|disable|status row level security on content tables
  seed          load sample content from <dir>/<segment>.json
`

// env is what commands need from the outside world.
type env struct {
	ctx    context.Context
	out    io.Writer
	log    *logger.Logger
	cfg    configs.Config
	openDB func(ctx context.Context) (*gorm.DB, error)
	// readPassword prompts without echo.
	readPassword func(prompt string) (string, error)
}

func main() {
	configs.LoadEnv()
	cfg := configs.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	e := &env{
		ctx: context.Background(),
		out: os.Stdout,
		log: log,
		cfg: cfg,
		openDB: func(ctx context.Context) (*gorm.DB, error) {
			return database.ConnectDB(ctx, cfg, log)
		},
		readPassword: terminalPassword,
	}
	if err := run(e, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func terminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, pass --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return string(b), err
}

func run(e *env, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(e.out, usage)
		return errors.New("missing command")
	}
	switch args[0] {
	case "create-admin":
		return createAdmin(e, args[1:])
	case "migrate":
		return migrate(e, args[1:])
	case "rls":
		return rls(e, args[1:])
	case "seed":
		return seed(e, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(e.out, usage)
		return nil
	default:
		fmt.Fprint(e.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func createAdmin(e *env, args []string) error {
	fs := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	fs.SetOutput(e.out)
	email := fs.String("email", "admin@biolab.kz", "admin email")
	name := fs.String("name", "Администратор", "admin full name")
	password := fs.String("password", "", "admin password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := e.openDB(e.ctx)
	if err != nil {
		return err
	}
	// EnsureAdmin never issues tokens, so JWT_SECRET is not needed here.
	auth := authService.NewAuthService(db, nil)

	pw := *password
	if pw == "" {
		if pw, err = e.readPassword("Password: "); err != nil {
			return err
		}
		confirm, err := e.readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != pw {
			return errors.New("passwords do not match")
		}
	}

	user, created, err := auth.EnsureAdmin(e.ctx, strings.ToLower(strings.TrimSpace(*email)), *name, pw)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(e.out, "admin created: %s (%s)\n", user.Email, user.ID)
	} else {
		fmt.Fprintf(e.out, "admin role granted: %s (%s)\n", user.Email, user.ID)
	}
	return nil
}

func migrate(e *env, args []string) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	fs.SetOutput(e.out)
	list := fs.Bool("list", false, "print migration names without applying them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *list {
		for _, m := range database.Migrations {
			fmt.Fprintln(e.out, m.Name)
		}
		return nil
	}
	db, err := e.openDB(e.ctx)
	if err != nil {
		return err
	}
	if err := database.Migrate(e.ctx, db, e.log); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%d migrations applied\n", len(database.Migrations))
	return nil
}

func rls(e *env, args []string) error {
	fs := pflag.NewFlagSet("rls", pflag.ContinueOnError)
	fs.SetOutput(e.out)
	tables := fs.StringSlice("table", nil, "content tables to change (default all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("rls needs one of enable, disable, status")
	}
	action := fs.Arg(0)
	if action != "enable" && action != "disable" && action != "status" {
		return fmt.Errorf("unknown rls action %q", action)
	}
	targets := *tables
	if len(targets) == 0 {
		targets = database.ContentTables
	}

	db, err := e.openDB(e.ctx)
	if err != nil {
		return err
	}
	if action != "status" {
		for _, t := range targets {
			if err := database.SetRLS(e.ctx, db, t, action == "enable"); err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
			e.log.Info("row level security changed", "table", t, "action", action)
		}
	}

	status, err := database.RLSStatus(e.ctx, db)
	if err != nil {
		return err
	}
	for _, s := range status {
		fmt.Fprintf(e.out, "%-20s rowsecurity=%t\n", s.Table, s.Enabled)
	}
	return nil
}

func seed(e *env, args []string) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	fs.SetOutput(e.out)
	dir := fs.String("dir", "seeds", "directory holding labs.json, steam.json, teachers.json, students.json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := e.openDB(e.ctx)
	if err != nil {
		return err
	}
	svc := contentService.NewContentService(contentService.Deps{
		Repo:   contentRepo.NewContentRepository(db, e.cfg.InsertTimeout),
		Ledger: contentRepo.NewUploadRepository(db),
		// Seeds reference URLs only; nothing is uploaded or removed.
		Blob: storage.NewMemoryStore(e.cfg.SupabaseURL, e.cfg.StorageBucket),
		Log:  e.log,
	})
	ctx, cancel := context.WithTimeout(e.ctx, 5*time.Minute)
	defer cancel()
	res, err := seeds.RunAllSeeds(ctx, svc, *dir, e.log)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "created=%d skipped=%d failed=%d\n", res.Created, res.Skipped, res.Failed)
	return nil
}
