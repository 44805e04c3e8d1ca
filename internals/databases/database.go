package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"biolab_backend/internals/configs"
	"biolab_backend/internals/helpers/logger"
)

// DSN prefers DATABASE_URL and otherwise builds a URL from the DB_* parts. statement_timeout
// bounds every statement server side.
func DSN(cfg configs.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	q.Set("application_name", "biolab")
	q.Set("options", "-c statement_timeout=30000")
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectDB opens the Postgres pool. PreferSimpleProtocol keeps it usable behind PgBouncer
// (the Supabase pooler on 6543).
func ConnectDB(ctx context.Context, cfg configs.Config, log *logger.Logger) (*gorm.DB, error) {
	log.Info("connecting to postgres", "host", cfg.DBHost, "url_set", cfg.DatabaseURL != "")
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: configs.NewGormLogger(log, cfg.IsProduction())})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	TunePool(db)
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := Ping(pctx, db); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("postgres connected")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
