package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TableRLS is one row of pg_tables.rowsecurity.
type TableRLS struct {
	Table   string `gorm:"column:tablename" json:"table"`
	Enabled bool   `gorm:"column:rowsecurity" json:"enabled"`
}

func checkTable(table string) error {
	for _, t := range ContentTables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%q is not a content table", table)
}

// SetRLS enables or disables row level security on a content table. The table name is
// checked against ContentTables before it reaches the statement.
func SetRLS(ctx context.Context, db *gorm.DB, table string, enabled bool) error {
	if err := checkTable(table); err != nil {
		return err
	}
	verb := "DISABLE"
	if enabled {
		verb = "ENABLE"
	}
	return db.WithContext(ctx).Exec(fmt.Sprintf("ALTER TABLE %s %s ROW LEVEL SECURITY", table, verb)).Error
}

// RLSStatus reports the content tables' row level security flag.
func RLSStatus(ctx context.Context, db *gorm.DB) ([]TableRLS, error) {
	var out []TableRLS
	err := db.WithContext(ctx).
		Raw("SELECT tablename, rowsecurity FROM pg_tables WHERE schemaname = 'public' AND tablename IN ? ORDER BY tablename", ContentTables).
		Scan(&out).Error
	return out, err
}
