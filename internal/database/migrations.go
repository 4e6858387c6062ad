package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type tableIndex struct {
	table   string
	name    string
	columns string
}

// indexes lists the secondary indexes the schema tags do not declare.
var indexes = []tableIndex{
	// Every task query is filtered by owner
	{"tasks", "idx_tasks_user_id", "user_id"},
	{"tasks", "idx_tasks_user_created_at", "user_id, created_at"},
}

// AddIndexes creates any missing index from the indexes list
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			slog.Debug("index already exists, skipping", slog.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index",
			slog.String("index", idx.name),
			slog.String("table", idx.table),
			slog.String("columns", idx.columns),
		)
	}

	return nil
}
