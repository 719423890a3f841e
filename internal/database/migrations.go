package database

import (
	"fmt"

	"github.com/skillanthropy/skillanthropy-api/internal/logger"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// facetIndexes back the explore filters and sort orders.
var facetIndexes = []index{
	{"tasks", "idx_tasks_charity_id", "charity_id"},
	{"tasks", "idx_tasks_creator_id", "creator_id"},
	{"tasks", "idx_tasks_status", "status"},
	{"tasks", "idx_tasks_urgency", "urgency"},
	{"tasks", "idx_tasks_deadline", "deadline"},
	{"tasks", "idx_tasks_created_at", "created_at"},
	{"tasks", "idx_tasks_updated_at", "updated_at"},

	{"task_skills", "idx_task_skills_task_name", "task_id, name"},
	{"task_categories", "idx_task_categories_task_name", "task_id, name"},

	{"charity_members", "idx_charity_members_user_id", "user_id"},

	{"applications", "idx_applications_user_status", "user_id, status"},
	{"applications", "idx_applications_created_at", "created_at"},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range facetIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logger.Log.Debugw("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		logger.Log.Infow("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs schema migrations followed by index creation.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}
