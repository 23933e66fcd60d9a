package database

import (
	"performance-core/internal/models"
)

// Migrator handles database migrations
type Migrator struct {
	db *Connection
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *Connection) *Migrator {
	return &Migrator{db: db}
}

// tables lists the schema in dependency order
func tables() []interface{} {
	return []interface{}{
		&models.Campaign{},
		&models.Integration{},
		&models.DataSource{},
		&models.FieldMapping{},
		&models.WebhookRow{},
		&models.PerformanceData{},
	}
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	if err := m.db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	if err := m.db.AutoMigrate(tables()...); err != nil {
		return err
	}
	return m.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_field_mappings_source_column
		ON field_mappings (data_source_id, source_column_index)`).Error
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	all := tables()
	reversed := make([]interface{}, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		reversed = append(reversed, all[i])
	}
	return m.db.Migrator().DropTable(reversed...)
}

// TableStatus reports whether a table exists
type TableStatus struct {
	Table  string
	Exists bool
}

// Status reports which application tables exist
func (m *Migrator) Status() []TableStatus {
	out := make([]TableStatus, 0, len(tables()))
	for _, t := range tables() {
		name := t.(interface{ TableName() string }).TableName()
		out = append(out, TableStatus{Table: name, Exists: m.db.Migrator().HasTable(t)})
	}
	return out
}
