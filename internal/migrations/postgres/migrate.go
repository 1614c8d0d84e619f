package postgres

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"doctortravel/pkg/logger"
)

//go:embed sql/*.sql
var files embed.FS

type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at;autoCreateTime"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded scripts ordered by file name.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed reading %s: %w", name, err)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, "sql/"), ".sql")
		migrations = append(migrations, Migration{Version: version, SQL: string(body)})
	}
	return migrations, nil
}

// RunMigration applies every script not yet recorded in schema_migrations.
// Each script runs in its own transaction together with its bookkeeping row.
func RunMigration(db *gorm.DB, log *logger.Logger) error {
	log.Info("Running Postgres migrations")

	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	var applied []string
	if err := db.Model(&schemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	migrations, err := Migrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if done[m.Version] {
			log.Debug("Migration already applied", "version", m.Version)
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.SQL).Error; err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.Version}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Version, err)
		}
		log.Info("Applied migration", "version", m.Version)
	}

	log.Info("All Postgres migrations applied")
	return nil
}
