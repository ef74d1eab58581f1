package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// SchemaVersion marks one SQL migration as applied.
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the version log apart from the domain tables.
func (SchemaVersion) TableName() string {
	return "schema_versions"
}

// AppliedVersions lists recorded migration versions in ascending order.
// A database that has never been migrated reports none.
func AppliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	db = db.WithContext(ctx)
	if !db.Migrator().HasTable(&SchemaVersion{}) {
		return []int{}, nil
	}

	versions := []int{}
	if err := db.Model(&SchemaVersion{}).Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read schema versions: %w", err)
	}
	return versions, nil
}

// RunMigrations applies every registered migration that is not yet recorded.
// Each script and its version row commit together.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if err := checkKnownVersions(applied, migrations); err != nil {
		return err
	}

	for _, m := range migrations {
		if slices.Contains(applied, m.Version) {
			continue
		}
		middleware.Logger.Info("applying migration", slog.String("migration", m.String()))

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return err
			}
			return tx.Create(&SchemaVersion{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", m.String(), err)
		}
	}
	return nil
}

// RollbackMigration runs the down script of an applied migration and forgets it.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %s has not been applied", m.String())
	}

	middleware.Logger.Info("rolling back migration", slog.String("migration", m.String()))
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("rollback %s: %w", m.String(), err)
		}
		return tx.Delete(&SchemaVersion{}, "version = ?", version).Error
	})
}

// checkKnownVersions refuses to migrate a database that was touched by a
// newer build whose migrations this binary does not carry.
func checkKnownVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, v := range applied {
		if !slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == v }) {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("schema_versions has versions unknown to this build: %s", strings.Join(unknown, ", "))
}
