package database

import (
	"context"
	"testing"

	"yatube/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{name: "hybrid in development", cfg: config.Config{Env: "development", DBDriver: "postgres"}, wantSQL: true, wantAuto: true},
		{name: "hybrid in production", cfg: config.Config{Env: "production", DBDriver: "postgres"}, wantSQL: true},
		{name: "sql only", cfg: config.Config{Env: "development", DBDriver: "postgres", DBSchemaMode: "sql"}, wantSQL: true},
		{name: "auto in development", cfg: config.Config{Env: "development", DBDriver: "postgres", DBSchemaMode: "AUTO"}, wantAuto: true},
		{name: "auto refused in production", cfg: config.Config{Env: "production", DBDriver: "postgres", DBSchemaMode: "auto"}, wantErr: true},
		{name: "unknown mode", cfg: config.Config{Env: "development", DBDriver: "postgres", DBSchemaMode: "yolo"}, wantErr: true},
		{name: "sqlite always auto", cfg: config.Config{Env: "production", DBDriver: "sqlite", DBSchemaMode: "sql"}, wantAuto: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestGetSchemaStatus_SQLite(t *testing.T) {
	db := openSQLite(t)

	status, err := GetSchemaStatus(context.Background(), db, &config.Config{Env: "test", DBDriver: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, SchemaModeHybrid, status.Mode)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.PendingMigrations)
}

func TestLoadMigrations(t *testing.T) {
	loaded, err := LoadMigrations(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, loaded)

	first := loaded[0]
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "create_core_tables", first.Name)
	assert.Equal(t, "000001_create_core_tables", first.String())
	assert.Contains(t, first.UpScript, "chk_follows_not_self")
	assert.Contains(t, first.DownScript, "DROP TABLE IF EXISTS follows")

	assert.Equal(t, len(loaded), len(GetMigrations()))
	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestAppliedVersions_SQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	versions, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, versions, "no version table yet")

	require.NoError(t, db.AutoMigrate(&SchemaVersion{}))
	require.NoError(t, db.Create(&SchemaVersion{Version: 2, Name: "second"}).Error)
	require.NoError(t, db.Create(&SchemaVersion{Version: 1, Name: "first"}).Error)

	versions, err = AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestRollbackMigration_NotApplied(t *testing.T) {
	db := openSQLite(t)

	err := RollbackMigration(context.Background(), db, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been applied")

	err = RollbackMigration(context.Background(), db, 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckKnownVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}

	assert.NoError(t, checkKnownVersions(nil, registered))
	assert.NoError(t, checkKnownVersions([]int{1, 2}, registered))

	err := checkKnownVersions([]int{1, 7, 3}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003, 000007")
}
