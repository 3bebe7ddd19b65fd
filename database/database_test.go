package database

import (
	"testing"

	"portal/config"
	"portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	pg := &config.Config{DBDriver: "postgres", DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "portal", DBPort: "5432"}
	assert.Equal(t, "host=db user=u password=p dbname=portal port=5432 sslmode=disable TimeZone=UTC", DSN(pg))

	my := &config.Config{DBDriver: "mysql", DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "portal", DBPort: "3306"}
	assert.Equal(t, "u:p@tcp(db:3306)/portal?charset=utf8mb4&parseTime=True&loc=UTC", DSN(my))

	explicit := &config.Config{DBDriver: "postgres", DBDsn: "postgres://x"}
	assert.Equal(t, "postgres://x", DSN(explicit))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.Error(t, err)
}

func TestMigrate_CreatesApplicationPairIndex(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Application{}))
	assert.True(t, db.Migrator().HasIndex(&models.Application{}, "idx_application_applicant_opportunity"))
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "address_city"))
	assert.True(t, db.Migrator().HasColumn(&models.Opportunity{}, "applications_count"))
}
