package services

import (
	"testing"

	"datacatalogapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedCatalog creates a processed, published version with one
// database/schema/table subtree and returns the version.
func seedCatalog(t *testing.T, db *gorm.DB, hash, databaseName string) *models.Version {
	t.Helper()
	version := processedVersion(t, db, hash)

	database := &models.Database{VersionID: version.ID, Name: databaseName, DisplayName: databaseName}
	require.NoError(t, db.Create(database).Error)
	schema := &models.Schema{DatabaseID: database.ID, Name: "dbo"}
	require.NoError(t, db.Create(schema).Error)
	table := &models.Table{SchemaID: schema.ID, Name: "Appointment_v15", IsTable: true}
	require.NoError(t, db.Create(table).Error)
	column := &models.Column{TableID: table.ID, Name: "AttendanceStatus", DataType: "int"}
	require.NoError(t, db.Create(column).Error)

	return version
}

func TestBrowsingVersionRequiresPublication(t *testing.T) {
	db := testDB(t)
	srv := NewCatalogServiceWithDB(db)

	_, err := srv.BrowsingVersion(nil)
	require.ErrorIs(t, err, ErrNoPublishedVersion)
}

func TestListDatabasesScopedToPublished(t *testing.T) {
	db := testDB(t)
	catalogSrv := NewCatalogServiceWithDB(db)
	publishSrv := NewPublishServiceWithDB(db)

	old := seedCatalog(t, db, "hash-old", "NHSE_IAPT_OLD")
	current := seedCatalog(t, db, "hash-new", "NHSE_IAPT")

	_, err := publishSrv.Publish(old.ID, nil)
	require.NoError(t, err)
	_, err = publishSrv.Publish(current.ID, nil)
	require.NoError(t, err)

	databases, version, err := catalogSrv.ListDatabases(nil)
	require.NoError(t, err)
	assert.Equal(t, current.ID, version.ID)
	require.Len(t, databases, 1)
	assert.Equal(t, "NHSE_IAPT", databases[0].Name)
}

func TestPinnedUserBrowsesPinnedVersion(t *testing.T) {
	db := testDB(t)
	catalogSrv := NewCatalogServiceWithDB(db)
	publishSrv := NewPublishServiceWithDB(db)

	old := seedCatalog(t, db, "hash-old", "NHSE_IAPT_OLD")
	current := seedCatalog(t, db, "hash-new", "NHSE_IAPT")
	_, err := publishSrv.Publish(current.ID, nil)
	require.NoError(t, err)

	viewer := &models.User{Email: "viewer@example.nhs.uk"}
	require.NoError(t, db.Create(viewer).Error)
	require.NoError(t, publishSrv.PinVersion(viewer.ID, old.ID))

	databases, version, err := catalogSrv.ListDatabases(&viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, old.ID, version.ID)
	require.Len(t, databases, 1)
	assert.Equal(t, "NHSE_IAPT_OLD", databases[0].Name)
}

func TestGetDatabaseWithSchemas(t *testing.T) {
	db := testDB(t)
	catalogSrv := NewCatalogServiceWithDB(db)
	publishSrv := NewPublishServiceWithDB(db)

	version := seedCatalog(t, db, "hash-1", "NHSE_IAPT")
	_, err := publishSrv.Publish(version.ID, nil)
	require.NoError(t, err)

	database, schemas, err := catalogSrv.GetDatabase(nil, "NHSE_IAPT")
	require.NoError(t, err)
	assert.Equal(t, "NHSE_IAPT", database.Name)
	require.Len(t, schemas, 1)

	tables, err := catalogSrv.ListTables(schemas[0].ID)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	columns, err := catalogSrv.ListColumns(tables[0].ID)
	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "AttendanceStatus", columns[0].Name)

	_, _, err = catalogSrv.GetDatabase(nil, "NoSuchDatabase")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetStats(t *testing.T) {
	db := testDB(t)
	catalogSrv := NewCatalogServiceWithDB(db)
	publishSrv := NewPublishServiceWithDB(db)

	version := seedCatalog(t, db, "hash-1", "NHSE_IAPT")
	_, err := publishSrv.Publish(version.ID, nil)
	require.NoError(t, err)

	stats, err := catalogSrv.GetStats(nil)
	require.NoError(t, err)
	assert.Equal(t, version.ID, stats.VersionID)
	assert.Equal(t, 1, stats.Databases)
	assert.Equal(t, int64(1), stats.Tables)
	assert.Equal(t, int64(1), stats.Columns)
}
