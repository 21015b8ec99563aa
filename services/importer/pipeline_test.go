package importer

import (
	"testing"

	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/pkg/testdb"
	"datacatalogapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func structureRecords() []Record {
	return []Record{
		{"Database": "NHSE_IAPT", "Name": "", "Schema": "", "Table or View": "N/A", "Description": "Talking therapies", "Link": "N/A"},
		{"Database": "NHSE_IAPT", "Schema": "dbo", "Table or View": "N/A"},
		{"Database": "NHSE_IAPT", "Schema": "dbo", "Table or View": "Table", "Table/View": "Appointment_v15", "Description": "Appointments", "Link": "https://example.nhs.uk/appointment", "Date_Range": "2016 onwards"},
		{"Database": "NHSE_IAPT", "Schema": "dbo", "Table or View": "View", "Table/View": "vw_Referral", "Link": "N/A"},
	}
}

func newVersion(t *testing.T, db *gorm.DB) *models.Version {
	t.Helper()
	version := &models.Version{FilesHash: "hash-" + t.Name()}
	require.NoError(t, db.Create(version).Error)
	return version
}

func TestStructureStage(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	version := newVersion(t, db)

	stage := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	databases, err := catalogRepo.ListDatabasesByVersion(db, version.ID)
	require.NoError(t, err)
	require.Len(t, databases, 1)
	assert.Equal(t, "NHSE_IAPT", databases[0].Name)
	// The display name is derived when the extract leaves it blank.
	assert.Equal(t, "Nhse Iapt", databases[0].DisplayName)
	assert.Equal(t, "", databases[0].Link)

	schemas, err := catalogRepo.ListSchemasByDatabase(db, databases[0].ID)
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	tables, err := catalogRepo.ListTablesBySchema(db, schemas[0].ID)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Appointment_v15", tables[0].Name)
	assert.True(t, tables[0].IsTable)
	assert.Equal(t, "2016 onwards", tables[0].DateRange)
	assert.False(t, tables[1].IsTable)
}

func TestStructureStageSchemaIDGeneration(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	version := newVersion(t, db)

	records := []Record{
		{"Database": "Db", "SchemaID": "0", "Table or View": "N/A"},
		{"Database": "Db", "SchemaID": "dbo", "Table or View": "N/A"},
		{"Database": "Db", "SchemaID": "dbo", "Table or View": "Table", "Table/View": "T1"},
	}
	stage := NewStructureStage(catalogRepo, records)
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	refs, err := catalogRepo.GetTableRefsByVersion(db, version.ID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "dbo", refs[0].SchemaName)
}

func TestStructureStageUnknownParents(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	version := newVersion(t, db)

	stage := NewStructureStage(catalogRepo, []Record{
		{"Database": "Ghost", "Schema": "dbo", "Table or View": "N/A"},
	})
	err := stage.Run(db, version, logger.WithPrefix("[test]"))
	var dbErr *UnknownDatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "Ghost", dbErr.Name)

	stage = NewStructureStage(catalogRepo, []Record{
		{"Database": "Db", "Schema": "", "Table or View": "N/A"},
		{"Database": "Db", "Schema": "ghost", "Table or View": "Table", "Table/View": "T1"},
	})
	err = stage.Run(db, version, logger.WithPrefix("[test]"))
	var schemaErr *UnknownSchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "ghost", schemaErr.Name)
}

func TestColumnStage(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	structure := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, structure.Run(db, version, logger.WithPrefix("[test]")))

	records := []Record{
		{
			"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatus",
			"Present_In": "NHSE_IAPT.dbo.Appointment_v15, NHSE_IAPT.dbo.vw_Referral",
			"Description": "Whether the appointment was attended", "Data_Type": "int",
			"NCDR_Derivation_Methodology": "Direct", "Is_Derived_Item": "No", "Link": "N/A",
		},
		{
			"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatusDerived",
			"Present_In": "NHSE_IAPT.dbo.Appointment_v15",
			"Data_Type":  "int", "Is_Derived_Item": "Yes - derived from AttendanceStatus",
		},
	}
	stage := NewColumnStage(catalogRepo, elementRepo, records, 1)
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	count, err := elementRepo.CountColumnsByVersion(db, version.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	elements, err := elementRepo.GetDataElementsForVersion(db, version.ID)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "Attendance Status", elements[0].Name)
	assert.Equal(t, "attendance-status", elements[0].Slug)

	refs, err := catalogRepo.GetTableRefsByVersion(db, version.ID)
	require.NoError(t, err)
	var appointmentID uint
	for _, ref := range refs {
		if ref.TableName == "Appointment_v15" {
			appointmentID = ref.TableID
		}
	}
	columns, err := elementRepo.ListColumnsByTable(db, appointmentID)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.False(t, *columns[0].IsDerivedItem)
	// The "Yes - ..." spelling still counts as derived.
	assert.True(t, *columns[1].IsDerivedItem)
	assert.Equal(t, "", columns[0].Link)
}

func TestColumnStageReusesExistingDataElements(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)

	existing := models.DataElement{Name: "Attendance Status", Slug: "attendance-status"}
	require.NoError(t, db.Create(&existing).Error)

	version := newVersion(t, db)
	structure := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, structure.Run(db, version, logger.WithPrefix("[test]")))

	stage := NewColumnStage(catalogRepo, elementRepo, []Record{
		{"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatus", "Present_In": "NHSE_IAPT.dbo.Appointment_v15"},
	}, 100)
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	var total int64
	require.NoError(t, db.Model(&models.DataElement{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	elements, err := elementRepo.GetDataElementsForVersion(db, version.ID)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, existing.ID, elements[0].ID)
}

func TestColumnStageUnknownTable(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	structure := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, structure.Run(db, version, logger.WithPrefix("[test]")))

	stage := NewColumnStage(catalogRepo, elementRepo, []Record{
		{"Data_Element": "X", "Item_Name": "X", "Present_In": "NHSE_IAPT.dbo.NoSuchTable"},
	}, 100)
	err := stage.Run(db, version, logger.WithPrefix("[test]"))
	var tableErr *UnknownTableError
	require.ErrorAs(t, err, &tableErr)
	assert.Equal(t, "NoSuchTable", tableErr.Address.Table)
}

func TestColumnStageMalformedAddress(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	stage := NewColumnStage(catalogRepo, elementRepo, []Record{
		{"Data_Element": "X", "Item_Name": "X", "Present_In": "NoDotsHere"},
	}, 100)
	err := stage.Run(db, version, logger.WithPrefix("[test]"))
	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
}

func TestGroupingStage(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	structure := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, structure.Run(db, version, logger.WithPrefix("[test]")))
	column := NewColumnStage(catalogRepo, elementRepo, []Record{
		{"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatus", "Present_In": "NHSE_IAPT.dbo.Appointment_v15"},
	}, 100)
	require.NoError(t, column.Run(db, version, logger.WithPrefix("[test]")))

	stage := NewGroupingStage(elementRepo, []Record{
		{"Grouping": "Mental Health", "Grouping Description": "MH datasets", "Data Element": "Attendance Status", "Data Element Description": "Appointment attendance"},
		{"Grouping": "Mental Health", "Grouping Description": "MH datasets", "Data Element": "Not In This Version"},
	})
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	groupings, err := elementRepo.ListGroupings(db)
	require.NoError(t, err)
	require.Len(t, groupings, 1)
	assert.Equal(t, "mental-health", groupings[0].Slug)
	assert.Equal(t, "MH datasets", groupings[0].Description)

	attached, err := elementRepo.ListDataElementsByGrouping(db, groupings[0].ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	// The blank element description was backfilled from the mapping row.
	assert.Equal(t, "Appointment attendance", attached[0].Description)
}

func TestGroupingStageKeepsExistingDescription(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	structure := NewStructureStage(catalogRepo, structureRecords())
	require.NoError(t, structure.Run(db, version, logger.WithPrefix("[test]")))
	column := NewColumnStage(catalogRepo, elementRepo, []Record{
		{"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatus", "Present_In": "NHSE_IAPT.dbo.Appointment_v15"},
	}, 100)
	require.NoError(t, column.Run(db, version, logger.WithPrefix("[test]")))
	require.NoError(t, db.Model(&models.DataElement{}).
		Where("name = ?", "Attendance Status").
		Update("description", "Original").Error)

	stage := NewGroupingStage(elementRepo, []Record{
		{"Grouping": "Mental Health", "Data Element": "Attendance Status", "Data Element Description": "Overwrite attempt"},
	})
	require.NoError(t, stage.Run(db, version, logger.WithPrefix("[test]")))

	var element models.DataElement
	require.NoError(t, db.Where("name = ?", "Attendance Status").First(&element).Error)
	assert.Equal(t, "Original", element.Description)
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	pipeline := NewImportPipeline(
		NewStructureStage(catalogRepo, structureRecords()),
		NewColumnStage(catalogRepo, elementRepo, []Record{
			{"Data_Element": "Attendance Status", "Item_Name": "AttendanceStatus", "Present_In": "NHSE_IAPT.dbo.Appointment_v15"},
		}, 100),
		NewGroupingStage(elementRepo, []Record{
			{"Grouping": "Mental Health", "Data Element": "Attendance Status"},
		}),
	)
	require.NoError(t, pipeline.Run(db, version, logger.WithPrefix("[test]")))

	tables, err := catalogRepo.CountTablesByVersion(db, version.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tables)
}

func TestPipelineWrapsStageErrors(t *testing.T) {
	db := testdb.New(t)
	catalogRepo := repository.NewCatalogRepositoryWithDB(db)
	elementRepo := repository.NewElementRepositoryWithDB(db)
	version := newVersion(t, db)

	pipeline := NewImportPipeline(
		NewStructureStage(catalogRepo, structureRecords()),
		NewColumnStage(catalogRepo, elementRepo, []Record{
			{"Data_Element": "X", "Item_Name": "X", "Present_In": "Nope.dbo.Missing"},
		}, 100),
		NewGroupingStage(elementRepo, nil),
	)
	err := pipeline.Run(db, version, logger.WithPrefix("[test]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column import stage failed")
}
