package importer

import (
	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"
	"datacatalogapi/utils"

	"gorm.io/gorm"
)

// Header fields of the structure extract. The schema discriminant is spelled
// "Schema" or "SchemaID" depending on the format generation.
const (
	fieldDatabase    = "Database"
	fieldName        = "Name"
	fieldSchema      = "Schema"
	fieldSchemaID    = "SchemaID"
	fieldTableOrView = "Table or View"
	fieldTableView   = "Table/View"
	fieldDescription = "Description"
	fieldLink        = "Link"
	fieldDateRange   = "Date_Range"
)

// notApplicable is the sentinel the extracts use for absent values.
const notApplicable = "N/A"

// StructureStage imports the database/schema/table extract into the
// Database -> Schema -> Table hierarchy of one Version.
type StructureStage struct {
	catalogRepo repository.CatalogRepository
	records     []Record
}

// NewStructureStage creates the structure import stage over parsed extract rows.
func NewStructureStage(catalogRepo repository.CatalogRepository, records []Record) *StructureStage {
	return &StructureStage{catalogRepo: catalogRepo, records: records}
}

// Name identifies the stage in logs.
func (s *StructureStage) Name() string { return "structure" }

// Run partitions the rows into database, schema and table rows and creates
// them in hierarchy order. A schema or table row referencing a parent not
// defined by this extract is a hard failure; there is no deferred linking.
func (s *StructureStage) Run(tx *gorm.DB, version *models.Version, log *logger.PrefixLogger) error {
	var databaseRows, schemaRows, tableRows []Record
	for _, record := range s.records {
		schemaValue := record.Get(fieldSchema, fieldSchemaID)
		tableValue := record.Get(fieldTableOrView)

		switch {
		case tableValue != notApplicable && tableValue != "":
			tableRows = append(tableRows, record)
		case schemaValue != "" && schemaValue != "0":
			schemaRows = append(schemaRows, record)
		default:
			databaseRows = append(databaseRows, record)
		}
	}

	log.Infof("structure extract partitioned: %d database, %d schema, %d table rows",
		len(databaseRows), len(schemaRows), len(tableRows))

	databases := make(map[string]*models.Database, len(databaseRows))
	for _, row := range databaseRows {
		name := row.Get(fieldDatabase)
		displayName := row.Get(fieldName)
		if displayName == "" {
			displayName = utils.TitleizeDatabaseName(name)
		}
		database := &models.Database{
			VersionID:   version.ID,
			Name:        name,
			DisplayName: displayName,
			Description: row.Get(fieldDescription),
			Link:        utils.NormalizeLink(row.Get(fieldLink)),
		}
		if err := s.catalogRepo.CreateDatabase(tx, database); err != nil {
			return err
		}
		databases[name] = database
	}

	schemas := make(map[string]*models.Schema, len(schemaRows))
	for _, row := range schemaRows {
		databaseName := row.Get(fieldDatabase)
		database, ok := databases[databaseName]
		if !ok {
			err := &UnknownDatabaseError{Name: databaseName}
			log.Errorf("structure import failed: %v", err)
			return err
		}
		schema := &models.Schema{
			DatabaseID: database.ID,
			Name:       row.Get(fieldSchema, fieldSchemaID),
		}
		if err := s.catalogRepo.CreateSchema(tx, schema); err != nil {
			return err
		}
		schemas[databaseName+"."+schema.Name] = schema
	}

	for _, row := range tableRows {
		databaseName := row.Get(fieldDatabase)
		schemaName := row.Get(fieldSchema, fieldSchemaID)
		schema, ok := schemas[databaseName+"."+schemaName]
		if !ok {
			err := &UnknownSchemaError{Database: databaseName, Name: schemaName}
			log.Errorf("structure import failed: %v", err)
			return err
		}
		table := &models.Table{
			SchemaID:    schema.ID,
			Name:        row.Get(fieldTableView),
			Description: row.Get(fieldDescription),
			Link:        utils.NormalizeLink(row.Get(fieldLink)),
			IsTable:     row.Get(fieldTableOrView) == "Table",
			DateRange:   row.Get(fieldDateRange),
		}
		if err := s.catalogRepo.CreateTable(tx, table); err != nil {
			return err
		}
	}

	return nil
}
