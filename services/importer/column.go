package importer

import (
	"strings"

	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"
	"datacatalogapi/utils"

	"gorm.io/gorm"
)

// Header fields of the definitions extract.
const (
	fieldDataElement = "Data_Element"
	fieldPresentIn   = "Present_In"
	fieldItemName    = "Item_Name"
	fieldDataType    = "Data_Type"
	fieldDerivation  = "NCDR_Derivation_Methodology"
	fieldIsDerived   = "Is_Derived_Item"
)

// ColumnStage imports the definitions extract into DataElement and Column
// rows. It must run after the structure stage: every Present_In address is
// resolved against the tables that stage created for the Version.
type ColumnStage struct {
	catalogRepo repository.CatalogRepository
	elementRepo repository.ElementRepository
	records     []Record
	batchSize   int
}

// NewColumnStage creates the column import stage over parsed extract rows.
func NewColumnStage(catalogRepo repository.CatalogRepository, elementRepo repository.ElementRepository, records []Record, batchSize int) *ColumnStage {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ColumnStage{
		catalogRepo: catalogRepo,
		elementRepo: elementRepo,
		records:     records,
		batchSize:   batchSize,
	}
}

// Name identifies the stage in logs.
func (s *ColumnStage) Name() string { return "column" }

// Run builds the per-run lookup tables, then creates one Column per resolved
// address of every definitions row. Both lookups are built up front: resolving
// tables and data elements with a query per row was measured (on the original
// system) to be roughly an order of magnitude slower on constrained workers.
func (s *ColumnStage) Run(tx *gorm.DB, version *models.Version, log *logger.PrefixLogger) error {
	tableLUT, err := s.buildTableLookup(tx, version.ID)
	if err != nil {
		return err
	}

	elementLUT, err := s.buildDataElementLookup(tx)
	if err != nil {
		return err
	}

	log.Infof("column import: %d rows against %d databases, %d data elements",
		len(s.records), len(tableLUT), len(elementLUT))

	var batch []models.Column
	created := 0
	for _, row := range s.records {
		element := elementLUT[row.Get(fieldDataElement)]

		for _, value := range SplitPresentIn(row.Get(fieldPresentIn)) {
			address, err := ParseAddress(value)
			if err != nil {
				log.Errorf("column import failed: %v", err)
				return err
			}

			tableID, ok := tableLUT[address.Database][address.Schema][address.Table]
			if !ok {
				err := &UnknownTableError{Address: address}
				log.Errorf("column import failed: %v", err)
				return err
			}

			derived := strings.HasPrefix(strings.ToLower(row.Get(fieldIsDerived)), "yes")
			column := models.Column{
				TableID:       tableID,
				Name:          row.Get(fieldItemName),
				Description:   row.Get(fieldDescription),
				DataType:      row.Get(fieldDataType),
				Derivation:    row.Get(fieldDerivation),
				IsDerivedItem: &derived,
				Link:          utils.NormalizeLink(row.Get(fieldLink)),
			}
			if element != nil {
				column.DataElementID = &element.ID
			}

			batch = append(batch, column)
			if len(batch) >= s.batchSize {
				if err := s.elementRepo.BulkCreateColumns(tx, batch); err != nil {
					return err
				}
				created += len(batch)
				batch = nil
			}
		}
	}

	if err := s.elementRepo.BulkCreateColumns(tx, batch); err != nil {
		return err
	}
	created += len(batch)

	log.Infof("column import created %d columns", created)
	return nil
}

// buildTableLookup maps Database name -> Schema name -> Table name -> table id
// for every table of the Version, from one joined query.
func (s *ColumnStage) buildTableLookup(tx *gorm.DB, versionID uint) (map[string]map[string]map[string]uint, error) {
	refs, err := s.catalogRepo.GetTableRefsByVersion(tx, versionID)
	if err != nil {
		return nil, err
	}

	lut := make(map[string]map[string]map[string]uint)
	for _, ref := range refs {
		schemas, ok := lut[ref.DatabaseName]
		if !ok {
			schemas = make(map[string]map[string]uint)
			lut[ref.DatabaseName] = schemas
		}
		tables, ok := schemas[ref.SchemaName]
		if !ok {
			tables = make(map[string]uint)
			schemas[ref.SchemaName] = tables
		}
		tables[ref.TableName] = ref.TableID
	}
	return lut, nil
}

// buildDataElementLookup maps DataElement name -> row for every distinct
// Data_Element value of the extract. Existing elements are reused by name;
// only the missing ones are bulk-created.
func (s *ColumnStage) buildDataElementLookup(tx *gorm.DB) (map[string]*models.DataElement, error) {
	seen := make(map[string]bool)
	var names []string
	for _, row := range s.records {
		name := row.Get(fieldDataElement)
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	existing, err := s.elementRepo.GetDataElementsByNames(tx, names)
	if err != nil {
		return nil, err
	}

	lut := make(map[string]*models.DataElement, len(names))
	for i := range existing {
		lut[existing[i].Name] = &existing[i]
	}

	var missing []models.DataElement
	for _, name := range names {
		if _, ok := lut[name]; !ok {
			missing = append(missing, models.DataElement{
				Name: name,
				Slug: utils.Slugify(name),
			})
		}
	}
	if err := s.elementRepo.BulkCreateDataElements(tx, missing); err != nil {
		return nil, err
	}
	for i := range missing {
		lut[missing[i].Name] = &missing[i]
	}

	return lut, nil
}
