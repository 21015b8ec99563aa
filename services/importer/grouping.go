package importer

import (
	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"
	"datacatalogapi/utils"

	"gorm.io/gorm"
)

// Header fields of the grouping mapping extract.
const (
	fieldGrouping           = "Grouping"
	fieldGroupingDesc       = "Grouping Description"
	fieldGroupedElement     = "Data Element"
	fieldGroupedElementDesc = "Data Element Description"
)

// GroupingStage imports the grouping mapping extract, creating Groupings and
// attaching the Version's DataElements to them.
type GroupingStage struct {
	elementRepo repository.ElementRepository
	records     []Record
}

// NewGroupingStage creates the grouping import stage over parsed extract rows.
func NewGroupingStage(elementRepo repository.ElementRepository, records []Record) *GroupingStage {
	return &GroupingStage{elementRepo: elementRepo, records: records}
}

// Name identifies the stage in logs.
func (s *GroupingStage) Name() string { return "grouping" }

// Run creates the missing Groupings, then attaches each named DataElement to
// its Grouping. A row naming an element with no Column in this Version is
// skipped: groupings can reference elements that happen not to be populated
// in the current snapshot.
func (s *GroupingStage) Run(tx *gorm.DB, version *models.Version, log *logger.PrefixLogger) error {
	groupingLUT, err := s.buildGroupingLookup(tx)
	if err != nil {
		return err
	}

	elements, err := s.elementRepo.GetDataElementsForVersion(tx, version.ID)
	if err != nil {
		return err
	}
	elementLUT := make(map[string]*models.DataElement, len(elements))
	for i := range elements {
		elementLUT[elements[i].Name] = &elements[i]
	}

	log.Infof("grouping import: %d rows, %d groupings, %d elements in version",
		len(s.records), len(groupingLUT), len(elementLUT))

	attached, skipped := 0, 0
	for _, row := range s.records {
		grouping, ok := groupingLUT[row.Get(fieldGrouping)]
		if !ok {
			// Every grouping name was collected in buildGroupingLookup, so a
			// miss here means the row has an empty grouping field.
			skipped++
			continue
		}

		element, ok := elementLUT[row.Get(fieldGroupedElement)]
		if !ok {
			skipped++
			continue
		}

		if element.Description == "" {
			if description := row.Get(fieldGroupedElementDesc); description != "" {
				if err := s.elementRepo.UpdateDataElementDescription(tx, element.ID, description); err != nil {
					return err
				}
				element.Description = description
			}
		}

		if err := s.elementRepo.AttachGrouping(tx, element, grouping); err != nil {
			return err
		}
		attached++
	}

	log.Infof("grouping import attached %d element-grouping links, skipped %d rows", attached, skipped)
	return nil
}

// buildGroupingLookup creates the Groupings named by the extract that do not
// exist yet and returns a name -> row lookup over all of them.
func (s *GroupingStage) buildGroupingLookup(tx *gorm.DB) (map[string]*models.Grouping, error) {
	descriptions := make(map[string]string)
	var names []string
	for _, row := range s.records {
		name := row.Get(fieldGrouping)
		if name == "" {
			continue
		}
		if _, ok := descriptions[name]; !ok {
			names = append(names, name)
		}
		descriptions[name] = row.Get(fieldGroupingDesc)
	}

	existing, err := s.elementRepo.GetGroupingsByNames(tx, names)
	if err != nil {
		return nil, err
	}

	lut := make(map[string]*models.Grouping, len(names))
	for i := range existing {
		lut[existing[i].Name] = &existing[i]
	}

	var missing []models.Grouping
	for _, name := range names {
		if _, ok := lut[name]; !ok {
			missing = append(missing, models.Grouping{
				Name:        name,
				Slug:        utils.Slugify(name),
				Description: descriptions[name],
			})
		}
	}
	if err := s.elementRepo.BulkCreateGroupings(tx, missing); err != nil {
		return nil, err
	}
	for i := range missing {
		lut[missing[i].Name] = &missing[i]
	}

	return lut, nil
}
