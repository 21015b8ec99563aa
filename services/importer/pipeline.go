package importer

import (
	"fmt"

	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"

	"gorm.io/gorm"
)

// Stage is one step of the import pipeline, run inside the caller's
// transaction against one target Version.
type Stage interface {
	Name() string
	Run(tx *gorm.DB, version *models.Version, log *logger.PrefixLogger) error
}

// Pipeline runs import stages in a fixed order. Column resolution depends on
// the tables the structure stage created, and grouping attachment depends on
// the columns, so the only valid order is structure then column then grouping.
// NewImportPipeline takes the three typed stages so that order cannot be
// assembled wrongly at a call site.
type Pipeline struct {
	stages []Stage
}

// NewImportPipeline builds the three-stage import pipeline in dependency order.
func NewImportPipeline(structure *StructureStage, column *ColumnStage, grouping *GroupingStage) *Pipeline {
	return &Pipeline{stages: []Stage{structure, column, grouping}}
}

// Run executes every stage in order within the given transaction, stopping at
// the first failure.
func (p *Pipeline) Run(tx *gorm.DB, version *models.Version, log *logger.PrefixLogger) error {
	for _, stage := range p.stages {
		log.Infof("running %s import stage", stage.Name())
		if err := stage.Run(tx, version, log); err != nil {
			return fmt.Errorf("%s import stage failed: %w", stage.Name(), err)
		}
	}
	return nil
}
