package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"datacatalogapi/services"
	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var catalogSrv *services.CatalogService

// SetCatalogService initializes the catalog service instance.
func SetCatalogService(srv *services.CatalogService) {
	catalogSrv = srv
}

// browsingUserID reads the optional user_id query parameter that selects the
// caller's pinned snapshot.
func browsingUserID(c *gin.Context) *uint {
	raw := c.Query("user_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	userID := uint(id)
	return &userID
}

// listDatabases returns the databases of the browsing version
// @Summary List databases
// @Description Returns the databases of the published Version, or of the caller's pinned Version when user_id is given.
// @Tags Catalog
// @Produce json
// @Param user_id query int false "Browsing user id"
// @Success 200 {object} map[string]interface{} "Databases with the version they belong to"
// @Failure 404 {object} map[string]interface{} "No published version"
// @Router /api/databases [get]
func listDatabases(c *gin.Context) {
	databases, version, err := catalogSrv.ListDatabases(browsingUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNoPublishedVersion) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"version_id": version.ID,
		"databases":  databases,
	})
}

// getDatabase returns one database with its schemas
// @Summary Get a database
// @Tags Catalog
// @Produce json
// @Param name path string true "Database name"
// @Param user_id query int false "Browsing user id"
// @Success 200 {object} map[string]interface{} "Database with its schemas"
// @Failure 404 {object} map[string]interface{} "Database not found"
// @Router /api/databases/{name} [get]
func getDatabase(c *gin.Context) {
	database, schemas, err := catalogSrv.GetDatabase(browsingUserID(c), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPublishedVersion):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFoundResponse(c, "database not found")
		default:
			utils.ErrorResponse(c, err)
		}
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"database": database,
		"schemas":  schemas,
	})
}

// listTables returns the tables of one schema
// @Summary List tables of a schema
// @Tags Catalog
// @Produce json
// @Param id path int true "Schema id"
// @Success 200 {object} map[string]interface{} "Tables"
// @Router /api/schemas/{id}/tables [get]
func listTables(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	tables, err := catalogSrv.ListTables(id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"tables": tables})
}

// listColumns returns the columns of one table
// @Summary List columns of a table
// @Tags Catalog
// @Produce json
// @Param id path int true "Table id"
// @Success 200 {object} map[string]interface{} "Columns"
// @Router /api/tables/{id}/columns [get]
func listColumns(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	columns, err := catalogSrv.ListColumns(id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"columns": columns})
}

// listDataElements returns the data elements of the browsing version
// @Summary List data elements
// @Tags Catalog
// @Produce json
// @Param user_id query int false "Browsing user id"
// @Success 200 {object} map[string]interface{} "Data elements"
// @Failure 404 {object} map[string]interface{} "No published version"
// @Router /api/data-elements [get]
func listDataElements(c *gin.Context) {
	elements, err := catalogSrv.ListDataElements(browsingUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNoPublishedVersion) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"data_elements": elements})
}

// listGroupings returns every grouping
// @Summary List groupings
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Groupings"
// @Router /api/groupings [get]
func listGroupings(c *gin.Context) {
	groupings, err := catalogSrv.ListGroupings()
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"groupings": groupings})
}

// getGrouping returns one grouping with its data elements
// @Summary Get a grouping
// @Tags Catalog
// @Produce json
// @Param slug path string true "Grouping slug"
// @Success 200 {object} map[string]interface{} "Grouping with its data elements"
// @Failure 404 {object} map[string]interface{} "Grouping not found"
// @Router /api/groupings/{slug} [get]
func getGrouping(c *gin.Context) {
	grouping, elements, err := catalogSrv.GetGrouping(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "grouping not found")
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"grouping":      grouping,
		"data_elements": elements,
	})
}

// getStats returns row counts for the browsing version
// @Summary Catalog statistics
// @Tags Catalog
// @Produce json
// @Param user_id query int false "Browsing user id"
// @Success 200 {object} services.Stats
// @Failure 404 {object} map[string]interface{} "No published version"
// @Router /api/stats [get]
func getStats(c *gin.Context) {
	stats, err := catalogSrv.GetStats(browsingUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNoPublishedVersion) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, stats)
}

// RegisterCatalogRoutes registers HTTP endpoints for read-only catalog
// browsing.
func RegisterCatalogRoutes(rg *gin.RouterGroup) {
	rg.GET("/databases", listDatabases)
	rg.GET("/databases/:name", getDatabase)
	rg.GET("/schemas/:id/tables", listTables)
	rg.GET("/tables/:id/columns", listColumns)
	rg.GET("/data-elements", listDataElements)
	rg.GET("/groupings", listGroupings)
	rg.GET("/groupings/:slug", getGrouping)
	rg.GET("/stats", getStats)
}
