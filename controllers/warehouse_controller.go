package controllers

import (
	"net/http"

	"datacatalogapi/services/warehouse"
	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
)

var warehouseSrv *warehouse.SyncService

// SetWarehouseSyncService initializes the warehouse sync service instance.
func SetWarehouseSyncService(srv *warehouse.SyncService) {
	warehouseSrv = srv
}

// syncFromWarehouse imports a snapshot straight from the source warehouse
// @Summary Sync from the source warehouse
// @Description Compares the warehouse refresh timestamp against the latest Version and imports a new unpublished Version when the warehouse is newer.
// @Tags Versions
// @Produce json
// @Success 200 {object} map[string]interface{} "Catalog already up to date"
// @Success 201 {object} map[string]interface{} "New version imported"
// @Failure 400 {object} map[string]interface{} "Warehouse unreachable or import failed"
// @Router /api/versions/warehouse-sync [post]
func syncFromWarehouse(c *gin.Context) {
	if warehouseSrv == nil {
		utils.NotFoundResponse(c, "warehouse sync is not configured")
		return
	}

	version, err := warehouseSrv.CheckAndImport()
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if version == nil {
		utils.JSONResponse(c, http.StatusOK, gin.H{"status": "up to date"})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{
		"status":  "imported",
		"version": version,
	})
}

// RegisterWarehouseRoutes registers the warehouse sync endpoint.
func RegisterWarehouseRoutes(rg *gin.RouterGroup) {
	rg.POST("/versions/warehouse-sync", syncFromWarehouse)
}
