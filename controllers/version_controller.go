package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/services"
	"datacatalogapi/services/job"
	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	versionSrv   *services.VersionService
	importWorker *job.ImportWorkerService
)

// SetVersionService initializes the version service instance.
func SetVersionService(srv *services.VersionService) {
	versionSrv = srv
}

// SetImportWorker initializes the background import worker instance.
func SetImportWorker(worker *job.ImportWorkerService) {
	importWorker = worker
}

// uploadVersion accepts the three extract files and queues the import
// @Summary Upload a catalog snapshot
// @Description Accepts the structure, definitions and grouping mapping extract files, creates a Version and queues its import on the background worker. Re-uploading files identical to an already processed Version is refused with the existing version id.
// @Tags Versions
// @Accept multipart/form-data
// @Produce json
// @Param structure formData file true "Structure extract"
// @Param definitions formData file true "Definitions extract"
// @Param grouping_mapping formData file true "Grouping mapping extract"
// @Param legacy formData bool false "Old extract format with comma/tab delimiters"
// @Param created_by_id formData int false "Uploading user id"
// @Success 202 {object} map[string]interface{} "Version created and import queued"
// @Failure 400 {object} map[string]interface{} "Invalid upload"
// @Failure 409 {object} map[string]interface{} "Files already imported"
// @Router /api/versions [post]
func uploadVersion(c *gin.Context) {
	var req models.VersionUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Errorf("Invalid version upload: %v", err)
		utils.ErrorResponse(c, err)
		return
	}

	version, err := versionSrv.Create(req)
	if err != nil {
		var exists *services.ErrVersionExists
		if errors.As(err, &exists) {
			utils.ConflictResponse(c, gin.H{
				"error":               exists.Error(),
				"existing_version_id": exists.ExistingID,
			})
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	jobID, err := importWorker.Enqueue(version.ID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, gin.H{
		"status":  "queued",
		"version": version,
		"job_id":  jobID,
	})
}

// listVersions returns the version history
// @Summary List versions
// @Description Returns versions newest first with their processing and publication state.
// @Tags Versions
// @Produce json
// @Param page query int false "Page number (1-indexed)"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{} "Versions with total count"
// @Router /api/versions [get]
func listVersions(c *gin.Context) {
	page, pageSize := paginationParams(c)

	versions, total, err := versionSrv.List((page-1)*pageSize, pageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"versions":  versions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// getVersion returns one version
// @Summary Get a version
// @Tags Versions
// @Produce json
// @Param id path int true "Version id"
// @Success 200 {object} models.Version
// @Failure 404 {object} map[string]interface{} "Version not found"
// @Router /api/versions/{id} [get]
func getVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	version, err := versionSrv.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "version not found")
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, version)
}

// reimportVersion queues another import run for a version
// @Summary Re-queue a version import
// @Description Queues the import again for a Version whose previous run failed. Imports of an already processed Version are refused.
// @Tags Versions
// @Produce json
// @Param id path int true "Version id"
// @Success 202 {object} map[string]interface{} "Import queued"
// @Failure 404 {object} map[string]interface{} "Version not found"
// @Failure 409 {object} map[string]interface{} "Version already processed"
// @Router /api/versions/{id}/import [post]
func reimportVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	version, err := versionSrv.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "version not found")
			return
		}
		utils.ErrorResponse(c, err)
		return
	}
	if version.Processed() {
		utils.ConflictResponse(c, gin.H{"error": "version has already been processed"})
		return
	}

	jobID, err := importWorker.Enqueue(version.ID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, gin.H{
		"status": "queued",
		"job_id": jobID,
	})
}

// RegisterVersionRoutes registers HTTP endpoints for version management.
func RegisterVersionRoutes(rg *gin.RouterGroup) {
	versions := rg.Group("/versions")
	{
		versions.POST("", uploadVersion)
		versions.GET("", listVersions)
		versions.GET("/:id", getVersion)
		versions.POST("/:id/import", reimportVersion)
	}
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// paginationParams reads 1-indexed page and page_size query parameters with
// sane defaults.
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
