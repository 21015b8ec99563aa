package controllers

import (
	"errors"
	"net/http"

	"datacatalogapi/models"
	"datacatalogapi/services"
	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var publishSrv *services.PublishService

// SetPublishService initializes the publish service instance.
func SetPublishService(srv *services.PublishService) {
	publishSrv = srv
}

// publishVersion makes a version the published one
// @Summary Publish a version
// @Description Makes the Version the single published snapshot, unpublishing any previously published Version, clearing all user pins and appending an audit log entry.
// @Tags Publishing
// @Accept json
// @Produce json
// @Param id path int true "Version id"
// @Param request body models.PublishRequest false "Acting user"
// @Success 200 {object} models.Version
// @Failure 404 {object} map[string]interface{} "Version not found"
// @Failure 409 {object} map[string]interface{} "Version not processed yet"
// @Router /api/versions/{id}/publish [post]
func publishVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.PublishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, err)
			return
		}
	}

	version, err := publishSrv.Publish(id, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFoundResponse(c, "version not found")
		case errors.Is(err, services.ErrVersionNotProcessed):
			utils.ConflictResponse(c, gin.H{"error": err.Error()})
		default:
			utils.ErrorResponse(c, err)
		}
		return
	}

	utils.JSONResponse(c, http.StatusOK, version)
}

// unpublishVersion withdraws a published version
// @Summary Unpublish a version
// @Description Withdraws the Version from publication and appends an audit log entry. The last remaining published Version cannot be withdrawn.
// @Tags Publishing
// @Accept json
// @Produce json
// @Param id path int true "Version id"
// @Param request body models.PublishRequest false "Acting user"
// @Success 200 {object} models.Version
// @Failure 404 {object} map[string]interface{} "Version not found"
// @Failure 409 {object} map[string]interface{} "Last published version"
// @Router /api/versions/{id}/unpublish [post]
func unpublishVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.PublishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, err)
			return
		}
	}

	version, err := publishSrv.Unpublish(id, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFoundResponse(c, "version not found")
		case errors.Is(err, services.ErrLastPublishedVersion):
			utils.ConflictResponse(c, gin.H{"error": err.Error()})
		default:
			utils.ErrorResponse(c, err)
		}
		return
	}

	utils.JSONResponse(c, http.StatusOK, version)
}

// listAuditLog returns the publish/unpublish audit trail
// @Summary List the publication audit log
// @Tags Publishing
// @Produce json
// @Param page query int false "Page number (1-indexed)"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{} "Audit entries with total count"
// @Router /api/audit-log [get]
func listAuditLog(c *gin.Context) {
	page, pageSize := paginationParams(c)

	entries, total, err := publishSrv.AuditLog((page-1)*pageSize, pageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{
		"entries":   entries,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// pinVersion pins a user to a version
// @Summary Pin a user to a version
// @Description Pins the user to a processed Version so their catalog reads come from that snapshot instead of the published one.
// @Tags Publishing
// @Accept json
// @Produce json
// @Param id path int true "Version id"
// @Param request body models.PinVersionRequest true "User to pin"
// @Success 200 {object} map[string]interface{} "Pinned"
// @Failure 404 {object} map[string]interface{} "Version or user not found"
// @Failure 409 {object} map[string]interface{} "Version not processed yet"
// @Router /api/versions/{id}/pin [post]
func pinVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	var req models.PinVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := publishSrv.PinVersion(req.UserID, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.NotFoundResponse(c, "version or user not found")
		case errors.Is(err, services.ErrVersionNotProcessed):
			utils.ConflictResponse(c, gin.H{"error": err.Error()})
		default:
			utils.ErrorResponse(c, err)
		}
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"status": "pinned", "version_id": id})
}

// unpinVersion clears a user's pinned version
// @Summary Unpin a user
// @Description Clears the user's pinned Version so they follow the published snapshot again.
// @Tags Publishing
// @Accept json
// @Produce json
// @Param request body models.PinVersionRequest true "User to unpin"
// @Success 200 {object} map[string]interface{} "Unpinned"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/versions/unpin [post]
func unpinVersion(c *gin.Context) {
	var req models.PinVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := publishSrv.UnpinVersion(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "user not found")
			return
		}
		utils.ErrorResponse(c, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"status": "unpinned"})
}

// RegisterPublishRoutes registers HTTP endpoints for publication management.
func RegisterPublishRoutes(rg *gin.RouterGroup) {
	versions := rg.Group("/versions")
	{
		versions.POST("/:id/publish", publishVersion)
		versions.POST("/:id/unpublish", unpublishVersion)
		versions.POST("/:id/pin", pinVersion)
		versions.POST("/unpin", unpinVersion)
	}
	rg.GET("/audit-log", listAuditLog)
}
