package controllers

import (
	"net/http"

	"datacatalogapi/utils"

	"github.com/gin-gonic/gin"
)

// getJobStatus returns the status of one import job
// @Summary Get import job status
// @Tags Jobs
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} job.JobInfo
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /api/jobs/{id} [get]
func getJobStatus(c *gin.Context) {
	jobInfo, exists := importWorker.GetJob(c.Param("id"))
	if !exists {
		utils.NotFoundResponse(c, "job not found")
		return
	}

	utils.JSONResponse(c, http.StatusOK, jobInfo)
}

// listJobs returns all import jobs paginated
// @Summary List import jobs
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number (1-indexed)"
// @Param page_size query int false "Page size"
// @Success 200 {object} job.PaginatedJobsResult
// @Router /api/jobs [get]
func listJobs(c *gin.Context) {
	page, pageSize := paginationParams(c)
	utils.JSONResponse(c, http.StatusOK, importWorker.GetAllJobsPaginated(page, pageSize))
}

// RegisterJobRoutes registers HTTP endpoints for import job monitoring.
func RegisterJobRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", listJobs)
		jobs.GET("/:id", getJobStatus)
	}
}
