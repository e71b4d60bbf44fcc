package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prolink-edu/scholarship-api/internal/dto"
	"github.com/prolink-edu/scholarship-api/internal/models"
	"github.com/prolink-edu/scholarship-api/internal/service"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
	"github.com/prolink-edu/scholarship-api/pkg/response"
)

// AdminHandler exposes catalog management, application review and
// report endpoints. Routes using it sit behind the ADMIN role.
type AdminHandler struct {
	scholarships *service.ScholarshipService
	applications *service.ApplicationService
	reports      *service.ReportService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(scholarships *service.ScholarshipService, applications *service.ApplicationService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{scholarships: scholarships, applications: applications, reports: reports}
}

// CreateMeritScholarship godoc
// @Summary Create merit scholarship
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateMeritScholarshipRequest true "Scholarship"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/scholarships/merit [post]
func (h *AdminHandler) CreateMeritScholarship(c *gin.Context) {
	var req dto.CreateMeritScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scholarship payload"))
		return
	}

	scholarship, err := h.scholarships.CreateMerit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, scholarship)
}

// CreateNeedScholarship godoc
// @Summary Create need scholarship
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateNeedScholarshipRequest true "Scholarship"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/scholarships/need [post]
func (h *AdminHandler) CreateNeedScholarship(c *gin.Context) {
	var req dto.CreateNeedScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scholarship payload"))
		return
	}

	scholarship, err := h.scholarships.CreateNeed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, scholarship)
}

// UpdateMeritScholarship godoc
// @Summary Update merit scholarship
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Scholarship ID"
// @Param payload body dto.CreateMeritScholarshipRequest true "Scholarship"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/scholarships/merit/{id} [put]
func (h *AdminHandler) UpdateMeritScholarship(c *gin.Context) {
	var req dto.CreateMeritScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scholarship payload"))
		return
	}

	scholarship, err := h.scholarships.UpdateMerit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarship, nil)
}

// UpdateNeedScholarship godoc
// @Summary Update need scholarship
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Scholarship ID"
// @Param payload body dto.CreateNeedScholarshipRequest true "Scholarship"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/scholarships/need/{id} [put]
func (h *AdminHandler) UpdateNeedScholarship(c *gin.Context) {
	var req dto.CreateNeedScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scholarship payload"))
		return
	}

	scholarship, err := h.scholarships.UpdateNeed(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarship, nil)
}

// DeleteScholarship godoc
// @Summary Delete scholarship
// @Tags Admin
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/scholarships/{id} [delete]
func (h *AdminHandler) DeleteScholarship(c *gin.Context) {
	if err := h.scholarships.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListApplicants godoc
// @Summary List scholarship applicants
// @Tags Admin
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/scholarships/{id}/applicants [get]
func (h *AdminHandler) ListApplicants(c *gin.Context) {
	applicants, err := h.applications.ListApplicants(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applicants, nil)
}

// ReviewApplication godoc
// @Summary Review an application
// @Description Move an awaiting application to approved or rejected
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ReviewApplicationRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/applications/{id}/status [patch]
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	var req dto.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	app, err := h.applications.Review(c.Request.Context(), c.Param("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app, nil)
}

// ScholarshipReport godoc
// @Summary Download the scholarship applications report
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/scholarships [get]
func (h *AdminHandler) ScholarshipReport(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "reports are disabled"))
		return
	}

	file, err := h.reports.ScholarshipReport(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
