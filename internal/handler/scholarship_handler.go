package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prolink-edu/scholarship-api/internal/models"
	"github.com/prolink-edu/scholarship-api/internal/service"
	"github.com/prolink-edu/scholarship-api/pkg/response"
)

// ScholarshipHandler exposes the public catalog read endpoints.
type ScholarshipHandler struct {
	service *service.ScholarshipService
}

// NewScholarshipHandler creates a new handler.
func NewScholarshipHandler(svc *service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{service: svc}
}

// List godoc
// @Summary List scholarships
// @Description Returns catalog entries with filtering and pagination
// @Tags Scholarships
// @Produce json
// @Param type query string false "Scholarship type (merit|need)"
// @Param search query string false "Name search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /scholarships [get]
func (h *ScholarshipHandler) List(c *gin.Context) {
	filter := models.ScholarshipFilter{
		Type:      models.ScholarshipType(c.Query("type")),
		Search:    c.Query("search"),
		Page:      atoiOrZero(c.Query("page")),
		PageSize:  atoiOrZero(c.Query("page_size")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	scholarships, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarships, pagination)
}

// Featured godoc
// @Summary List featured scholarships
// @Description Returns the most popular scholarships
// @Tags Scholarships
// @Produce json
// @Param qty query int false "Number of entries"
// @Success 200 {object} response.Envelope
// @Router /scholarships/featured [get]
func (h *ScholarshipHandler) Featured(c *gin.Context) {
	qty := atoiOrZero(c.Query("qty"))

	scholarships, err := h.service.Featured(c.Request.Context(), qty)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarships, nil)
}

// Get godoc
// @Summary Get one scholarship
// @Description Returns a single catalog entry
// @Tags Scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholarships/{id} [get]
func (h *ScholarshipHandler) Get(c *gin.Context) {
	scholarship, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarship, nil)
}

func atoiOrZero(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
