package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prolink-edu/scholarship-api/internal/dto"
	"github.com/prolink-edu/scholarship-api/internal/service"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
	"github.com/prolink-edu/scholarship-api/pkg/response"
)

// ApplicationHandler exposes the apply and listing endpoints for the
// authenticated student.
type ApplicationHandler struct {
	service *service.ApplicationService
	metrics *service.MetricsService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(svc *service.ApplicationService, metrics *service.MetricsService) *ApplicationHandler {
	return &ApplicationHandler{service: svc, metrics: metrics}
}

// Apply godoc
// @Summary Apply to a scholarship
// @Description Submit a scholarship application for the current user
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body dto.ApplyRequest true "Apply payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply payload"))
		return
	}

	applications, err := h.service.Apply(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.metrics.RecordApplyOutcome(appErrors.FromError(err).Code)
		response.Error(c, err)
		return
	}

	h.metrics.RecordApplyOutcome("accepted")
	response.Created(c, gin.H{"appliedScholarships": applications})
}

// List godoc
// @Summary List own applications
// @Description Returns the user's applications in apply order
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	applications, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"appliedScholarships": applications}, nil)
}
