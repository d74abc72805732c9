package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	"github.com/schoolgate/visitdesk-backend/internal/response"
	"github.com/schoolgate/visitdesk-backend/internal/service"
	"github.com/schoolgate/visitdesk-backend/internal/validator"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// SubmitCheckin godoc
// POST /api/submit
// Runs the check-in pipeline. Category-specific required fields are
// enforced here via binding; the pipeline adds config and selfie checks.
func (h *SubmissionHandler) SubmitCheckin(c *gin.Context) {
	var req model.SubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.submissionService.Submit(c.Request.Context(), req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, service.ErrConfigIncomplete):
		response.Fail(c, http.StatusBadRequest, response.ErrConfigIncomplete)
	case errors.Is(err, service.ErrSelfieRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrSelfieRequired)
	case errors.Is(err, service.ErrDeliveryFailed):
		response.Fail(c, http.StatusInternalServerError, response.ErrDeliveryFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
