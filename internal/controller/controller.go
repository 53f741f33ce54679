package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizzer/internal/apperr"
	"github.com/lshigami/quizzer/internal/dto"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a core failure kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindConstraint:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error envelope for err. Storage failures are
// logged and reported without their cause.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	_ = c.Error(err)

	resp := dto.ErrorResponse{Success: false, Code: apperr.ErrStorage.Code}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Code != "" {
		resp.Code = appErr.Code
	}

	switch kind {
	case apperr.KindNotFound:
		resp.Message = err.Error()
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Resource not found")
	case apperr.KindValidation:
		resp.Message = "Validation failed"
		resp.Details = []string{err.Error()}
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Validation failed")
	case apperr.KindConstraint:
		resp.Message = "Database constraint violation"
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Constraint violation")
	default:
		resp.Code = apperr.ErrStorage.Code
		resp.Message = "Internal server error"
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, resp)
}

// RespondBindError reports a request that failed binding or validation.
func RespondBindError(c *gin.Context, err error) {
	log.Warn().Err(err).Str("path", c.FullPath()).Msg("Failed to bind request")
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Success: false,
		Code:    apperr.ErrValidation.Code,
		Message: "Validation failed",
		Details: dto.ValidationDetails(err),
	})
}

// ParseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response and returns false.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Code:    "INVALID_ID",
			Message: "Quiz ID must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func RespondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, dto.SuccessResponse{Success: true, Data: data, Message: message})
}

func RespondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Data: data, Count: &count})
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "OK", Message: "Quiz API is running"})
}
