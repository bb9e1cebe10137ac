package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/internal/services"
	"resto_pos_backend/pkg/utils"
)

// handleServiceError maps service-layer sentinel errors onto the API error
// payload. Anything unrecognized is reported as an internal error.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", err.Error()))
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrBackupNotFound),
		errors.Is(err, repositories.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", err.Error()))
	case errors.Is(err, services.ErrTableOccupied),
		errors.Is(err, services.ErrOrderAlreadyComplete),
		errors.Is(err, services.ErrOrderHoldsTable),
		errors.Is(err, repositories.ErrDuplicateKey):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Request conflicts with current state", err.Error()))
	default:
		utils.LogError(err, "Unhandled service error", map[string]interface{}{"path": c.FullPath()})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "An internal error occurred", ""))
	}
}
