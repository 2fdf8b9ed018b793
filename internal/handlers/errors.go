package handlers

import (
	"errors"
	"net/http"

	"taskvault/internal/logger"
	"taskvault/internal/service"

	"go.uber.org/zap"
)

// handleServiceError maps every error coming out of the service to a
// transport response. Business errors keep their message; everything
// else is logged in full and surfaced as a generic 500.
func handleServiceError(w http.ResponseWriter, err error, operation string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithFields(w, statusCode,
			toPayload("error", businessErr.Message),
		)
		return
	}

	logger.Error("HTTP: internal error", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeConfiguration, service.CodeStore:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
