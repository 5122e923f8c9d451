package handlers

import (
	"errors"
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/service"

	"go.uber.org/zap"
)

const (
	codeInternalError        = "INTERNAL_ERROR"
	codeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
)

// handleError отвечает бизнес-ошибкой с её статусом или 500 для всего остального
func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, r, err) {
		return
	}

	logger.Error("HTTP: Ошибка в Service", err,
		zap.String("operation", operation),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, codeInternalError, "internal server error")
}

func handleBusinessError(w http.ResponseWriter, r *http.Request, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("statusCode", statusCode),
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// decodeError переводит ошибку разбора тела в VALIDATION_ERROR
func decodeError(err error) *service.BusinessError {
	var typeErr *dto.FieldTypeError
	if errors.As(err, &typeErr) {
		return service.NewValidationError(typeErr.Field, "must be "+typeErr.Expected)
	}
	return service.NewValidationError("body", err.Error())
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
