package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch e := err.(type) {
	case *errs.NotFoundError:
		log.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", e.Message)

	case *errs.AssetNotFoundError:
		log.Warn("data asset not found", "asset_key", e.AssetKey)
		h.WriteError(w, r, http.StatusNotFound, "asset_not_found", e.Message)

	case *errs.UnsupportedShapeError:
		log.Warn("unsupported shape requested",
			"asset_key", e.AssetKey,
			"shape", e.Shape)
		h.WriteError(w, r, http.StatusBadRequest, "unsupported_shape", e.Message)

	case *errs.InvalidFilterError:
		log.Warn("invalid filter", "field", e.Field, "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_filter", e.Message)

	case *errs.UnknownWidgetTypeError:
		log.Warn("unknown widget type", "widget_type", e.WidgetType)
		h.WriteError(w, r, http.StatusBadRequest, "unknown_widget_type", e.Message)

	case *errs.AlreadyExistsError:
		log.Warn("resource already exists", "error", e.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", e.Message)

	case *errs.ValidationError:
		log.Warn("validation failed", "error", e.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", e.Message)

	case *errs.QueryExecutionError:
		// The cause stays in the logs; the body carries nothing backend-specific.
		log.Error("query execution failed", "error", e.Message, "cause", e.Cause)
		h.WriteError(w, r, http.StatusInternalServerError, "query_failed",
			"The query could not be completed")

	case *errs.DatabaseError:
		log.Error("database error",
			"operation", e.Operation,
			"error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
