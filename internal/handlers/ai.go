package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/middleware"
	"github.com/talentview/recruit-backend/internal/response"
)

type aiService interface {
	Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error)
}

type aiHandlers struct {
	ResponseHandler response.ResponseHandler
	AISvc           aiService
}

func NewAIHandlers(deps *Deps) *aiHandlers {
	return &aiHandlers{
		ResponseHandler: deps.ResponseHandler,
		AISvc:           deps.AISvc,
	}
}

func (h *aiHandlers) AIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/query", h.Query)
	return r
}

func (h *aiHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var req dto.AIQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Message == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("message is required"))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	uid := middleware.UID(r.Context())
	resp, err := h.AISvc.Query(r.Context(), uid, req.SessionID, req.Message)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}
