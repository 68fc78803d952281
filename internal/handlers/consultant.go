package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talentview/recruit-backend/internal/middleware"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/response"
)

type consultantService interface {
	Register(ctx context.Context, uid string, c *models.Consultant) (*models.Consultant, error)
	Get(ctx context.Context, uid string) (*models.Consultant, error)
	Update(ctx context.Context, uid string, c *models.Consultant) (*models.Consultant, error)
	ListActive(ctx context.Context) ([]*models.Consultant, error)
}

type consultantHandlers struct {
	ResponseHandler response.ResponseHandler
	ConsultantSvc   consultantService
}

func NewConsultantHandlers(deps *Deps) *consultantHandlers {
	return &consultantHandlers{
		ResponseHandler: deps.ResponseHandler,
		ConsultantSvc:   deps.ConsultantSvc,
	}
}

func (h *consultantHandlers) ConsultantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActive)
	r.Post("/me", h.Register)
	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	return r
}

func (h *consultantHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var c models.Consultant
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	created, err := h.ConsultantSvc.Register(r.Context(), uid, &c)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, created)
}

func (h *consultantHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	c, err := h.ConsultantSvc.Get(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, c)
}

func (h *consultantHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var c models.Consultant
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	updated, err := h.ConsultantSvc.Update(r.Context(), uid, &c)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, updated)
}

func (h *consultantHandlers) ListActive(w http.ResponseWriter, r *http.Request) {
	consultants, err := h.ConsultantSvc.ListActive(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, consultants)
}
