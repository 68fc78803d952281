package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/middleware"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/response"
	"github.com/talentview/recruit-backend/internal/widgets"
)

type dashboardService interface {
	CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error)
	ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error)
	GetDashboard(ctx context.Context, uid, dashboardID string, filterCtx dto.FilterContext) (*dto.DashboardResponse, error)
	AddWidget(ctx context.Context, uid, dashboardID string, req dto.CreateWidgetRequest) (*models.Widget, error)
	UpdateWidget(ctx context.Context, uid, dashboardID, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error)
	DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error
	UpdateLayout(ctx context.Context, uid, dashboardID string, req dto.UpdateLayoutRequest) error
	GetWidgetData(ctx context.Context, uid, dashboardID, widgetID string, filterCtx dto.FilterContext) (*dto.WidgetDataResponse, error)
	ListWidgetTypes() []widgets.Entry
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    dashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDashboards)
	r.Post("/", h.CreateDashboard)
	r.Get("/widget-types", h.GetWidgetTypes) // must be before /{dashboardId}
	r.Get("/{dashboardId}", h.GetDashboard)
	r.Post("/{dashboardId}/widgets", h.AddWidget)
	r.Put("/{dashboardId}/widgets/layout", h.UpdateLayout) // must be before /{widgetId}
	r.Put("/{dashboardId}/widgets/{widgetId}", h.UpdateWidget)
	r.Delete("/{dashboardId}/widgets/{widgetId}", h.DeleteWidget)
	r.Get("/{dashboardId}/widgets/{widgetId}/data", h.GetWidgetData)
	return r
}

func (h *dashboardHandlers) ListDashboards(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	dashboards, err := h.DashboardSvc.ListDashboards(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, dashboards)
}

func (h *dashboardHandlers) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	d, err := h.DashboardSvc.CreateDashboard(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, d)
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	dashboardID := chi.URLParam(r, "dashboardId")
	resp, err := h.DashboardSvc.GetDashboard(r.Context(), uid, dashboardID, filterContextFromRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}

func (h *dashboardHandlers) AddWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.AddWidget(r.Context(), uid, chi.URLParam(r, "dashboardId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, widget)
}

func (h *dashboardHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.UpdateWidget(r.Context(), uid,
		chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, widget)
}

func (h *dashboardHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	err := h.DashboardSvc.DeleteWidget(r.Context(), uid,
		chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.UpdateLayout(r.Context(), uid, chi.URLParam(r, "dashboardId"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *dashboardHandlers) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	data, err := h.DashboardSvc.GetWidgetData(r.Context(), uid,
		chi.URLParam(r, "dashboardId"), chi.URLParam(r, "widgetId"),
		filterContextFromRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, data)
}

// GetWidgetTypes returns the widget type registry.
func (h *dashboardHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.DashboardSvc.ListWidgetTypes())
}
