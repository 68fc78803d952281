package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/response"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/internal/widgets"
)

type catalogService interface {
	GetAsset(ctx context.Context, assetKey string) (*models.DataAsset, error)
	ListActiveAssets(ctx context.Context, category string) ([]*models.DataAsset, error)
	MatchSynonym(ctx context.Context, term string) ([]*models.DataAsset, error)
}

type queryService interface {
	QueryDataAsset(ctx context.Context, params dto.QueryParameters) (dto.QueryResult, error)
}

type compatService interface {
	CompatibleWidgetTypes(ctx context.Context, assetKey string) ([]widgets.Entry, error)
}

type assetHandlers struct {
	ResponseHandler response.ResponseHandler
	CatalogSvc      catalogService
	QuerySvc        queryService
	CompatSvc       compatService
}

func NewAssetHandlers(deps *Deps) *assetHandlers {
	return &assetHandlers{
		ResponseHandler: deps.ResponseHandler,
		CatalogSvc:      deps.CatalogSvc,
		QuerySvc:        deps.QuerySvc,
		CompatSvc:       deps.DashboardSvc,
	}
}

func (h *assetHandlers) AssetRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAssets)
	r.Get("/search", h.SearchAssets) // must be before /{assetKey}
	r.Get("/{assetKey}", h.GetAsset)
	r.Get("/{assetKey}/widget-types", h.GetCompatibleWidgetTypes)
	r.Post("/{assetKey}/query", h.QueryAsset)
	return r
}

func (h *assetHandlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.CatalogSvc.ListActiveAssets(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, assets)
}

func (h *assetHandlers) SearchAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.CatalogSvc.MatchSynonym(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, assets)
}

func (h *assetHandlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.CatalogSvc.GetAsset(r.Context(), chi.URLParam(r, "assetKey"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, asset)
}

func (h *assetHandlers) GetCompatibleWidgetTypes(w http.ResponseWriter, r *http.Request) {
	entries, err := h.CompatSvc.CompatibleWidgetTypes(r.Context(), chi.URLParam(r, "assetKey"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, entries)
}

type queryAssetRequest struct {
	Shape      string            `json:"shape"`
	DateRange  *dto.DateRange    `json:"dateRange,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Dimensions []string          `json:"dimensions,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Offset     int               `json:"offset,omitempty"`
	SortBy     string            `json:"sortBy,omitempty"`
	SortDesc   bool              `json:"sortDesc,omitempty"`
}

// QueryAsset runs an ad-hoc data asset query outside any widget, mainly for
// asset exploration in the widget builder UI.
func (h *assetHandlers) QueryAsset(w http.ResponseWriter, r *http.Request) {
	var req queryAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	params := dto.QueryParameters{
		AssetKey:   chi.URLParam(r, "assetKey"),
		Shape:      shapes.Kind(req.Shape),
		DateRange:  req.DateRange,
		Filters:    req.Filters,
		Dimensions: req.Dimensions,
		Limit:      req.Limit,
		Offset:     req.Offset,
		SortBy:     req.SortBy,
		SortDesc:   req.SortDesc,
	}
	if params.Limit == 0 {
		if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
			params.Limit = limit
		}
	}

	result, err := h.QuerySvc.QueryDataAsset(r.Context(), params)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, result)
}
