package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/widgets"
	"github.com/talentview/recruit-backend/pkg/logger"
)

type dashboardStore interface {
	CreateDashboard(ctx context.Context, uid string, d *models.Dashboard) error
	GetDashboard(ctx context.Context, uid, dashboardID string) (*models.Dashboard, error)
	ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error)
	CreateWidget(ctx context.Context, uid string, w *models.Widget) error
	GetWidget(ctx context.Context, uid, dashboardID, widgetID string) (*models.Widget, error)
	ListWidgets(ctx context.Context, uid, dashboardID string) ([]*models.Widget, error)
	UpdateWidget(ctx context.Context, uid string, w *models.Widget) error
	DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error
	UpdateLayout(ctx context.Context, uid, dashboardID string, positions map[string]models.Position) error
}

type dashboardCatalog interface {
	GetAsset(ctx context.Context, assetKey string) (*models.DataAsset, error)
}

type dashboardExecutor interface {
	QueryDataAsset(ctx context.Context, params dto.QueryParameters) (dto.QueryResult, error)
}

// DashboardService owns dashboards and their widgets. Widget creation is the
// single choke point where a widget type is checked against its data asset's
// output shapes; everything stored has passed that check.
type DashboardService struct {
	store    dashboardStore
	catalog  dashboardCatalog
	executor dashboardExecutor
}

func NewDashboardService(store dashboardStore, catalog dashboardCatalog, executor dashboardExecutor) *DashboardService {
	return &DashboardService{store: store, catalog: catalog, executor: executor}
}

func (s *DashboardService) CreateDashboard(ctx context.Context, uid string, req dto.CreateDashboardRequest) (*models.Dashboard, error) {
	if req.Name == "" {
		return nil, errs.NewValidationError("dashboard name is required")
	}
	d := &models.Dashboard{
		DashboardID: uuid.New().String(),
		Name:        req.Name,
	}
	if err := s.store.CreateDashboard(ctx, uid, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DashboardService) ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	return s.store.ListDashboards(ctx, uid)
}

// GetDashboard returns the dashboard with every widget resolved against the
// live filter context. A widget that fails to resolve is returned as a
// placeholder with its error; one bad widget never hides its siblings.
func (s *DashboardService) GetDashboard(ctx context.Context, uid, dashboardID string, filterCtx dto.FilterContext) (*dto.DashboardResponse, error) {
	log := logger.FromContext(ctx)

	d, err := s.store.GetDashboard(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.ListWidgets(ctx, uid, dashboardID)
	if err != nil {
		return nil, err
	}

	resolved := make([]dto.ResolvedWidget, 0, len(stored))
	for _, w := range stored {
		props, err := widgets.BuildWidgetProps(w, filterCtx)
		if err != nil {
			log.Warn("widget failed to resolve",
				"dashboard_id", dashboardID, "widget_id", w.WidgetID, "error", err)
			resolved = append(resolved, dto.ResolvedWidget{
				WidgetID: w.WidgetID,
				Error:    err.Error(),
			})
			continue
		}
		resolved = append(resolved, dto.ResolvedWidget{
			WidgetID: w.WidgetID,
			Props:    &props,
		})
	}

	return &dto.DashboardResponse{
		Dashboard: d,
		Widgets:   resolved,
	}, nil
}

// AddWidget validates the widget type against the asset's output shapes via
// the compatibility selector before anything is written.
func (s *DashboardService) AddWidget(ctx context.Context, uid, dashboardID string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	if _, err := s.store.GetDashboard(ctx, uid, dashboardID); err != nil {
		return nil, err
	}

	asset, err := s.catalog.GetAsset(ctx, req.AssetKey)
	if err != nil {
		return nil, err
	}

	entry, ok := widgets.GetEntry(req.WidgetType)
	if !ok {
		return nil, errs.NewUnknownWidgetTypeError(req.WidgetType)
	}
	if !widgetTypeCompatible(asset, req.WidgetType) {
		return nil, errs.NewValidationError(fmt.Sprintf(
			"widget type %q requires shape %q, which data asset %q does not produce",
			req.WidgetType, entry.ExpectedShape, asset.AssetKey))
	}

	var position models.Position
	if req.Position != nil {
		position = *req.Position
	}
	if position.W == 0 {
		position.W = entry.DefaultSize.W
	}
	if position.H == 0 {
		position.H = entry.DefaultSize.H
	}

	w := &models.Widget{
		WidgetID:    uuid.New().String(),
		DashboardID: dashboardID,
		AssetKey:    req.AssetKey,
		WidgetType:  req.WidgetType,
		Parameters:  req.Parameters,
		Config:      req.Config,
		Position:    position,
	}
	if err := s.store.CreateWidget(ctx, uid, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWidget updates presentation and parameters. The asset binding and
// widget type are immutable; changing either is a delete-and-recreate.
func (s *DashboardService) UpdateWidget(ctx context.Context, uid, dashboardID, widgetID string, req dto.UpdateWidgetRequest) (*models.Widget, error) {
	w, err := s.store.GetWidget(ctx, uid, dashboardID, widgetID)
	if err != nil {
		return nil, err
	}

	if req.Parameters != nil {
		w.Parameters = req.Parameters
	}
	if req.Config != nil {
		w.Config = *req.Config
	}
	if req.Position != nil {
		w.Position = *req.Position
	}

	if err := s.store.UpdateWidget(ctx, uid, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *DashboardService) DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error {
	if _, err := s.store.GetWidget(ctx, uid, dashboardID, widgetID); err != nil {
		return err
	}
	return s.store.DeleteWidget(ctx, uid, dashboardID, widgetID)
}

func (s *DashboardService) UpdateLayout(ctx context.Context, uid, dashboardID string, req dto.UpdateLayoutRequest) error {
	if len(req.Layout) == 0 {
		return errs.NewValidationError("layout update requires at least one item")
	}
	positions := make(map[string]models.Position, len(req.Layout))
	for _, item := range req.Layout {
		if item.WidgetID == "" {
			return errs.NewValidationError("layout item is missing widgetId")
		}
		positions[item.WidgetID] = item.Position
	}
	return s.store.UpdateLayout(ctx, uid, dashboardID, positions)
}

// GetWidgetData resolves one widget against the live filter context and runs
// its query.
func (s *DashboardService) GetWidgetData(ctx context.Context, uid, dashboardID, widgetID string, filterCtx dto.FilterContext) (*dto.WidgetDataResponse, error) {
	w, err := s.store.GetWidget(ctx, uid, dashboardID, widgetID)
	if err != nil {
		return nil, err
	}

	props, err := widgets.BuildWidgetProps(w, filterCtx)
	if err != nil {
		return nil, err
	}

	result, err := s.executor.QueryDataAsset(ctx, props.Query)
	if err != nil {
		return nil, err
	}

	return &dto.WidgetDataResponse{
		WidgetID:    w.WidgetID,
		Data:        result.Data,
		Metadata:    result.Metadata,
		LastUpdated: time.Now(),
	}, nil
}

// ListWidgetTypes exposes the widget registry.
func (s *DashboardService) ListWidgetTypes() []widgets.Entry {
	return widgets.Entries()
}

// CompatibleWidgetTypes returns the registry entries whose expected shape the
// asset can produce.
func (s *DashboardService) CompatibleWidgetTypes(ctx context.Context, assetKey string) ([]widgets.Entry, error) {
	asset, err := s.catalog.GetAsset(ctx, assetKey)
	if err != nil {
		return nil, err
	}
	return widgets.CompatibleWidgetTypes(asset), nil
}

func widgetTypeCompatible(asset *models.DataAsset, widgetType string) bool {
	for _, entry := range widgets.CompatibleWidgetTypes(asset) {
		if entry.WidgetType == widgetType {
			return true
		}
	}
	return false
}
