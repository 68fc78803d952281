package services

import (
	"context"
	"errors"
	"testing"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/internal/widgets"
	"github.com/talentview/recruit-backend/pkg/helpers"
)

type fakeDashboardStore struct {
	dashboards map[string]*models.Dashboard
	widgets    map[string]*models.Widget
	created    []*models.Widget
	updated    []*models.Widget
	deleted    []string
	layouts    map[string]models.Position
}

func newFakeDashboardStore() *fakeDashboardStore {
	return &fakeDashboardStore{
		dashboards: map[string]*models.Dashboard{},
		widgets:    map[string]*models.Widget{},
	}
}

func (f *fakeDashboardStore) CreateDashboard(_ context.Context, _ string, d *models.Dashboard) error {
	f.dashboards[d.DashboardID] = d
	return nil
}

func (f *fakeDashboardStore) GetDashboard(_ context.Context, _, dashboardID string) (*models.Dashboard, error) {
	d, ok := f.dashboards[dashboardID]
	if !ok {
		return nil, errs.NewNotFoundError("dashboard not found")
	}
	return d, nil
}

func (f *fakeDashboardStore) ListDashboards(_ context.Context, _ string) ([]*models.Dashboard, error) {
	out := make([]*models.Dashboard, 0, len(f.dashboards))
	for _, d := range f.dashboards {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDashboardStore) CreateWidget(_ context.Context, _ string, w *models.Widget) error {
	f.widgets[w.WidgetID] = w
	f.created = append(f.created, w)
	return nil
}

func (f *fakeDashboardStore) GetWidget(_ context.Context, _, _, widgetID string) (*models.Widget, error) {
	w, ok := f.widgets[widgetID]
	if !ok {
		return nil, errs.NewNotFoundError("widget not found")
	}
	return w, nil
}

func (f *fakeDashboardStore) ListWidgets(_ context.Context, _, dashboardID string) ([]*models.Widget, error) {
	var out []*models.Widget
	for _, w := range f.widgets {
		if w.DashboardID == dashboardID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) UpdateWidget(_ context.Context, _ string, w *models.Widget) error {
	f.widgets[w.WidgetID] = w
	f.updated = append(f.updated, w)
	return nil
}

func (f *fakeDashboardStore) DeleteWidget(_ context.Context, _, _, widgetID string) error {
	delete(f.widgets, widgetID)
	f.deleted = append(f.deleted, widgetID)
	return nil
}

func (f *fakeDashboardStore) UpdateLayout(_ context.Context, _, _ string, positions map[string]models.Position) error {
	f.layouts = positions
	return nil
}

type fakeExecutor struct {
	params []dto.QueryParameters
	result dto.QueryResult
	err    error
}

func (f *fakeExecutor) QueryDataAsset(_ context.Context, params dto.QueryParameters) (dto.QueryResult, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return dto.QueryResult{}, f.err
	}
	return f.result, nil
}

func newDashboardFixture() (*DashboardService, *fakeDashboardStore, *fakeExecutor) {
	store := newFakeDashboardStore()
	store.dashboards["d1"] = &models.Dashboard{DashboardID: "d1", Name: "Sales desk"}
	catalog := &fakeCatalog{assets: map[string]*models.DataAsset{
		"candidate_call_count": callAsset(),
	}}
	executor := &fakeExecutor{}
	return NewDashboardService(store, catalog, executor), store, executor
}

func TestCreateDashboard(t *testing.T) {
	svc, store, _ := newDashboardFixture()

	_, err := svc.CreateDashboard(helpers.TestCtx(), "u1", dto.CreateDashboardRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing name, got %T: %v", err, err)
	}

	d, err := svc.CreateDashboard(helpers.TestCtx(), "u1", dto.CreateDashboardRequest{Name: "Pipeline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DashboardID == "" {
		t.Error("dashboard id not assigned")
	}
	if _, ok := store.dashboards[d.DashboardID]; !ok {
		t.Error("dashboard not persisted")
	}
}

func TestAddWidget_IncompatibleType(t *testing.T) {
	svc, store, _ := newDashboardFixture()

	// candidate_call_count never produces a matrix, so a heatmap is invalid.
	_, err := svc.AddWidget(helpers.TestCtx(), "u1", "d1", dto.CreateWidgetRequest{
		AssetKey:   "candidate_call_count",
		WidgetType: widgets.TypeHeatmap,
	})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(store.created) != 0 {
		t.Error("incompatible widget must not be persisted")
	}
}

func TestAddWidget_UnknownType(t *testing.T) {
	svc, store, _ := newDashboardFixture()

	_, err := svc.AddWidget(helpers.TestCtx(), "u1", "d1", dto.CreateWidgetRequest{
		AssetKey:   "candidate_call_count",
		WidgetType: "gauge",
	})
	var ue *errs.UnknownWidgetTypeError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownWidgetTypeError, got %T: %v", err, err)
	}
	if ue.WidgetType != "gauge" {
		t.Errorf("error names %q", ue.WidgetType)
	}
	if len(store.created) != 0 {
		t.Error("unknown widget type must not be persisted")
	}
}

func TestAddWidget_UnknownAsset(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	_, err := svc.AddWidget(helpers.TestCtx(), "u1", "d1", dto.CreateWidgetRequest{
		AssetKey:   "no_such_asset",
		WidgetType: widgets.TypeStatCard,
	})
	var nfe *errs.AssetNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected AssetNotFoundError, got %T: %v", err, err)
	}
}

func TestAddWidget_DefaultsFromRegistry(t *testing.T) {
	svc, store, _ := newDashboardFixture()

	w, err := svc.AddWidget(helpers.TestCtx(), "u1", "d1", dto.CreateWidgetRequest{
		AssetKey:   "candidate_call_count",
		WidgetType: widgets.TypeBarChart,
		Parameters: map[string]any{"dimension": "consultant"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.WidgetID == "" {
		t.Error("widget id not assigned")
	}
	if w.DashboardID != "d1" {
		t.Errorf("dashboard id = %q", w.DashboardID)
	}

	entry, _ := widgets.GetEntry(widgets.TypeBarChart)
	if w.Position.W != entry.DefaultSize.W || w.Position.H != entry.DefaultSize.H {
		t.Errorf("position = %+v, want registry default size", w.Position)
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %d", len(store.created))
	}
}

func TestAddWidget_ExplicitPositionKept(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	w, err := svc.AddWidget(helpers.TestCtx(), "u1", "d1", dto.CreateWidgetRequest{
		AssetKey:   "candidate_call_count",
		WidgetType: widgets.TypeStatCard,
		Position:   &models.Position{X: 3, Y: 2, W: 4, H: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Position.X != 3 || w.Position.W != 4 {
		t.Errorf("position = %+v, want caller's placement", w.Position)
	}
}

func TestGetDashboard_BadWidgetIsolated(t *testing.T) {
	svc, store, _ := newDashboardFixture()
	store.widgets["w1"] = &models.Widget{
		WidgetID: "w1", DashboardID: "d1",
		AssetKey: "candidate_call_count", WidgetType: widgets.TypeStatCard,
	}
	store.widgets["w2"] = &models.Widget{
		WidgetID: "w2", DashboardID: "d1",
		AssetKey: "candidate_call_count", WidgetType: "gauge",
	}

	resp, err := svc.GetDashboard(helpers.TestCtx(), "u1", "d1", dto.FilterContext{})
	if err != nil {
		t.Fatalf("one bad widget must not fail the dashboard: %v", err)
	}
	if len(resp.Widgets) != 2 {
		t.Fatalf("widgets = %d", len(resp.Widgets))
	}

	byID := map[string]dto.ResolvedWidget{}
	for _, rw := range resp.Widgets {
		byID[rw.WidgetID] = rw
	}
	good := byID["w1"]
	if good.Props == nil || good.Error != "" {
		t.Errorf("w1 = %+v, want resolved props", good)
	}
	bad := byID["w2"]
	if bad.Props != nil || bad.Error == "" {
		t.Errorf("w2 = %+v, want error placeholder", bad)
	}
}

func TestUpdateWidget_BindingImmutable(t *testing.T) {
	svc, store, _ := newDashboardFixture()
	store.widgets["w1"] = &models.Widget{
		WidgetID: "w1", DashboardID: "d1",
		AssetKey: "candidate_call_count", WidgetType: widgets.TypeStatCard,
		Parameters: map[string]any{"consultantId": "c-1"},
	}

	w, err := svc.UpdateWidget(helpers.TestCtx(), "u1", "d1", "w1", dto.UpdateWidgetRequest{
		Parameters: map[string]any{"consultantId": "c-2"},
		Config:     &models.WidgetConfig{Title: "Renamed"},
		Position:   &models.Position{X: 1, Y: 1, W: 3, H: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.AssetKey != "candidate_call_count" || w.WidgetType != widgets.TypeStatCard {
		t.Error("asset binding and widget type must survive updates")
	}
	if w.Parameters["consultantId"] != "c-2" {
		t.Errorf("parameters = %v", w.Parameters)
	}
	if w.Config.Title != "Renamed" {
		t.Errorf("config = %+v", w.Config)
	}
	if w.Position.X != 1 {
		t.Errorf("position = %+v", w.Position)
	}
	if len(store.updated) != 1 {
		t.Errorf("updated = %d", len(store.updated))
	}
}

func TestDeleteWidget(t *testing.T) {
	svc, store, _ := newDashboardFixture()
	store.widgets["w1"] = &models.Widget{WidgetID: "w1", DashboardID: "d1"}

	if err := svc.DeleteWidget(helpers.TestCtx(), "u1", "d1", "w1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "w1" {
		t.Errorf("deleted = %v", store.deleted)
	}

	err := svc.DeleteWidget(helpers.TestCtx(), "u1", "d1", "w1")
	var nfe *errs.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestUpdateLayout(t *testing.T) {
	svc, store, _ := newDashboardFixture()

	err := svc.UpdateLayout(helpers.TestCtx(), "u1", "d1", dto.UpdateLayoutRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty layout, got %T: %v", err, err)
	}

	err = svc.UpdateLayout(helpers.TestCtx(), "u1", "d1", dto.UpdateLayoutRequest{
		Layout: []dto.LayoutItem{{Position: models.Position{X: 1}}},
	})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing widgetId, got %T: %v", err, err)
	}

	err = svc.UpdateLayout(helpers.TestCtx(), "u1", "d1", dto.UpdateLayoutRequest{
		Layout: []dto.LayoutItem{
			{WidgetID: "w1", Position: models.Position{X: 0, Y: 0, W: 6, H: 4}},
			{WidgetID: "w2", Position: models.Position{X: 6, Y: 0, W: 6, H: 4}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.layouts) != 2 {
		t.Fatalf("layouts = %v", store.layouts)
	}
	if store.layouts["w2"].X != 6 {
		t.Errorf("w2 position = %+v", store.layouts["w2"])
	}
}

func TestGetWidgetData(t *testing.T) {
	svc, store, executor := newDashboardFixture()
	store.widgets["w1"] = &models.Widget{
		WidgetID: "w1", DashboardID: "d1",
		AssetKey: "candidate_call_count", WidgetType: widgets.TypeStatCard,
	}
	executor.result = dto.QueryResult{
		Data:     shapes.NewSingleValue("Candidate Calls", 42),
		Metadata: dto.QueryMetadata{RecordCount: 42},
	}

	resp, err := svc.GetWidgetData(helpers.TestCtx(), "u1", "d1", "w1", dto.FilterContext{
		Scope:  models.ScopeTeam,
		TeamID: "team-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.WidgetID != "w1" {
		t.Errorf("widgetId = %q", resp.WidgetID)
	}
	if !shapes.IsSingleValue(resp.Data) {
		t.Errorf("data does not satisfy the widget's shape: %#v", resp.Data)
	}
	if resp.LastUpdated.IsZero() {
		t.Error("lastUpdated not set")
	}

	if len(executor.params) != 1 {
		t.Fatalf("executor calls = %d", len(executor.params))
	}
	q := executor.params[0]
	if q.AssetKey != "candidate_call_count" || q.Shape != shapes.KindSingleValue {
		t.Errorf("query = %+v", q)
	}
	if q.Filters[dto.FilterTeamID] != "team-1" {
		t.Errorf("live filter context not applied: %v", q.Filters)
	}
}

func TestCompatibleWidgetTypes_ViaService(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	entries, err := svc.CompatibleWidgetTypes(helpers.TestCtx(), "candidate_call_count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		if e.ExpectedShape == shapes.KindMatrix || e.ExpectedShape == shapes.KindTabular {
			t.Errorf("incompatible entry offered: %s", e.WidgetType)
		}
	}

	_, err = svc.CompatibleWidgetTypes(helpers.TestCtx(), "no_such_asset")
	var nfe *errs.AssetNotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected AssetNotFoundError, got %T: %v", err, err)
	}
}
