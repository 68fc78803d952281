package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/internal/widgets"
	"github.com/talentview/recruit-backend/pkg/helpers"
)

type fakeVertex struct {
	requests  []dto.VertexGenerateRequest
	responses []dto.VertexGenerateResponse
	errors    []error
}

func (f *fakeVertex) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errors) && f.errors[i] != nil {
		return dto.VertexGenerateResponse{}, f.errors[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return dto.VertexGenerateResponse{}, errors.New("unexpected generate call")
}

type fakeAIStore struct {
	history []models.AIMessage
	saved   []models.AIMessage
}

func (f *fakeAIStore) SaveMessage(_ context.Context, _, _ string, msg models.AIMessage) error {
	f.saved = append(f.saved, msg)
	return nil
}

func (f *fakeAIStore) ListMessages(_ context.Context, _, _ string, limit int) ([]models.AIMessage, error) {
	if len(f.history) > limit {
		return f.history[len(f.history)-limit:], nil
	}
	return f.history, nil
}

type fakeAICatalog struct {
	assets []*models.DataAsset
}

func (f *fakeAICatalog) GetAsset(_ context.Context, assetKey string) (*models.DataAsset, error) {
	for _, a := range f.assets {
		if a.AssetKey == assetKey {
			return a, nil
		}
	}
	return nil, errs.NewAssetNotFoundError(assetKey)
}

func (f *fakeAICatalog) ListActiveAssets(_ context.Context, _ string) ([]*models.DataAsset, error) {
	return f.assets, nil
}

type fakeAIDashboards struct {
	addRequests []dto.CreateWidgetRequest
	widget      *models.Widget
	err         error
}

func (f *fakeAIDashboards) AddWidget(_ context.Context, _, _ string, req dto.CreateWidgetRequest) (*models.Widget, error) {
	f.addRequests = append(f.addRequests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.widget, nil
}

func (f *fakeAIDashboards) CompatibleWidgetTypes(_ context.Context, assetKey string) ([]widgets.Entry, error) {
	asset, err := f.widgetAsset(assetKey)
	if err != nil {
		return nil, err
	}
	return widgets.CompatibleWidgetTypes(asset), nil
}

func (f *fakeAIDashboards) widgetAsset(assetKey string) (*models.DataAsset, error) {
	if assetKey == "candidate_call_count" {
		return callAsset(), nil
	}
	return nil, errs.NewAssetNotFoundError(assetKey)
}

var aiNow = time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)

func newAIFixture(vertex *fakeVertex, executor *fakeExecutor, dashboards *fakeAIDashboards, store *fakeAIStore) *AIService {
	catalog := &fakeAICatalog{assets: []*models.DataAsset{callAsset()}}
	svc := NewAIService(vertex, catalog, executor, dashboards, store, 30*24*time.Hour)
	svc.clockNow = func() time.Time { return aiNow }
	return svc
}

func TestAIQuery_DirectAnswer(t *testing.T) {
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{Text: "A placement is a successful hire."},
	}}
	store := &fakeAIStore{}
	svc := newAIFixture(vertex, &fakeExecutor{}, &fakeAIDashboards{}, store)

	resp, err := svc.Query(helpers.TestCtx(), "u1", "s1", "what is a placement?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "A placement is a successful hire." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Widget != nil || resp.Debug != nil {
		t.Error("no tool ran; widget and debug must be empty")
	}

	if len(store.saved) != 2 {
		t.Fatalf("saved messages = %d, want user + assistant", len(store.saved))
	}
	if store.saved[0].Role != "user" || store.saved[1].Role != "assistant" {
		t.Errorf("roles = %s, %s", store.saved[0].Role, store.saved[1].Role)
	}
	wantExpiry := aiNow.Add(30 * 24 * time.Hour)
	if !store.saved[0].ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiresAt = %v, want ttl applied", store.saved[0].ExpiresAt)
	}

	if len(vertex.requests) != 1 {
		t.Fatalf("vertex calls = %d", len(vertex.requests))
	}
	req := vertex.requests[0]
	if req.ToolConfig == nil || req.ToolConfig.Mode != dto.FunctionCallingModeAuto {
		t.Errorf("tool config = %+v", req.ToolConfig)
	}
	if !strings.Contains(req.System, "2026-08-19 (Wednesday, UK)") {
		t.Errorf("system prompt missing today's date: %q", req.System)
	}
}

func TestAIQuery_ToolRoundTrip(t *testing.T) {
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{
			Name: "query_data_asset",
			Args: map[string]any{
				"assetKey":     "candidate_call_count",
				"shape":        "single_value",
				"dateFrom":     "2026-08-01",
				"dateTo":       "2026-08-19",
				"consultantId": "c-9",
			},
		}}},
		{Text: "You made 42 candidate calls."},
	}}
	executor := &fakeExecutor{result: dto.QueryResult{
		Data:     shapes.NewSingleValue("Candidate Calls", 42),
		Metadata: dto.QueryMetadata{RecordCount: 42},
	}}
	store := &fakeAIStore{}
	svc := newAIFixture(vertex, executor, &fakeAIDashboards{}, store)

	resp, err := svc.Query(helpers.TestCtx(), "u1", "s1", "how many calls did I make this month?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "You made 42 candidate calls." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Debug == nil || resp.Debug.Tool != "query_data_asset" {
		t.Errorf("debug = %+v", resp.Debug)
	}

	if len(executor.params) != 1 {
		t.Fatalf("executor calls = %d", len(executor.params))
	}
	q := executor.params[0]
	if q.AssetKey != "candidate_call_count" || q.Shape != shapes.KindSingleValue {
		t.Errorf("query = %+v", q)
	}
	if q.DateRange == nil || q.DateRange.Start != "2026-08-01" {
		t.Errorf("date range = %+v", q.DateRange)
	}
	if q.Filters[dto.FilterConsultantID] != "c-9" {
		t.Errorf("filters = %v", q.Filters)
	}

	// user, tool, assistant
	if len(store.saved) != 3 {
		t.Fatalf("saved messages = %d", len(store.saved))
	}
	if store.saved[1].Role != "tool" || store.saved[1].ToolName != "query_data_asset" {
		t.Errorf("tool message = %+v", store.saved[1])
	}
	if store.saved[1].ToolResult == nil {
		t.Error("tool result not persisted")
	}

	// Second call carries the function call/response turn and disables tools.
	if len(vertex.requests) != 2 {
		t.Fatalf("vertex calls = %d", len(vertex.requests))
	}
	final := vertex.requests[1]
	if final.ToolConfig == nil || final.ToolConfig.Mode != dto.FunctionCallingModeNone {
		t.Errorf("final tool config = %+v", final.ToolConfig)
	}
	n := len(final.Contents)
	if n < 3 {
		t.Fatalf("final contents = %d", n)
	}
	if final.Contents[n-2].Parts[0].FunctionCall == nil {
		t.Error("function call turn missing")
	}
	if final.Contents[n-1].Parts[0].FunctionResponse == nil {
		t.Error("function response turn missing")
	}
}

func TestAIQuery_MalformedCallRetriesStrict(t *testing.T) {
	vertex := &fakeVertex{
		errors: []error{errs.NewMalformedFunctionCallError()},
		responses: []dto.VertexGenerateResponse{
			{},
			{Text: "Which consultant do you mean?"},
		},
	}
	store := &fakeAIStore{}
	svc := newAIFixture(vertex, &fakeExecutor{}, &fakeAIDashboards{}, store)

	resp, err := svc.Query(helpers.TestCtx(), "u1", "s1", "compare them")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Which consultant do you mean?" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(vertex.requests) != 2 {
		t.Fatalf("vertex calls = %d, want retry", len(vertex.requests))
	}
	if vertex.requests[1].System == vertex.requests[0].System {
		t.Error("retry must use the stricter system prompt")
	}
}

func TestAIQuery_UnknownToolRejected(t *testing.T) {
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{Name: "drop_all_tables"}}},
	}}
	store := &fakeAIStore{}
	svc := newAIFixture(vertex, &fakeExecutor{}, &fakeAIDashboards{}, store)

	_, err := svc.Query(helpers.TestCtx(), "u1", "s1", "hi")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(store.saved) != 0 {
		t.Error("nothing should be persisted for a rejected tool call")
	}
}

func TestAIQuery_CreateWidgetSurfacesWidget(t *testing.T) {
	created := &models.Widget{
		WidgetID:   "w-new",
		AssetKey:   "candidate_call_count",
		WidgetType: widgets.TypeBarChart,
	}
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{
			Name: "create_widget",
			Args: map[string]any{
				"dashboardId": "d1",
				"assetKey":    "candidate_call_count",
				"widgetType":  "bar_chart",
				"title":       "Calls by consultant",
				"dimension":   "consultant",
				"limit":       5,
			},
		}}},
		{Text: "Added a bar chart to your dashboard."},
	}}
	dashboards := &fakeAIDashboards{widget: created}
	svc := newAIFixture(vertex, &fakeExecutor{}, dashboards, &fakeAIStore{})

	resp, err := svc.Query(helpers.TestCtx(), "u1", "s1", "chart my calls by consultant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := resp.Widget.(*models.Widget)
	if !ok || w.WidgetID != "w-new" {
		t.Errorf("widget = %#v, want the created widget surfaced", resp.Widget)
	}

	if len(dashboards.addRequests) != 1 {
		t.Fatalf("add widget calls = %d", len(dashboards.addRequests))
	}
	req := dashboards.addRequests[0]
	if req.WidgetType != widgets.TypeBarChart || req.Config.Title != "Calls by consultant" {
		t.Errorf("create request = %+v", req)
	}
	if req.Parameters["dimension"] != "consultant" {
		t.Errorf("parameters = %v", req.Parameters)
	}
}

func TestAIQuery_WeaklyTypedToolArgs(t *testing.T) {
	// Models frequently send integers as strings; decoding must tolerate that.
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{ToolCalls: []dto.VertexToolCall{{
			Name: "query_data_asset",
			Args: map[string]any{
				"assetKey": "candidate_call_count",
				"shape":    "categorical",
				"limit":    "5",
			},
		}}},
		{Text: "Here are your top consultants."},
	}}
	executor := &fakeExecutor{result: dto.QueryResult{
		Data: shapes.NewCategorical([]shapes.CategoryPoint{{Label: "alice", Value: 3}}),
	}}
	svc := newAIFixture(vertex, executor, &fakeAIDashboards{}, &fakeAIStore{})

	_, err := svc.Query(helpers.TestCtx(), "u1", "s1", "top consultants by calls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if executor.params[0].Limit != 5 {
		t.Errorf("limit = %d, want weakly typed decode", executor.params[0].Limit)
	}
}

func TestAIQuery_HistoryConversion(t *testing.T) {
	history := []models.AIMessage{
		{Role: "user", Content: "how many calls last week?"},
		{Role: "tool", ToolName: "query_data_asset",
			ToolArgs:   map[string]any{"assetKey": "candidate_call_count"},
			ToolResult: map[string]any{"data": map[string]any{"value": 12.0}}},
		{Role: "assistant", Content: "You made 12 calls."},
	}
	vertex := &fakeVertex{responses: []dto.VertexGenerateResponse{
		{Text: "And 14 the week before."},
	}}
	store := &fakeAIStore{history: history}
	svc := newAIFixture(vertex, &fakeExecutor{}, &fakeAIDashboards{}, store)

	_, err := svc.Query(helpers.TestCtx(), "u1", "s1", "and the week before?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contents := vertex.requests[0].Contents
	// user text, tool call, tool response, assistant text, current message
	if len(contents) != 5 {
		t.Fatalf("contents = %d", len(contents))
	}
	if contents[1].Parts[0].FunctionCall == nil {
		t.Error("stored tool call not replayed as a function call part")
	}
	if contents[2].Parts[0].FunctionResponse == nil {
		t.Error("stored tool result not replayed as a function response part")
	}
	if contents[4].Parts[0].Text == nil || *contents[4].Parts[0].Text != "and the week before?" {
		t.Error("current message must be the final content")
	}
}
