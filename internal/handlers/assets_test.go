package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/internal/widgets"
)

type stubCatalogService struct {
	asset        *models.DataAsset
	assets       []*models.DataAsset
	err          error
	lastKey      string
	lastCategory string
	lastTerm     string
}

func (s *stubCatalogService) GetAsset(_ context.Context, assetKey string) (*models.DataAsset, error) {
	s.lastKey = assetKey
	return s.asset, s.err
}

func (s *stubCatalogService) ListActiveAssets(_ context.Context, category string) ([]*models.DataAsset, error) {
	s.lastCategory = category
	return s.assets, s.err
}

func (s *stubCatalogService) MatchSynonym(_ context.Context, term string) ([]*models.DataAsset, error) {
	s.lastTerm = term
	return s.assets, s.err
}

type stubQueryService struct {
	result     dto.QueryResult
	err        error
	lastParams dto.QueryParameters
}

func (s *stubQueryService) QueryDataAsset(_ context.Context, params dto.QueryParameters) (dto.QueryResult, error) {
	s.lastParams = params
	return s.result, s.err
}

type stubCompatService struct {
	entries []widgets.Entry
	err     error
	lastKey string
}

func (s *stubCompatService) CompatibleWidgetTypes(_ context.Context, assetKey string) ([]widgets.Entry, error) {
	s.lastKey = assetKey
	return s.entries, s.err
}

func newAssetHandlersFixture(catalog *stubCatalogService, query *stubQueryService, compat *stubCompatService, resp *stubResponseHandler) *assetHandlers {
	return &assetHandlers{
		ResponseHandler: resp,
		CatalogSvc:      catalog,
		QuerySvc:        query,
		CompatSvc:       compat,
	}
}

func TestListAssets_CategoryPassthrough(t *testing.T) {
	catalog := &stubCatalogService{assets: []*models.DataAsset{{AssetKey: "candidate_call_count"}}}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(catalog, &stubQueryService{}, &stubCompatService{}, resp)

	req := httptest.NewRequest(http.MethodGet, "/assets?category=activity", nil)
	rr := httptest.NewRecorder()
	h.ListAssets(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if catalog.lastCategory != "activity" {
		t.Errorf("category = %q", catalog.lastCategory)
	}
}

func TestSearchAssets_OK(t *testing.T) {
	catalog := &stubCatalogService{assets: []*models.DataAsset{{AssetKey: "candidate_call_count"}}}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(catalog, &stubQueryService{}, &stubCompatService{}, resp)

	req := httptest.NewRequest(http.MethodGet, "/assets/search?q=calls", nil)
	rr := httptest.NewRecorder()
	h.SearchAssets(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if catalog.lastTerm != "calls" {
		t.Errorf("term = %q", catalog.lastTerm)
	}
}

func TestGetAsset_NotFound(t *testing.T) {
	catalog := &stubCatalogService{err: errs.NewAssetNotFoundError("nope")}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(catalog, &stubQueryService{}, &stubCompatService{}, resp)

	req := httptest.NewRequest(http.MethodGet, "/assets/nope", nil)
	req = withChiParam(req, "assetKey", "nope")
	rr := httptest.NewRecorder()
	h.GetAsset(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on missing asset")
	}
	if catalog.lastKey != "nope" {
		t.Errorf("asset key = %q", catalog.lastKey)
	}
}

func TestGetCompatibleWidgetTypes_Handler_OK(t *testing.T) {
	compat := &stubCompatService{entries: widgets.Entries()[:2]}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(&stubCatalogService{}, &stubQueryService{}, compat, resp)

	req := httptest.NewRequest(http.MethodGet, "/assets/candidate_call_count/widget-types", nil)
	req = withChiParam(req, "assetKey", "candidate_call_count")
	rr := httptest.NewRecorder()
	h.GetCompatibleWidgetTypes(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if compat.lastKey != "candidate_call_count" {
		t.Errorf("asset key = %q", compat.lastKey)
	}
}

func TestQueryAsset_OK(t *testing.T) {
	query := &stubQueryService{result: dto.QueryResult{
		Data: shapes.NewSingleValue("Candidate Calls", 42),
	}}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(&stubCatalogService{}, query, &stubCompatService{}, resp)

	body := `{"shape":"categorical","dateRange":{"start":"2026-08-01","end":"2026-08-19"},"dimensions":["consultant"],"limit":5,"filters":{"teamId":"team-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/assets/candidate_call_count/query", strings.NewReader(body))
	req = withChiParam(req, "assetKey", "candidate_call_count")
	rr := httptest.NewRecorder()
	h.QueryAsset(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	p := query.lastParams
	if p.AssetKey != "candidate_call_count" || p.Shape != shapes.KindCategorical {
		t.Errorf("params = %+v", p)
	}
	if p.DateRange == nil || p.DateRange.Start != "2026-08-01" {
		t.Errorf("date range = %+v", p.DateRange)
	}
	if p.Limit != 5 || p.Filters["teamId"] != "team-1" {
		t.Errorf("params = %+v", p)
	}
}

func TestQueryAsset_UnsupportedShape(t *testing.T) {
	query := &stubQueryService{err: errs.NewUnsupportedShapeError("candidate_call_count", "funnel_stages")}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(&stubCatalogService{}, query, &stubCompatService{}, resp)

	body := `{"shape":"funnel_stages"}`
	req := httptest.NewRequest(http.MethodPost, "/assets/candidate_call_count/query", strings.NewReader(body))
	req = withChiParam(req, "assetKey", "candidate_call_count")
	rr := httptest.NewRecorder()
	h.QueryAsset(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on error")
	}
}

func TestQueryAsset_InvalidJSON(t *testing.T) {
	query := &stubQueryService{}
	resp := &stubResponseHandler{}
	h := newAssetHandlersFixture(&stubCatalogService{}, query, &stubCompatService{}, resp)

	req := httptest.NewRequest(http.MethodPost, "/assets/candidate_call_count/query", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.QueryAsset(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
	if query.lastParams.AssetKey != "" {
		t.Fatal("query service should not be called on invalid JSON")
	}
}
