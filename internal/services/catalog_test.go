package services

import (
	"context"
	"errors"
	"testing"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/pkg/helpers"
)

type fakeAssetStore struct {
	assets []*models.DataAsset
	err    error
}

func (f *fakeAssetStore) Get(_ context.Context, assetKey string) (*models.DataAsset, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.assets {
		if a.AssetKey == assetKey {
			return a, nil
		}
	}
	return nil, errs.NewAssetNotFoundError(assetKey)
}

func (f *fakeAssetStore) List(_ context.Context) ([]*models.DataAsset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

func catalogFixture() []*models.DataAsset {
	return []*models.DataAsset{
		{
			AssetKey:     "placement_revenue",
			DisplayName:  "Placement Revenue",
			Category:     models.CategoryRevenue,
			Synonyms:     []string{"billings", "fees"},
			OutputShapes: []shapes.Kind{shapes.KindSingleValue},
			IsActive:     true,
		},
		{
			AssetKey:     "candidate_call_count",
			DisplayName:  "Candidate Calls",
			Category:     models.CategoryActivity,
			Synonyms:     []string{"calls", "call volume"},
			OutputShapes: []shapes.Kind{shapes.KindSingleValue, shapes.KindTimeSeries},
			IsActive:     true,
		},
		{
			AssetKey:     "cv_sent_count",
			DisplayName:  "CVs Sent",
			Category:     models.CategoryActivity,
			Synonyms:     []string{"cvs", "submittals"},
			OutputShapes: []shapes.Kind{shapes.KindSingleValue},
			IsActive:     true,
		},
		{
			AssetKey:     "legacy_call_ratio",
			DisplayName:  "Call Ratio",
			Category:     models.CategoryActivity,
			Synonyms:     []string{"call ratio"},
			OutputShapes: []shapes.Kind{shapes.KindSingleValue},
			IsActive:     false,
		},
	}
}

func TestGetAsset_InactiveIndistinguishableFromMissing(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	for _, key := range []string{"legacy_call_ratio", "never_existed"} {
		_, err := svc.GetAsset(helpers.TestCtx(), key)
		var nfe *errs.AssetNotFoundError
		if !errors.As(err, &nfe) {
			t.Fatalf("%s: expected AssetNotFoundError, got %T: %v", key, err, err)
		}
		if nfe.AssetKey != key {
			t.Errorf("%s: error names %q", key, nfe.AssetKey)
		}
	}
}

func TestGetAsset_Active(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	asset, err := svc.GetAsset(helpers.TestCtx(), "candidate_call_count")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.DisplayName != "Candidate Calls" {
		t.Errorf("display name = %q", asset.DisplayName)
	}
}

func TestListActiveAssets_SortedAndFiltered(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	all, err := svc.ListActiveAssets(helpers.TestCtx(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("active assets = %d, want inactive excluded", len(all))
	}
	// Category then display name.
	wantOrder := []string{"candidate_call_count", "cv_sent_count", "placement_revenue"}
	for i, key := range wantOrder {
		if all[i].AssetKey != key {
			t.Errorf("position %d = %s, want %s", i, all[i].AssetKey, key)
		}
	}

	activity, err := svc.ListActiveAssets(helpers.TestCtx(), "activity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activity) != 2 {
		t.Errorf("activity assets = %d", len(activity))
	}
}

func TestListActiveAssets_DisplayNameOrderIgnoresCase(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: []*models.DataAsset{
		{AssetKey: "cv_sent_count", DisplayName: "CVs Sent", Category: models.CategoryActivity, IsActive: true},
		{AssetKey: "candidate_call_count", DisplayName: "Candidate Calls", Category: models.CategoryActivity, IsActive: true},
		{AssetKey: "interview_count", DisplayName: "client interviews", Category: models.CategoryActivity, IsActive: true},
	}})

	got, err := svc.ListActiveAssets(helpers.TestCtx(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Byte order would put uppercase "CVs Sent" before "Candidate Calls" and
	// lowercase "client interviews" last.
	wantOrder := []string{"candidate_call_count", "interview_count", "cv_sent_count"}
	if len(got) != len(wantOrder) {
		t.Fatalf("assets = %v", assetKeys(got))
	}
	for i, key := range wantOrder {
		if got[i].AssetKey != key {
			t.Errorf("position %d = %s, want %s", i, got[i].AssetKey, key)
		}
	}
}

func TestListActiveAssets_UnknownCategory(t *testing.T) {
	store := &fakeAssetStore{assets: catalogFixture()}
	svc := NewCatalogService(store)

	_, err := svc.ListActiveAssets(helpers.TestCtx(), "astrology")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestMatchSynonym_ExactBeforePartial(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	// "calls" is an exact synonym of candidate_call_count; it is also a
	// substring of that asset's display name, which must not double-count.
	got, err := svc.MatchSynonym(helpers.TestCtx(), "CALLS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("matches = %d: %v", len(got), assetKeys(got))
	}
	if got[0].AssetKey != "candidate_call_count" {
		t.Errorf("match = %s", got[0].AssetKey)
	}
}

func TestMatchSynonym_PartialRanksAfterExact(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	got, err := svc.MatchSynonym(helpers.TestCtx(), "cvs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || got[0].AssetKey != "cv_sent_count" {
		t.Errorf("exact synonym should rank first: %v", assetKeys(got))
	}
}

func TestMatchSynonym_InactiveExcluded(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	got, err := svc.MatchSynonym(helpers.TestCtx(), "call ratio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("inactive asset matched: %v", assetKeys(got))
	}
}

func TestMatchSynonym_EmptyTerm(t *testing.T) {
	svc := NewCatalogService(&fakeAssetStore{assets: catalogFixture()})

	got, err := svc.MatchSynonym(helpers.TestCtx(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("blank term matched %v", assetKeys(got))
	}
}

func assetKeys(assets []*models.DataAsset) []string {
	keys := make([]string, 0, len(assets))
	for _, a := range assets {
		keys = append(keys, a.AssetKey)
	}
	return keys
}
