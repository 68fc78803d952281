package services

import (
	"context"
	"sort"
	"strings"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
)

type catalogAssetStore interface {
	Get(ctx context.Context, assetKey string) (*models.DataAsset, error)
	List(ctx context.Context) ([]*models.DataAsset, error)
}

// CatalogService is the read surface over the data asset catalog. Everything
// downstream — the executor, the widget compatibility selector, the AI tools —
// resolves asset keys through it.
type CatalogService struct {
	store catalogAssetStore
}

func NewCatalogService(store catalogAssetStore) *CatalogService {
	return &CatalogService{store: store}
}

// GetAsset resolves an active asset by key. Inactive assets are reported as
// missing so callers cannot distinguish "disabled" from "never existed".
func (s *CatalogService) GetAsset(ctx context.Context, assetKey string) (*models.DataAsset, error) {
	asset, err := s.store.Get(ctx, assetKey)
	if err != nil {
		return nil, err
	}
	if !asset.IsActive {
		return nil, errs.NewAssetNotFoundError(assetKey)
	}
	return asset, nil
}

// ListActiveAssets returns active assets, optionally narrowed to one category,
// sorted by category then display name.
func (s *CatalogService) ListActiveAssets(ctx context.Context, category string) ([]*models.DataAsset, error) {
	if category != "" && !models.IsAssetCategoryAllowed(category) {
		return nil, errs.NewValidationError("unknown asset category: " + category)
	}

	assets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.DataAsset, 0, len(assets))
	for _, a := range assets {
		if !a.IsActive {
			continue
		}
		if category != "" && string(a.Category) != category {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		ni, nj := strings.ToLower(out[i].DisplayName), strings.ToLower(out[j].DisplayName)
		if ni != nj {
			return ni < nj
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

// MatchSynonym finds active assets whose key, display name, or synonyms match
// the term. Exact matches rank before substring matches; matching is
// case-insensitive.
func (s *CatalogService) MatchSynonym(ctx context.Context, term string) ([]*models.DataAsset, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, nil
	}

	assets, err := s.ListActiveAssets(ctx, "")
	if err != nil {
		return nil, err
	}

	var exact, partial []*models.DataAsset
	for _, a := range assets {
		switch matchAsset(a, needle) {
		case matchExact:
			exact = append(exact, a)
		case matchPartial:
			partial = append(partial, a)
		}
	}
	return append(exact, partial...), nil
}

type matchGrade int

const (
	matchNone matchGrade = iota
	matchPartial
	matchExact
)

func matchAsset(a *models.DataAsset, needle string) matchGrade {
	candidates := make([]string, 0, len(a.Synonyms)+2)
	candidates = append(candidates, a.AssetKey, a.DisplayName)
	candidates = append(candidates, a.Synonyms...)

	grade := matchNone
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == needle {
			return matchExact
		}
		if strings.Contains(lc, needle) {
			grade = matchPartial
		}
	}
	return grade
}
