package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
)

type assetStore struct {
	client *firestore.Client
}

func NewAssetStore(client *firestore.Client) *assetStore {
	return &assetStore{client: client}
}

func (s *assetStore) collection() *firestore.CollectionRef {
	return s.client.Collection("data_assets")
}

// Get fetches one asset by its stable key. Missing keys surface as
// AssetNotFoundError; active/inactive filtering is the catalog's concern.
func (s *assetStore) Get(ctx context.Context, assetKey string) (*models.DataAsset, error) {
	doc, err := s.collection().Doc(assetKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewAssetNotFoundError(assetKey)
		}
		return nil, errs.NewDatabaseError("read", "failed to get data asset", err)
	}
	var a models.DataAsset
	if err := doc.DataTo(&a); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse data asset", err)
	}
	return &a, nil
}

// List returns every asset document. Ordering is applied by the catalog
// service; a single-field scan here avoids composite index requirements.
func (s *assetStore) List(ctx context.Context) ([]*models.DataAsset, error) {
	iter := s.collection().Documents(ctx)
	defer iter.Stop()

	var out []*models.DataAsset
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list data assets", err)
		}
		var a models.DataAsset
		if err := doc.DataTo(&a); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse data asset", err)
		}
		out = append(out, &a)
	}
	return out, nil
}

// Create writes an asset document keyed by its asset key. Used by the
// seeder; runtime asset writes happen in the external admin app.
func (s *assetStore) Create(ctx context.Context, a *models.DataAsset) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	_, err := s.collection().Doc(a.AssetKey).Create(ctx, a)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("data asset already exists: " + a.AssetKey)
		}
		return errs.NewDatabaseError("create", "failed to create data asset", err)
	}
	return nil
}

// Count returns the number of asset documents; the seeder uses it to decide
// whether defaults are needed.
func (s *assetStore) Count(ctx context.Context) (int, error) {
	docs, err := s.collection().Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count data assets", err)
	}
	return len(docs), nil
}
