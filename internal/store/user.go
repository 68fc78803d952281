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

type consultantStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewConsultantStore(client *firestore.Client) *consultantStore {
	return &consultantStore{
		client:     client,
		collection: client.Collection("consultants"),
	}
}

func (s *consultantStore) Create(ctx context.Context, c *models.Consultant) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := s.collection.Doc(c.UID).Create(ctx, c)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("consultant profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create consultant", err)
	}
	return nil
}

func (s *consultantStore) Update(ctx context.Context, c *models.Consultant) error {
	c.UpdatedAt = time.Now()
	_, err := s.collection.Doc(c.UID).Set(ctx, c, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update consultant", err)
	}
	return nil
}

func (s *consultantStore) Get(ctx context.Context, uid string) (*models.Consultant, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("consultant not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get consultant", err)
	}
	var c models.Consultant
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse consultant", err)
	}
	return &c, nil
}

// ListActive returns active consultants for filter dropdowns and scope
// resolution.
func (s *consultantStore) ListActive(ctx context.Context) ([]*models.Consultant, error) {
	iter := s.collection.Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	var out []*models.Consultant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list consultants", err)
		}
		var c models.Consultant
		if err := doc.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse consultant", err)
		}
		out = append(out, &c)
	}
	return out, nil
}
