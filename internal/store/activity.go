package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
)

type activityStore struct {
	client *firestore.Client
}

func NewActivityStore(client *firestore.Client) *activityStore {
	return &activityStore{client: client}
}

func (s *activityStore) collection() *firestore.CollectionRef {
	return s.client.Collection("activities")
}

// Query streams matching activity rows. The record channel closes when the
// scan finishes; at most one error is sent before both channels close.
// Writes to this collection come from the external import pipeline.
func (s *activityStore) Query(ctx context.Context, q dto.ActivityQuery) (<-chan *models.Activity, <-chan error) {
	out := make(chan *models.Activity)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		query := s.collection().Query
		if len(q.Types) == 1 {
			query = query.Where("type", "==", q.Types[0])
		} else if len(q.Types) > 1 {
			query = query.Where("type", "in", q.Types)
		}
		if q.ConsultantID != nil {
			query = query.Where("consultantId", "==", *q.ConsultantID)
		}
		if q.TeamID != nil {
			query = query.Where("teamId", "==", *q.TeamID)
		}
		if q.Region != nil {
			query = query.Where("region", "==", *q.Region)
		}
		if q.ClientName != nil {
			query = query.Where("clientName", "==", *q.ClientName)
		}
		if q.Stage != nil {
			query = query.Where("stage", "==", *q.Stage)
		}
		if q.DateFrom != nil {
			query = query.Where("date", ">=", *q.DateFrom)
		}
		if q.DateTo != nil {
			query = query.Where("date", "<=", *q.DateTo)
		}

		orderBy := q.OrderBy
		if orderBy == "" {
			orderBy = "date"
		}
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(orderBy, dir)
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}

		iter := query.Documents(ctx)
		defer iter.Stop()

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				errc <- errs.NewDatabaseError("read", "failed to stream activities", err)
				return
			}
			var a models.Activity
			if err := doc.DataTo(&a); err != nil {
				errc <- errs.NewDatabaseError("read", "failed to parse activity", err)
				return
			}
			select {
			case out <- &a:
			case <-ctx.Done():
				errc <- errs.NewDatabaseError("read", "activity stream cancelled", ctx.Err())
				return
			}
		}
	}()

	return out, errc
}
