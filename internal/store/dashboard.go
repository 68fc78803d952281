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
	"github.com/talentview/recruit-backend/pkg/logger"
)

type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) dashboards(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("dashboards")
}

func (s *dashboardStore) widgets(uid, dashboardID string) *firestore.CollectionRef {
	return s.dashboards(uid).Doc(dashboardID).Collection("widgets")
}

// --- Dashboards ---

func (s *dashboardStore) CreateDashboard(ctx context.Context, uid string, d *models.Dashboard) error {
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.dashboards(uid).Doc(d.DashboardID).Create(ctx, d)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create dashboard", err)
	}
	return nil
}

func (s *dashboardStore) GetDashboard(ctx context.Context, uid, dashboardID string) (*models.Dashboard, error) {
	doc, err := s.dashboards(uid).Doc(dashboardID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("dashboard not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get dashboard", err)
	}
	var d models.Dashboard
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse dashboard", err)
	}
	return &d, nil
}

func (s *dashboardStore) ListDashboards(ctx context.Context, uid string) ([]*models.Dashboard, error) {
	iter := s.dashboards(uid).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*models.Dashboard
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list dashboards", err)
		}
		var d models.Dashboard
		if err := doc.DataTo(&d); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse dashboard", err)
		}
		out = append(out, &d)
	}
	return out, nil
}

// --- Widgets ---

func (s *dashboardStore) CreateWidget(ctx context.Context, uid string, w *models.Widget) error {
	now := time.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	_, err := s.widgets(uid, w.DashboardID).Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create widget", err)
	}
	return nil
}

func (s *dashboardStore) GetWidget(ctx context.Context, uid, dashboardID, widgetID string) (*models.Widget, error) {
	doc, err := s.widgets(uid, dashboardID).Doc(widgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("widget not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get widget", err)
	}
	var w models.Widget
	if err := doc.DataTo(&w); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse widget", err)
	}
	return &w, nil
}

func (s *dashboardStore) ListWidgets(ctx context.Context, uid, dashboardID string) ([]*models.Widget, error) {
	docs, err := s.widgets(uid, dashboardID).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list widgets", err)
	}
	widgets := make([]*models.Widget, 0, len(docs))
	for _, d := range docs {
		var w models.Widget
		if err := d.DataTo(&w); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse widget", err)
		}
		widgets = append(widgets, &w)
	}
	return widgets, nil
}

func (s *dashboardStore) UpdateWidget(ctx context.Context, uid string, w *models.Widget) error {
	w.UpdatedAt = time.Now()
	_, err := s.widgets(uid, w.DashboardID).Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update widget", err)
	}
	return nil
}

func (s *dashboardStore) DeleteWidget(ctx context.Context, uid, dashboardID, widgetID string) error {
	_, err := s.widgets(uid, dashboardID).Doc(widgetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete widget", err)
	}
	return nil
}

type layoutJob struct {
	widgetID string
	job      *firestore.BulkWriterJob
}

// UpdateLayout persists widget grid positions in one bulk write.
func (s *dashboardStore) UpdateLayout(ctx context.Context, uid, dashboardID string, positions map[string]models.Position) error {
	log := logger.FromContext(ctx)
	bw := s.client.BulkWriter(ctx)
	coll := s.widgets(uid, dashboardID)
	now := time.Now()

	jobs := make([]layoutJob, 0, len(positions))
	for widgetID, pos := range positions {
		ref := coll.Doc(widgetID)
		j, err := bw.Update(ref, []firestore.Update{
			{Path: "position", Value: pos},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			return errs.NewDatabaseError("update", "failed to schedule layout update", err)
		}
		jobs = append(jobs, layoutJob{widgetID: widgetID, job: j})
	}
	bw.End()

	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Error("failed to update widget position", "widget_id", entry.widgetID, "error", err)
			return errs.NewDatabaseError("update", "failed to update widget position", err)
		}
	}
	return nil
}
