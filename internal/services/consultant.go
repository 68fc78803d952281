package services

import (
	"context"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
)

type consultantStore interface {
	Create(ctx context.Context, c *models.Consultant) error
	Update(ctx context.Context, c *models.Consultant) error
	Get(ctx context.Context, uid string) (*models.Consultant, error)
	ListActive(ctx context.Context) ([]*models.Consultant, error)
}

// ConsultantService manages consultant profiles; profiles drive scope
// resolution for dashboard filters.
type ConsultantService struct {
	store consultantStore
}

func NewConsultantService(store consultantStore) *ConsultantService {
	return &ConsultantService{store: store}
}

func (s *ConsultantService) Register(ctx context.Context, uid string, c *models.Consultant) (*models.Consultant, error) {
	if c.FirstName == "" || c.LastName == "" {
		return nil, errs.NewValidationError("firstName and lastName are required")
	}
	c.UID = uid
	if c.Role == "" {
		c.Role = models.RoleConsultant
	}
	c.IsActive = true
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ConsultantService) Get(ctx context.Context, uid string) (*models.Consultant, error) {
	return s.store.Get(ctx, uid)
}

func (s *ConsultantService) Update(ctx context.Context, uid string, c *models.Consultant) (*models.Consultant, error) {
	c.UID = uid
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, uid)
}

func (s *ConsultantService) ListActive(ctx context.Context) ([]*models.Consultant, error) {
	return s.store.ListActive(ctx)
}
