package handlers

import (
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/response"
	"github.com/talentview/recruit-backend/internal/services"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	CatalogSvc      *services.CatalogService
	QuerySvc        *services.QueryService
	DashboardSvc    *services.DashboardService
	ConsultantSvc   *services.ConsultantService
	AISvc           *services.AIService
	Firebase        *auth.Client
}

// filterContextFromRequest reads the dashboard's live global filters off the
// query string. Absent values leave the widget's stored configuration in
// charge.
func filterContextFromRequest(r *http.Request) dto.FilterContext {
	q := r.URL.Query()
	return dto.FilterContext{
		DateRange: dto.DateRange{
			Start: q.Get("start"),
			End:   q.Get("end"),
		},
		Scope:        q.Get("scope"),
		ConsultantID: q.Get("consultantId"),
		TeamID:       q.Get("teamId"),
		Region:       q.Get("region"),
	}
}
