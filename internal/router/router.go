package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/talentview/recruit-backend/internal/handlers"
	"github.com/talentview/recruit-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(lm.LoggerMiddleware)

	auth := middleware.NewMiddleware(deps.Firebase)
	r.Use(auth.FirebaseAuth)

	ah := handlers.NewAssetHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	ch := handlers.NewConsultantHandlers(deps)
	aih := handlers.NewAIHandlers(deps)

	r.Mount("/assets", ah.AssetRoutes())
	r.Mount("/dashboards", dh.DashboardRoutes())
	r.Mount("/consultants", ch.ConsultantRoutes())
	r.Mount("/ai", aih.AIRoutes())
	return r
}
