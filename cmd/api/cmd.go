package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/talentview/recruit-backend/internal/bootstrap"
	"github.com/talentview/recruit-backend/internal/config"
	"github.com/talentview/recruit-backend/internal/handlers"
	"github.com/talentview/recruit-backend/internal/response"
	"github.com/talentview/recruit-backend/internal/router"
	"github.com/talentview/recruit-backend/internal/services"
	"github.com/talentview/recruit-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	astore := store.NewAssetStore(bs.Firestore)
	actstore := store.NewActivityStore(bs.Firestore)
	dstore := store.NewDashboardStore(bs.Firestore)
	cstore := store.NewConsultantStore(bs.Firestore)
	aistore := store.NewAIStore(bs.Firestore)

	// services
	catserv := services.NewCatalogService(astore)
	qserv := services.NewQueryService(catserv, actstore)
	dserv := services.NewDashboardService(dstore, catserv, qserv)
	cserv := services.NewConsultantService(cstore)
	aiserv := services.NewAIService(bs.VertexAdapter, catserv, qserv, dserv, aistore, cfg.AITTL)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.CatalogSvc = catserv
	deps.QuerySvc = qserv
	deps.DashboardSvc = dserv
	deps.ConsultantSvc = cserv
	deps.AISvc = aiserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
