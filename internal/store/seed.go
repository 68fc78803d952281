package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/pkg/logger"
)

// SeedDefaults writes the default data asset catalog when the collection is
// empty. Asset keys are stable; re-running against a populated collection is
// a no-op.
func (s *assetStore) SeedDefaults(ctx context.Context) error {
	log := logger.FromContext(ctx)

	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug("data asset catalog already seeded", "count", count)
		return nil
	}

	for _, asset := range defaultDataAssets() {
		a := asset
		a.ID = uuid.New().String()
		a.IsActive = true
		if err := s.Create(ctx, &a); err != nil {
			// Concurrent instance seeded first; keep going.
			if _, ok := err.(*errs.AlreadyExistsError); ok {
				continue
			}
			return err
		}
	}
	log.Info("seeded default data asset catalog")
	return nil
}

func defaultDataAssets() []models.DataAsset {
	allDimensions := []string{
		"consultant", "team", "region", "client", "activityType", "day",
	}
	allFilters := []string{
		"consultantId", "teamId", "region", "clientName", "activityType",
	}

	return []models.DataAsset{
		{
			AssetKey:    "candidate_call_count",
			DisplayName: "Candidate Calls",
			Description: "Number of calls made to candidates.",
			Category:    models.CategoryActivity,
			Synonyms:    []string{"candidate calls", "calls to candidates", "call volume"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "day"},
			AvailableFilters:    []string{"consultantId", "teamId", "region"},
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityCandidateCall},
				Measure:       models.MeasureCount,
			},
		},
		{
			AssetKey:    "client_call_count",
			DisplayName: "Client Calls",
			Description: "Number of calls made to client contacts.",
			Category:    models.CategoryActivity,
			Synonyms:    []string{"client calls", "calls to clients", "bd calls"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "client", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityClientCall},
				Measure:       models.MeasureCount,
			},
		},
		{
			AssetKey:    "interview_count",
			DisplayName: "Interviews",
			Description: "Candidate interviews arranged.",
			Category:    models.CategoryActivity,
			Synonyms:    []string{"interviews", "interviews arranged", "interview volume"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "client", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityInterview},
				Measure:       models.MeasureCount,
			},
		},
		{
			AssetKey:    "cv_sent_count",
			DisplayName: "CVs Sent",
			Description: "Candidate CVs submitted to clients.",
			Category:    models.CategoryActivity,
			Synonyms:    []string{"cvs sent", "cv submissions", "resumes sent", "sendouts"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "client", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityCVSent},
				Measure:       models.MeasureCount,
			},
		},
		{
			AssetKey:    "placement_count",
			DisplayName: "Placements",
			Description: "Completed placements.",
			Category:    models.CategoryPerformance,
			Synonyms:    []string{"placements", "deals", "hires made"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "client", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityPlacement},
				Measure:       models.MeasureCount,
			},
		},
		{
			AssetKey:    "placement_revenue",
			DisplayName: "Placement Revenue",
			Description: "Fee revenue from completed placements.",
			Category:    models.CategoryRevenue,
			Synonyms:    []string{"revenue", "billings", "fees", "placement fees"},
			OutputShapes: []shapes.Kind{
				shapes.KindSingleValue, shapes.KindTimeSeries, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team", "region", "client", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityPlacement},
				Measure:       models.MeasureSumValue,
			},
		},
		{
			AssetKey:    "pipeline_funnel",
			DisplayName: "Candidate Pipeline",
			Description: "Candidates by pipeline stage, sourced through placed.",
			Category:    models.CategoryPipeline,
			Synonyms:    []string{"pipeline", "candidate funnel", "conversion funnel"},
			OutputShapes: []shapes.Kind{
				shapes.KindFunnelStages, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"stage", "consultant", "team"},
			AvailableFilters:    []string{"consultantId", "teamId", "region"},
			QueryTemplate: models.QueryTemplate{
				Measure: models.MeasureCount,
				StageOrder: []string{
					models.StageSourced, models.StageContacted,
					models.StageInterviewed, models.StageOffered, models.StagePlaced,
				},
			},
		},
		{
			AssetKey:    "activity_mix",
			DisplayName: "Activity Mix",
			Description: "Activity volume broken down across two dimensions.",
			Category:    models.CategoryActivity,
			Synonyms:    []string{"activity breakdown", "activity heatmap", "activity by consultant"},
			OutputShapes: []shapes.Kind{
				shapes.KindMatrix, shapes.KindCategorical,
			},
			AvailableDimensions: allDimensions,
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				Measure: models.MeasureCount,
			},
		},
		{
			AssetKey:    "recent_placements",
			DisplayName: "Recent Placements",
			Description: "Latest completed placements with client and fee.",
			Category:    models.CategoryPerformance,
			Synonyms:    []string{"latest placements", "recent deals"},
			OutputShapes: []shapes.Kind{
				shapes.KindTabular,
			},
			AvailableDimensions: []string{},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityPlacement},
				Measure:       models.MeasureSumValue,
			},
		},
		{
			AssetKey:    "consultant_leaderboard",
			DisplayName: "Consultant Leaderboard",
			Description: "Consultants ranked by placement revenue.",
			Category:    models.CategoryPerformance,
			Synonyms:    []string{"leaderboard", "top billers", "rankings"},
			OutputShapes: []shapes.Kind{
				shapes.KindTabular, shapes.KindCategorical,
			},
			AvailableDimensions: []string{"consultant", "team"},
			AvailableFilters:    []string{"teamId", "region"},
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityPlacement},
				Measure:       models.MeasureSumValue,
			},
		},
		{
			AssetKey:    "client_engagement",
			DisplayName: "Client Engagement",
			Description: "Client-facing activity volume by client.",
			Category:    models.CategoryEngagement,
			Synonyms:    []string{"client activity", "client touches", "account activity"},
			OutputShapes: []shapes.Kind{
				shapes.KindCategorical, shapes.KindTabular,
			},
			AvailableDimensions: []string{"client", "consultant", "day"},
			AvailableFilters:    allFilters,
			QueryTemplate: models.QueryTemplate{
				ActivityTypes: []string{models.ActivityClientCall, models.ActivityCVSent, models.ActivityInterview},
				Measure:       models.MeasureCount,
			},
		},
	}
}
