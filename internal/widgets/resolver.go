package widgets

import (
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
)

const dateLayout = "2006-01-02"

// BuildWidgetProps binds a persisted widget to a render-ready props object.
// Merge precedence, lowest first: registry defaults, the widget's stored
// config/parameters, then the live filter context — so a widget reflects the
// dashboard's current date range and scope, not the ones from when it was
// created. The resolver only prepares the query; it never fetches data.
//
// A registry miss fails with UnknownWidgetTypeError. Callers render a broken
// widget placeholder in that case; one bad widget must not take down its
// siblings.
func BuildWidgetProps(w *models.Widget, filterCtx dto.FilterContext) (dto.WidgetProps, error) {
	return buildWidgetProps(w, filterCtx, time.Now())
}

func buildWidgetProps(w *models.Widget, filterCtx dto.FilterContext, now time.Time) (dto.WidgetProps, error) {
	entry, ok := GetEntry(w.WidgetType)
	if !ok {
		return dto.WidgetProps{}, errs.NewUnknownWidgetTypeError(w.WidgetType)
	}

	var params dto.WidgetParameters
	if err := mapstructure.Decode(w.Parameters, &params); err != nil {
		return dto.WidgetProps{}, errs.NewValidationError("widget parameters are malformed: " + err.Error())
	}

	query := dto.QueryParameters{
		AssetKey: w.AssetKey,
		Shape:    entry.ExpectedShape,
		Limit:    params.Limit,
		SortBy:   params.SortBy,
		SortDesc: params.SortDesc,
	}

	if params.Dimension != "" {
		query.Dimensions = append(query.Dimensions, params.Dimension)
	}
	if params.SecondaryDimension != "" {
		query.Dimensions = append(query.Dimensions, params.SecondaryDimension)
	}

	query.Filters = mergeFilters(params, filterCtx)
	query.DateRange = resolveDateRange(w.Config.DateRange, filterCtx, now)

	label := entry.Label
	if w.Config.Title != "" {
		label = w.Config.Title
	}

	position := w.Position
	if position.W == 0 {
		position.W = entry.DefaultSize.W
	}
	if position.H == 0 {
		position.H = entry.DefaultSize.H
	}

	return dto.WidgetProps{
		WidgetID:   w.WidgetID,
		WidgetType: w.WidgetType,
		Label:      label,
		Shape:      entry.ExpectedShape,
		Size:       entry.DefaultSize,
		Position:   position,
		Config:     w.Config,
		Query:      query,
	}, nil
}

// mergeFilters layers stored widget parameters under the live context.
// Context scope fields win: a dashboard scoped to a team must never show a
// widget pinned to a consultant outside it.
func mergeFilters(params dto.WidgetParameters, filterCtx dto.FilterContext) map[string]string {
	filters := map[string]string{}
	put := func(key, value string) {
		if value != "" {
			filters[key] = value
		}
	}

	put(dto.FilterConsultantID, params.ConsultantID)
	put(dto.FilterTeamID, params.TeamID)
	put(dto.FilterRegion, params.Region)
	put(dto.FilterStage, params.Stage)
	put(dto.FilterClientName, params.ClientName)
	put(dto.FilterActivityType, params.ActivityType)

	switch filterCtx.Scope {
	case models.ScopeSelf:
		put(dto.FilterConsultantID, filterCtx.ConsultantID)
	case models.ScopeTeam:
		delete(filters, dto.FilterConsultantID)
		put(dto.FilterTeamID, filterCtx.TeamID)
	case models.ScopeRegion:
		delete(filters, dto.FilterConsultantID)
		delete(filters, dto.FilterTeamID)
		put(dto.FilterRegion, filterCtx.Region)
	case models.ScopeNational:
		delete(filters, dto.FilterConsultantID)
		delete(filters, dto.FilterTeamID)
		delete(filters, dto.FilterRegion)
	default:
		// No scope in context: keep stored filters, but an explicitly
		// selected consultant still wins.
		put(dto.FilterConsultantID, filterCtx.ConsultantID)
	}

	if len(filters) == 0 {
		return nil
	}
	return filters
}

// resolveDateRange prefers the live context range over stored config; a
// stored preset is resolved against now, a stored custom range passes
// through. Nil means "asset default", which the executor handles.
func resolveDateRange(cfg *models.DateRangeConfig, filterCtx dto.FilterContext, now time.Time) *dto.DateRange {
	if filterCtx.DateRange.Start != "" && filterCtx.DateRange.End != "" {
		return &dto.DateRange{Start: filterCtx.DateRange.Start, End: filterCtx.DateRange.End}
	}
	if cfg == nil {
		return nil
	}
	if cfg.Preset != "" {
		if r, ok := resolvePreset(cfg.Preset, now); ok {
			return r
		}
		return nil
	}
	if cfg.StartDate != "" && cfg.EndDate != "" {
		return &dto.DateRange{Start: cfg.StartDate, End: cfg.EndDate}
	}
	return nil
}

func resolvePreset(preset string, now time.Time) (*dto.DateRange, bool) {
	today := now.Format(dateLayout)
	switch preset {
	case dto.DateRangeThisWeek:
		return &dto.DateRange{Start: mondayOfWeek(now).Format(dateLayout), End: today}, true
	case dto.DateRangeThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &dto.DateRange{Start: start.Format(dateLayout), End: today}, true
	case dto.DateRangeLastMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		lastOfPrev := firstOfMonth.AddDate(0, 0, -1)
		firstOfPrev := time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, now.Location())
		return &dto.DateRange{Start: firstOfPrev.Format(dateLayout), End: lastOfPrev.Format(dateLayout)}, true
	case dto.DateRangeThisQuarter:
		return &dto.DateRange{Start: firstOfQuarter(now).Format(dateLayout), End: today}, true
	case dto.DateRangeLastQuarter:
		f, l := prevQuarter(now)
		return &dto.DateRange{Start: f.Format(dateLayout), End: l.Format(dateLayout)}, true
	case dto.DateRangeThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &dto.DateRange{Start: start.Format(dateLayout), End: today}, true
	}
	return nil, false
}

// --- Calendar helpers ---

func firstOfQuarter(t time.Time) time.Time {
	m := int(t.Month())
	qStart := ((m-1)/3)*3 + 1
	return time.Date(t.Year(), time.Month(qStart), 1, 0, 0, 0, 0, t.Location())
}

func prevQuarter(t time.Time) (first, last time.Time) {
	thisFirst := firstOfQuarter(t)
	last = thisFirst.AddDate(0, 0, -1)
	first = firstOfQuarter(last)
	return
}

func mondayOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // ISO: Sunday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
