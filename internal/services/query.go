package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/pkg/helpers"
	"github.com/talentview/recruit-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// defaultWindowDays is the query window applied when no date range is given.
const defaultWindowDays = 30

type queryCatalog interface {
	GetAsset(ctx context.Context, assetKey string) (*models.DataAsset, error)
}

type queryActivityStore interface {
	Query(ctx context.Context, q dto.ActivityQuery) (<-chan *models.Activity, <-chan error)
}

// QueryService executes data asset queries: it resolves the asset, checks the
// requested shape against the asset's declared output shapes, translates the
// asset's query template plus caller filters into a row scan, and serializes
// the rows into the requested shape. Validation always runs before any rows
// are fetched, so an unsupported shape never costs a backend read.
type QueryService struct {
	catalog    queryCatalog
	activities queryActivityStore
	now        func() time.Time
}

func NewQueryService(catalog queryCatalog, activities queryActivityStore) *QueryService {
	return &QueryService{
		catalog:    catalog,
		activities: activities,
		now:        time.Now,
	}
}

// QueryDataAsset runs one query and returns a payload guaranteed to satisfy
// the guard for params.Shape. Unknown filter and dimension names are ignored;
// malformed values fail with InvalidFilterError before any fetch.
func (s *QueryService) QueryDataAsset(ctx context.Context, params dto.QueryParameters) (dto.QueryResult, error) {
	started := s.now()
	log := logger.FromContext(ctx)

	asset, err := s.catalog.GetAsset(ctx, params.AssetKey)
	if err != nil {
		return dto.QueryResult{}, err
	}
	if !asset.SupportsShape(params.Shape) {
		return dto.QueryResult{}, errs.NewUnsupportedShapeError(asset.AssetKey, string(params.Shape))
	}
	if params.Limit < 0 {
		return dto.QueryResult{}, errs.NewInvalidFilterError("limit", "must not be negative")
	}
	if params.Offset < 0 {
		return dto.QueryResult{}, errs.NewInvalidFilterError("offset", "must not be negative")
	}
	if params.Offset > 0 && params.Limit == 0 {
		return dto.QueryResult{}, errs.NewInvalidFilterError("offset", "requires a limit")
	}

	dateRange, err := s.resolveRange(params.DateRange)
	if err != nil {
		return dto.QueryResult{}, err
	}

	aq := buildActivityQuery(asset.QueryTemplate, params.Filters, dateRange)
	if params.Shape == shapes.KindTabular {
		// Most recent first unless the caller asked for an explicit order.
		aq.Desc = true
		if params.SortBy != "" {
			aq.OrderBy = params.SortBy
			aq.Desc = params.SortDesc
		}
	}

	records, err := s.collect(ctx, aq)
	if err != nil {
		log.Error("data asset query failed", "asset_key", asset.AssetKey, "error", err)
		return dto.QueryResult{}, errs.NewQueryExecutionError(
			fmt.Sprintf("query for data asset %q failed", asset.AssetKey), err)
	}

	var data any
	switch params.Shape {
	case shapes.KindSingleValue:
		data, err = s.shapeSingleValue(ctx, asset, params.Filters, dateRange, records)
	case shapes.KindCategorical:
		data = shapeCategorical(asset, params, records)
	case shapes.KindTimeSeries:
		data, err = shapeTimeSeries(asset, dateRange, records)
	case shapes.KindFunnelStages:
		data = shapeFunnel(asset, records)
	case shapes.KindMatrix:
		data = shapeMatrix(asset, params, records)
	case shapes.KindTabular:
		data = shapeTabular(asset, params, records)
	default:
		// SupportsShape only passes kinds the asset declares, and assets only
		// declare valid kinds; this is unreachable for a well-formed catalog.
		return dto.QueryResult{}, errs.NewUnsupportedShapeError(asset.AssetKey, string(params.Shape))
	}
	if err != nil {
		return dto.QueryResult{}, err
	}

	return dto.QueryResult{
		Data: data,
		Metadata: dto.QueryMetadata{
			RecordCount: len(records),
			QueryTimeMs: s.now().Sub(started).Milliseconds(),
		},
	}, nil
}

// resolveRange validates the caller's range or falls back to the default
// trailing window ending today.
func (s *QueryService) resolveRange(dr *dto.DateRange) (dto.DateRange, error) {
	if dr == nil || (dr.Start == "" && dr.End == "") {
		end := s.now()
		start := end.AddDate(0, 0, -(defaultWindowDays - 1))
		return dto.DateRange{
			Start: start.Format(dateLayout),
			End:   end.Format(dateLayout),
		}, nil
	}

	start, err := time.Parse(dateLayout, dr.Start)
	if err != nil {
		return dto.DateRange{}, errs.NewInvalidFilterError("dateRange", "start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, dr.End)
	if err != nil {
		return dto.DateRange{}, errs.NewInvalidFilterError("dateRange", "end must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return dto.DateRange{}, errs.NewInvalidFilterError("dateRange", "end precedes start")
	}
	return *dr, nil
}

// buildActivityQuery translates a query template plus caller filters into a
// row scan. Template base filters apply first; caller filters override them.
// Filter names outside the known set are dropped.
func buildActivityQuery(tpl models.QueryTemplate, filters map[string]string, dr dto.DateRange) dto.ActivityQuery {
	aq := dto.ActivityQuery{
		Types:    tpl.ActivityTypes,
		DateFrom: &dr.Start,
		DateTo:   &dr.End,
	}

	merged := map[string]string{}
	for name, value := range tpl.BaseFilters {
		merged[name] = value
	}
	for name, value := range filters {
		merged[name] = value
	}

	for name, value := range merged {
		if value == "" {
			continue
		}
		switch name {
		case dto.FilterConsultantID:
			aq.ConsultantID = helpers.Ptr(value)
		case dto.FilterTeamID:
			aq.TeamID = helpers.Ptr(value)
		case dto.FilterRegion:
			aq.Region = helpers.Ptr(value)
		case dto.FilterClientName:
			aq.ClientName = helpers.Ptr(value)
		case dto.FilterStage:
			aq.Stage = helpers.Ptr(value)
		case dto.FilterActivityType:
			if len(tpl.ActivityTypes) == 0 || containsString(tpl.ActivityTypes, value) {
				aq.Types = []string{value}
			}
		}
	}
	return aq
}

// collect drains the store's streaming query into a slice.
func (s *QueryService) collect(ctx context.Context, aq dto.ActivityQuery) ([]*models.Activity, error) {
	rows, errCh := s.activities.Query(ctx, aq)

	var out []*models.Activity
	for rows != nil || errCh != nil {
		select {
		case a, ok := <-rows:
			if !ok {
				rows = nil
				continue
			}
			out = append(out, a)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// --- Shape serializers ---

func (s *QueryService) shapeSingleValue(ctx context.Context, asset *models.DataAsset, filters map[string]string, dr dto.DateRange, records []*models.Activity) (shapes.SingleValue, error) {
	total := aggregate(records, asset.QueryTemplate.Measure)

	sv := shapes.NewSingleValue(asset.DisplayName, total)
	sv.Format = formatForMeasure(asset.QueryTemplate.Measure)

	prior, days, ok, err := s.priorPeriodTotal(ctx, asset, filters, dr)
	if err != nil {
		return shapes.SingleValue{}, err
	}
	if ok {
		sv.Comparison = buildComparison(total, prior, days)
	}
	return sv, nil
}

// priorPeriodTotal aggregates the equal-length period immediately preceding
// the queried range. ok is false when the range cannot be parsed (the default
// range always can).
func (s *QueryService) priorPeriodTotal(ctx context.Context, asset *models.DataAsset, filters map[string]string, dr dto.DateRange) (total float64, days int, ok bool, err error) {
	start, errStart := time.Parse(dateLayout, dr.Start)
	end, errEnd := time.Parse(dateLayout, dr.End)
	if errStart != nil || errEnd != nil {
		return 0, 0, false, nil
	}

	days = int(end.Sub(start).Hours()/24) + 1
	priorEnd := start.AddDate(0, 0, -1)
	priorStart := priorEnd.AddDate(0, 0, -(days - 1))
	priorRange := dto.DateRange{
		Start: priorStart.Format(dateLayout),
		End:   priorEnd.Format(dateLayout),
	}

	aq := buildActivityQuery(asset.QueryTemplate, filters, priorRange)
	records, err := s.collect(ctx, aq)
	if err != nil {
		return 0, 0, false, errs.NewQueryExecutionError(
			fmt.Sprintf("comparison query for data asset %q failed", asset.AssetKey), err)
	}
	return aggregate(records, asset.QueryTemplate.Measure), days, true, nil
}

func buildComparison(current, prior float64, days int) *shapes.Comparison {
	c := &shapes.Comparison{
		Direction: shapes.DirectionNeutral,
		Label:     fmt.Sprintf("vs previous %d days", days),
	}
	switch {
	case current > prior:
		c.Direction = shapes.DirectionUp
	case current < prior:
		c.Direction = shapes.DirectionDown
	}
	if prior != 0 {
		delta := (current - prior) / prior
		c.Value = &delta
	}
	return c
}

func shapeCategorical(asset *models.DataAsset, params dto.QueryParameters, records []*models.Activity) shapes.Categorical {
	dims := effectiveDimensions(asset, params.Dimensions, 1)
	measure := asset.QueryTemplate.Measure

	totals := map[string]float64{}
	for _, a := range records {
		key := dimensionValue(a, dims[0])
		if key == "" {
			continue
		}
		totals[key] += measureValue(a, measure)
	}

	categories := sortedPoints(totals)
	if params.Limit > 0 && len(categories) > params.Limit {
		// Excess categories are dropped outright; aggregating them into an
		// "other" bucket would misstate per-category comparisons.
		categories = categories[:params.Limit]
	}

	out := shapes.NewCategorical(categories)
	out.Format = formatForMeasure(measure)

	if len(params.Dimensions) >= 2 {
		out.Series = categoricalSeries(records, categories, dims[0], params.Dimensions[1], measure)
	}
	return out
}

// categoricalSeries splits the top categories across a secondary dimension
// for stacked variants. Every series is aligned to the same category labels;
// rows whose primary value was truncated out of the top categories are
// dropped with them.
func categoricalSeries(records []*models.Activity, categories []shapes.CategoryPoint, primary, secondary, measure string) []shapes.CategorySeries {
	index := map[string]int{}
	for i, c := range categories {
		index[c.Label] = i
	}

	bySeries := map[string][]float64{}
	for _, a := range records {
		name := dimensionValue(a, secondary)
		if name == "" {
			continue
		}
		i, ok := index[dimensionValue(a, primary)]
		if !ok {
			continue
		}
		if bySeries[name] == nil {
			bySeries[name] = make([]float64, len(categories))
		}
		bySeries[name][i] += measureValue(a, measure)
	}

	names := make([]string, 0, len(bySeries))
	for name := range bySeries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]shapes.CategorySeries, 0, len(names))
	for _, name := range names {
		points := make([]shapes.CategoryPoint, len(categories))
		for i, c := range categories {
			points[i] = shapes.CategoryPoint{Label: c.Label, Value: bySeries[name][i]}
		}
		out = append(out, shapes.CategorySeries{Name: name, Data: points})
	}
	return out
}

func shapeTimeSeries(asset *models.DataAsset, dr dto.DateRange, records []*models.Activity) (shapes.TimeSeries, error) {
	start, err := time.Parse(dateLayout, dr.Start)
	if err != nil {
		return shapes.TimeSeries{}, errs.NewInvalidFilterError("dateRange", "start must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, dr.End)
	if err != nil {
		return shapes.TimeSeries{}, errs.NewInvalidFilterError("dateRange", "end must be YYYY-MM-DD")
	}

	measure := asset.QueryTemplate.Measure
	byDay := map[string]float64{}
	for _, a := range records {
		byDay[a.Date] += measureValue(a, measure)
	}

	// One point per day in the range; days with no rows are zero, not absent.
	var points []shapes.TimePoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(dateLayout)
		points = append(points, shapes.TimePoint{Date: day, Value: byDay[day]})
	}

	out := shapes.NewTimeSeries([]shapes.TimeSeriesLine{
		{Name: asset.DisplayName, Data: points},
	})
	out.Format = formatForMeasure(measure)
	return out, nil
}

func shapeFunnel(asset *models.DataAsset, records []*models.Activity) shapes.FunnelStages {
	stageOrder := asset.QueryTemplate.StageOrder
	if len(stageOrder) == 0 {
		stageOrder = []string{
			models.StageSourced, models.StageContacted,
			models.StageInterviewed, models.StageOffered, models.StagePlaced,
		}
	}

	measure := asset.QueryTemplate.Measure
	byStage := map[string]float64{}
	for _, a := range records {
		byStage[a.Stage] += measureValue(a, measure)
	}

	stages := make([]shapes.FunnelStage, 0, len(stageOrder))
	for i, stage := range stageOrder {
		stages = append(stages, shapes.FunnelStage{
			Label: stage,
			Value: byStage[stage],
			Order: i,
		})
	}
	return shapes.NewFunnelStages(stages)
}

func shapeMatrix(asset *models.DataAsset, params dto.QueryParameters, records []*models.Activity) shapes.Matrix {
	dims := effectiveDimensions(asset, params.Dimensions, 2)
	rowDim, colDim := dims[0], dims[1]
	measure := asset.QueryTemplate.Measure

	cells := map[string]map[string]float64{}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}
	for _, a := range records {
		r := dimensionValue(a, rowDim)
		c := dimensionValue(a, colDim)
		if r == "" || c == "" {
			continue
		}
		if cells[r] == nil {
			cells[r] = map[string]float64{}
		}
		cells[r][c] += measureValue(a, measure)
		rowSet[r] = struct{}{}
		colSet[c] = struct{}{}
	}

	rows := sortedKeys(rowSet)
	columns := sortedKeys(colSet)

	// Dense grid: every row has exactly one cell per column, missing
	// combinations are zero.
	values := make([][]float64, len(rows))
	for i, r := range rows {
		values[i] = make([]float64, len(columns))
		for j, c := range columns {
			values[i][j] = cells[r][c]
		}
	}

	out := shapes.NewMatrix(rows, columns, values)
	out.Format = formatForMeasure(measure)
	return out
}

func shapeTabular(asset *models.DataAsset, params dto.QueryParameters, records []*models.Activity) shapes.Tabular {
	columns := tabularColumns(asset)

	rows := make([]map[string]any, 0, len(records))
	for _, a := range records {
		rows = append(rows, map[string]any{
			"date":       a.Date,
			"consultant": a.ConsultantID,
			"type":       a.Type,
			"candidate":  a.Candidate,
			"client":     a.ClientName,
			"jobTitle":   a.JobTitle,
			"value":      a.Value,
		})
	}

	out := shapes.NewTabular(columns, rows)
	out.TotalRows = len(rows)

	if params.Limit > 0 {
		offset := params.Offset
		if offset > len(rows) {
			offset = len(rows)
		}
		endIdx := offset + params.Limit
		if endIdx > len(rows) {
			endIdx = len(rows)
		}
		out.Rows = rows[offset:endIdx]
		out.Pagination = &shapes.Pagination{
			Page:       offset/params.Limit + 1,
			TotalPages: (len(rows) + params.Limit - 1) / params.Limit,
		}
	}
	return out
}

func tabularColumns(asset *models.DataAsset) []shapes.TableColumn {
	valueFormat := formatForMeasure(asset.QueryTemplate.Measure)
	return []shapes.TableColumn{
		{Key: "date", Label: "Date"},
		{Key: "consultant", Label: "Consultant"},
		{Key: "type", Label: "Activity"},
		{Key: "candidate", Label: "Candidate"},
		{Key: "client", Label: "Client"},
		{Key: "jobTitle", Label: "Job Title"},
		{Key: "value", Label: "Value", Format: valueFormat},
	}
}

// --- Aggregation helpers ---

func aggregate(records []*models.Activity, measure string) float64 {
	var total float64
	for _, a := range records {
		total += measureValue(a, measure)
	}
	return total
}

func measureValue(a *models.Activity, measure string) float64 {
	if measure == models.MeasureSumValue {
		return a.Value
	}
	return 1
}

func formatForMeasure(measure string) shapes.Format {
	if measure == models.MeasureSumValue {
		return shapes.FormatCurrency
	}
	return shapes.FormatNumber
}

// dimensionValue maps a dimension name to the record field it groups by.
// Unknown dimensions yield "", so their rows fall out of grouped shapes.
func dimensionValue(a *models.Activity, dimension string) string {
	switch dimension {
	case dto.DimensionConsultant:
		return a.ConsultantID
	case dto.DimensionTeam:
		return a.TeamID
	case dto.DimensionRegion:
		return a.Region
	case dto.DimensionClient:
		return a.ClientName
	case dto.DimensionStage:
		return a.Stage
	case dto.DimensionActivityType:
		return a.Type
	case dto.DimensionJobTitle:
		return a.JobTitle
	case dto.DimensionDay:
		return a.Date
	}
	return ""
}

// effectiveDimensions fills in asset defaults when the caller requested fewer
// dimensions than the shape needs.
func effectiveDimensions(asset *models.DataAsset, requested []string, want int) []string {
	dims := make([]string, 0, want)
	dims = append(dims, requested...)
	for _, d := range asset.AvailableDimensions {
		if len(dims) >= want {
			break
		}
		if !containsString(dims, d) {
			dims = append(dims, d)
		}
	}
	for _, d := range []string{dto.DimensionConsultant, dto.DimensionDay} {
		if len(dims) >= want {
			break
		}
		if !containsString(dims, d) {
			dims = append(dims, d)
		}
	}
	return dims[:want]
}

func sortedPoints(totals map[string]float64) []shapes.CategoryPoint {
	points := make([]shapes.CategoryPoint, 0, len(totals))
	for label, value := range totals {
		points = append(points, shapes.CategoryPoint{Label: label, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
	return points
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
