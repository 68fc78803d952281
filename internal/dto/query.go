package dto

import (
	"github.com/talentview/recruit-backend/internal/shapes"
)

// Known filter names accepted by the executor. Anything else in a Filters
// map is ignored rather than rejected, so stored widget parameters survive
// catalog evolution.
const (
	FilterConsultantID = "consultantId"
	FilterTeamID       = "teamId"
	FilterRegion       = "region"
	FilterClientName   = "clientName"
	FilterStage        = "stage"
	FilterActivityType = "activityType"
)

// Dimension names assets can group by.
const (
	DimensionConsultant   = "consultant"
	DimensionTeam         = "team"
	DimensionRegion       = "region"
	DimensionClient       = "client"
	DimensionStage        = "stage"
	DimensionActivityType = "activityType"
	DimensionJobTitle     = "jobTitle"
	DimensionDay          = "day"
)

// DateRange is an inclusive YYYY-MM-DD range.
type DateRange struct {
	Start string `json:"start" mapstructure:"start"`
	End   string `json:"end" mapstructure:"end"`
}

// FilterContext carries the dashboard's live global filters. It is threaded
// explicitly through resolution and querying; nothing reads it from ambient
// state.
type FilterContext struct {
	DateRange    DateRange `json:"dateRange"`
	Scope        string    `json:"scope,omitempty"` // self|team|region|national
	ConsultantID string    `json:"consultantId,omitempty"`
	TeamID       string    `json:"teamId,omitempty"`
	Region       string    `json:"region,omitempty"`
}

// QueryParameters is the executor's sole input: which asset, which of its
// shapes, and how to slice it.
type QueryParameters struct {
	AssetKey   string            `json:"assetKey"`
	Shape      shapes.Kind       `json:"shape"`
	DateRange  *DateRange        `json:"dateRange,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Dimensions []string          `json:"dimensions,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Offset     int               `json:"offset,omitempty"`
	SortBy     string            `json:"sortBy,omitempty"`
	SortDesc   bool              `json:"sortDesc,omitempty"`
}

// QueryMetadata describes how a payload was produced.
type QueryMetadata struct {
	RecordCount int   `json:"recordCount"`
	QueryTimeMs int64 `json:"queryTimeMs"`
}

// QueryResult pairs a fully shaped payload with its metadata. Data always
// satisfies the guard for the requested shape; the executor never returns a
// partially shaped payload.
type QueryResult struct {
	Data     any           `json:"data"`
	Metadata QueryMetadata `json:"metadata"`
}

// ActivityQuery is the activity store's row filter.
type ActivityQuery struct {
	Types        []string
	ConsultantID *string
	TeamID       *string
	Region       *string
	ClientName   *string
	Stage        *string
	DateFrom     *string
	DateTo       *string
	OrderBy      string
	Desc         bool
	Limit        int
}
