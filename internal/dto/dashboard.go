package dto

import (
	"time"

	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
)

// Date range presets shared by widget configs and the dashboard filter bar.
const (
	DateRangeThisWeek    = "thisWeek"
	DateRangeThisMonth   = "thisMonth"
	DateRangeLastMonth   = "lastMonth"
	DateRangeThisQuarter = "thisQuarter"
	DateRangeLastQuarter = "lastQuarter"
	DateRangeThisYear    = "thisYear"
)

// --- Request types ---

type CreateDashboardRequest struct {
	Name string `json:"name"`
}

type CreateWidgetRequest struct {
	AssetKey   string              `json:"assetKey"`
	WidgetType string              `json:"widgetType"`
	Parameters map[string]any      `json:"parameters,omitempty"`
	Config     models.WidgetConfig `json:"config"`
	Position   *models.Position    `json:"position,omitempty"`
}

type UpdateWidgetRequest struct {
	Parameters map[string]any       `json:"parameters,omitempty"`
	Config     *models.WidgetConfig `json:"config,omitempty"`
	Position   *models.Position     `json:"position,omitempty"`
}

type LayoutItem struct {
	WidgetID string          `json:"widgetId"`
	Position models.Position `json:"position"`
}

type UpdateLayoutRequest struct {
	Layout []LayoutItem `json:"layout"`
}

// --- Widget resolution types ---

// WidgetSize is a registry entry's default grid sizing.
type WidgetSize struct {
	W    int `json:"w"`
	H    int `json:"h"`
	MinW int `json:"minW"`
	MinH int `json:"minH"`
}

// WidgetParameters are the stored per-widget query overrides, decoded from
// the widget's parameters map. Unknown keys in the map are ignored.
type WidgetParameters struct {
	Dimension          string `mapstructure:"dimension"`
	SecondaryDimension string `mapstructure:"secondaryDimension"`
	Limit              int    `mapstructure:"limit"`
	ConsultantID       string `mapstructure:"consultantId"`
	TeamID             string `mapstructure:"teamId"`
	Region             string `mapstructure:"region"`
	Stage              string `mapstructure:"stage"`
	ClientName         string `mapstructure:"clientName"`
	ActivityType       string `mapstructure:"activityType"`
	SortBy             string `mapstructure:"sortBy"`
	SortDesc           bool   `mapstructure:"sortDesc"`
}

// WidgetProps is the render-ready binding of a persisted widget: merged
// display config, sizing, and the query the data fetch will run. Building
// props never fetches data.
type WidgetProps struct {
	WidgetID   string              `json:"widgetId"`
	WidgetType string              `json:"widgetType"`
	Label      string              `json:"label"`
	Shape      shapes.Kind         `json:"shape"`
	Size       WidgetSize          `json:"size"`
	Position   models.Position     `json:"position"`
	Config     models.WidgetConfig `json:"config"`
	Query      QueryParameters     `json:"query"`
}

// --- Response types ---

// ResolvedWidget is one widget of a dashboard render. Exactly one of Props
// and Error is set; a widget that failed to resolve is a placeholder and
// never suppresses its siblings.
type ResolvedWidget struct {
	WidgetID string       `json:"widgetId"`
	Props    *WidgetProps `json:"props,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type DashboardResponse struct {
	Dashboard *models.Dashboard `json:"dashboard"`
	Widgets   []ResolvedWidget  `json:"widgets"`
}

type WidgetDataResponse struct {
	WidgetID    string        `json:"widgetId"`
	Data        any           `json:"data"`
	Metadata    QueryMetadata `json:"metadata"`
	LastUpdated time.Time     `json:"lastUpdated"`
}
