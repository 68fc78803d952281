// Package widgets holds the static widget-type registry, the asset/widget
// compatibility selector, and the resolver that binds a persisted widget to
// render-ready props. Nothing here performs I/O: renderer bindings live in
// the frontend, data fetching in the query executor.
package widgets

import (
	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/shapes"
)

// Widget type keys.
const (
	TypeStatCard        = "stat_card"
	TypeBarChart        = "bar_chart"
	TypeDonutChart      = "donut_chart"
	TypeStackedBarChart = "stacked_bar_chart"
	TypeLineChart       = "line_chart"
	TypeAreaChart       = "area_chart"
	TypeFunnel          = "funnel"
	TypeHeatmap         = "heatmap"
	TypeDataTable       = "data_table"
	TypeLeaderboard     = "leaderboard"
)

// Entry declares one renderable widget kind: its single expected shape and
// display metadata. The table is load-time configuration; adding a widget
// type means adding an entry with a unique key and exactly one shape.
type Entry struct {
	WidgetType    string         `json:"widgetType"`
	ExpectedShape shapes.Kind    `json:"expectedShape"`
	Label         string         `json:"label"`
	Description   string         `json:"description"`
	DefaultSize   dto.WidgetSize `json:"defaultSize"`
}

var registry = []Entry{
	{
		WidgetType:    TypeStatCard,
		ExpectedShape: shapes.KindSingleValue,
		Label:         "Stat card",
		Description:   "A single headline number with an optional period-over-period comparison.",
		DefaultSize:   dto.WidgetSize{W: 3, H: 2, MinW: 2, MinH: 2},
	},
	{
		WidgetType:    TypeBarChart,
		ExpectedShape: shapes.KindCategorical,
		Label:         "Bar chart",
		Description:   "Values grouped by one dimension, largest first.",
		DefaultSize:   dto.WidgetSize{W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		WidgetType:    TypeDonutChart,
		ExpectedShape: shapes.KindCategorical,
		Label:         "Donut chart",
		Description:   "Share of total across one dimension.",
		DefaultSize:   dto.WidgetSize{W: 4, H: 4, MinW: 3, MinH: 3},
	},
	{
		WidgetType:    TypeStackedBarChart,
		ExpectedShape: shapes.KindCategorical,
		Label:         "Stacked bar chart",
		Description:   "Values grouped by one dimension, split into series by a second.",
		DefaultSize:   dto.WidgetSize{W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		WidgetType:    TypeLineChart,
		ExpectedShape: shapes.KindTimeSeries,
		Label:         "Line chart",
		Description:   "Daily trend over the selected date range.",
		DefaultSize:   dto.WidgetSize{W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		WidgetType:    TypeAreaChart,
		ExpectedShape: shapes.KindTimeSeries,
		Label:         "Area chart",
		Description:   "Filled daily trend over the selected date range.",
		DefaultSize:   dto.WidgetSize{W: 6, H: 4, MinW: 4, MinH: 3},
	},
	{
		WidgetType:    TypeFunnel,
		ExpectedShape: shapes.KindFunnelStages,
		Label:         "Funnel",
		Description:   "Pipeline stages with drop-off between them.",
		DefaultSize:   dto.WidgetSize{W: 4, H: 5, MinW: 3, MinH: 4},
	},
	{
		WidgetType:    TypeHeatmap,
		ExpectedShape: shapes.KindMatrix,
		Label:         "Heatmap",
		Description:   "Intensity grid across two dimensions.",
		DefaultSize:   dto.WidgetSize{W: 6, H: 5, MinW: 4, MinH: 4},
	},
	{
		WidgetType:    TypeDataTable,
		ExpectedShape: shapes.KindTabular,
		Label:         "Data table",
		Description:   "Raw rows with column headers, most recent first.",
		DefaultSize:   dto.WidgetSize{W: 8, H: 5, MinW: 6, MinH: 4},
	},
	{
		WidgetType:    TypeLeaderboard,
		ExpectedShape: shapes.KindTabular,
		Label:         "Leaderboard",
		Description:   "Ranked rows for consultant or team standings.",
		DefaultSize:   dto.WidgetSize{W: 4, H: 5, MinW: 3, MinH: 4},
	},
}

// Entries returns the full registry in stable declaration order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// GetEntry looks up a widget type.
func GetEntry(widgetType string) (Entry, bool) {
	for _, e := range registry {
		if e.WidgetType == widgetType {
			return e, true
		}
	}
	return Entry{}, false
}

// ExpectedShape returns the shape a widget type consumes.
func ExpectedShape(widgetType string) (shapes.Kind, bool) {
	e, ok := GetEntry(widgetType)
	if !ok {
		return "", false
	}
	return e.ExpectedShape, true
}
