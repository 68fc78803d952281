package models

import "time"

// Dashboard is a named collection of widgets owned by one user.
type Dashboard struct {
	DashboardID string    `firestore:"dashboardId" json:"dashboardId"`
	Name        string    `firestore:"name" json:"name"`
	IsDefault   bool      `firestore:"isDefault" json:"isDefault"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Widget binds a data asset to a widget type with stored configuration.
// WidgetType's expected shape must be one of the asset's output shapes at
// creation time; the compatibility selector enforces that, not storage.
type Widget struct {
	WidgetID    string         `firestore:"widgetId" json:"widgetId"`
	DashboardID string         `firestore:"dashboardId" json:"dashboardId"`
	AssetKey    string         `firestore:"assetKey" json:"assetKey"`
	WidgetType  string         `firestore:"widgetType" json:"widgetType"`
	Parameters  map[string]any `firestore:"parameters,omitempty" json:"parameters,omitempty"`
	Config      WidgetConfig   `firestore:"config" json:"config"`
	Position    Position       `firestore:"position" json:"position"`
	CreatedAt   time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

// WidgetConfig holds presentational settings. Not every field applies to
// every widget type; the resolver merges what the type understands.
type WidgetConfig struct {
	Title        string           `firestore:"title,omitempty" json:"title,omitempty"`
	Color        string           `firestore:"color,omitempty" json:"color,omitempty"`
	ChartVariant string           `firestore:"chartVariant,omitempty" json:"chartVariant,omitempty"` // e.g. "smooth", "stepped"
	Format       string           `firestore:"format,omitempty" json:"format,omitempty"`
	TargetValue  *float64         `firestore:"targetValue,omitempty" json:"targetValue,omitempty"`
	DateRange    *DateRangeConfig `firestore:"dateRange,omitempty" json:"dateRange,omitempty"`
}

// DateRangeConfig is either a named preset or an explicit custom range.
type DateRangeConfig struct {
	Preset    string `firestore:"preset,omitempty" json:"preset,omitempty"`
	StartDate string `firestore:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   string `firestore:"endDate,omitempty" json:"endDate,omitempty"`
}

// Position is the widget's grid placement and size.
type Position struct {
	X int `firestore:"x" json:"x"`
	Y int `firestore:"y" json:"y"`
	W int `firestore:"w" json:"w"`
	H int `firestore:"h" json:"h"`
}
