package models

import (
	"time"

	"github.com/talentview/recruit-backend/internal/shapes"
)

// AssetCategory groups data assets for listing and prompt building.
type AssetCategory string

const (
	CategoryRevenue     AssetCategory = "revenue"
	CategoryActivity    AssetCategory = "activity"
	CategoryPipeline    AssetCategory = "pipeline"
	CategoryPerformance AssetCategory = "performance"
	CategoryEngagement  AssetCategory = "engagement"
)

// AssetCategoryList is the closed category set, used for validation and for
// the AI tool schema enum.
var AssetCategoryList = []string{
	string(CategoryRevenue),
	string(CategoryActivity),
	string(CategoryPipeline),
	string(CategoryPerformance),
	string(CategoryEngagement),
}

func IsAssetCategoryAllowed(category string) bool {
	for _, c := range AssetCategoryList {
		if c == category {
			return true
		}
	}
	return false
}

// QueryTemplate tells the executor which activity rows feed an asset and how
// to aggregate them. It is opaque to everything outside the executor.
type QueryTemplate struct {
	ActivityTypes []string          `firestore:"activityTypes" json:"activityTypes"` // source row filter; empty = all
	Measure       string            `firestore:"measure" json:"measure"`             // "count" or "sum_value"
	StageOrder    []string          `firestore:"stageOrder,omitempty" json:"stageOrder,omitempty"`
	BaseFilters   map[string]string `firestore:"baseFilters,omitempty" json:"baseFilters,omitempty"`
}

const (
	MeasureCount    = "count"
	MeasureSumValue = "sum_value"
)

// DataAsset is a named abstract metric, decoupled from any visualization.
// AssetKey is immutable after creation: widgets and the AI's structured
// output reference it. Assets are soft-disabled via IsActive, never deleted
// while referenced.
type DataAsset struct {
	ID                  string        `firestore:"id" json:"id"`
	AssetKey            string        `firestore:"assetKey" json:"assetKey"`
	DisplayName         string        `firestore:"displayName" json:"displayName"`
	Description         string        `firestore:"description,omitempty" json:"description,omitempty"`
	Category            AssetCategory `firestore:"category" json:"category"`
	Synonyms            []string      `firestore:"synonyms" json:"synonyms"`
	OutputShapes        []shapes.Kind `firestore:"outputShapes" json:"outputShapes"`
	AvailableDimensions []string      `firestore:"availableDimensions" json:"availableDimensions"`
	AvailableFilters    []string      `firestore:"availableFilters" json:"availableFilters"`
	QueryTemplate       QueryTemplate `firestore:"queryTemplate" json:"queryTemplate"`
	IsActive            bool          `firestore:"isActive" json:"isActive"`
	CreatedAt           time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

// SupportsShape reports whether the asset declares the given output shape.
func (a *DataAsset) SupportsShape(kind shapes.Kind) bool {
	for _, s := range a.OutputShapes {
		if s == kind {
			return true
		}
	}
	return false
}
