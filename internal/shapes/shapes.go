// Package shapes defines the canonical data payload formats a dashboard
// widget can consume. Every payload carries a required "_shape" discriminant;
// the guards in guards.go are the only supported way to narrow a dynamic
// payload to a concrete shape.
package shapes

// Kind discriminates the six canonical payload shapes.
type Kind string

const (
	KindSingleValue  Kind = "single_value"
	KindCategorical  Kind = "categorical"
	KindTimeSeries   Kind = "time_series"
	KindFunnelStages Kind = "funnel_stages"
	KindMatrix       Kind = "matrix"
	KindTabular      Kind = "tabular"
)

// AllKinds returns the closed set of shape kinds in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindSingleValue,
		KindCategorical,
		KindTimeSeries,
		KindFunnelStages,
		KindMatrix,
		KindTabular,
	}
}

// IsValidKind reports whether s names one of the six shapes.
func IsValidKind(s string) bool {
	switch Kind(s) {
	case KindSingleValue, KindCategorical, KindTimeSeries,
		KindFunnelStages, KindMatrix, KindTabular:
		return true
	}
	return false
}

// Format is a presentation hint. Values stay raw floats inside a payload;
// percentage-like values are on a 0-1 scale and formatted at the edge.
type Format string

const (
	FormatNumber     Format = "number"
	FormatCurrency   Format = "currency"
	FormatPercentage Format = "percentage"
	FormatDuration   Format = "duration"
)

// Direction of a period-over-period comparison.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Comparison describes a delta against an equivalent preceding period.
// Value is a fractional change (0.2 = +20%); it is omitted when the prior
// period total was zero and a percentage is undefined.
type Comparison struct {
	Direction Direction `json:"direction" firestore:"direction"`
	Value     *float64  `json:"value,omitempty" firestore:"value,omitempty"`
	Label     string    `json:"label" firestore:"label"`
}

// SingleValue is one headline number, optionally with a comparison.
type SingleValue struct {
	Shape      Kind        `json:"_shape" firestore:"_shape"`
	Label      string      `json:"label" firestore:"label"`
	Value      float64     `json:"value" firestore:"value"`
	Format     Format      `json:"format,omitempty" firestore:"format,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty" firestore:"comparison,omitempty"`
}

func NewSingleValue(label string, value float64) SingleValue {
	return SingleValue{Shape: KindSingleValue, Label: label, Value: value}
}

// CategoryPoint is one labeled value in a categorical payload.
type CategoryPoint struct {
	Label string  `json:"label" firestore:"label"`
	Value float64 `json:"value" firestore:"value"`
}

// CategorySeries is one named series of a multi-series (stacked) categorical
// payload.
type CategorySeries struct {
	Name string          `json:"name" firestore:"name"`
	Data []CategoryPoint `json:"data" firestore:"data"`
}

// Categorical holds values grouped by a single dimension. Series is present
// only for stacked variants; plain charts read Categories.
type Categorical struct {
	Shape      Kind             `json:"_shape" firestore:"_shape"`
	Categories []CategoryPoint  `json:"categories" firestore:"categories"`
	Format     Format           `json:"format,omitempty" firestore:"format,omitempty"`
	Series     []CategorySeries `json:"series,omitempty" firestore:"series,omitempty"`
}

func NewCategorical(categories []CategoryPoint) Categorical {
	return Categorical{Shape: KindCategorical, Categories: categories}
}

// TimePoint is one dated value. Date is an ISO YYYY-MM-DD day bucket.
type TimePoint struct {
	Date  string  `json:"date" firestore:"date"`
	Value float64 `json:"value" firestore:"value"`
}

// TimeSeriesLine is one named line of a time series payload.
type TimeSeriesLine struct {
	Name string      `json:"name" firestore:"name"`
	Data []TimePoint `json:"data" firestore:"data"`
}

// TimeSeries holds one or more lines over a shared date range. Producers
// must emit a point for every day in the range; gaps are zero-filled, never
// omitted, so downstream totals and moving averages stay correct.
type TimeSeries struct {
	Shape  Kind             `json:"_shape" firestore:"_shape"`
	Series []TimeSeriesLine `json:"series" firestore:"series"`
	Format Format           `json:"format,omitempty" firestore:"format,omitempty"`
}

func NewTimeSeries(series []TimeSeriesLine) TimeSeries {
	return TimeSeries{Shape: KindTimeSeries, Series: series}
}

// FunnelStage is one ordered stage of a funnel.
type FunnelStage struct {
	Label string  `json:"label" firestore:"label"`
	Value float64 `json:"value" firestore:"value"`
	Order int     `json:"order" firestore:"order"`
}

// FunnelStages holds pipeline stages in funnel order.
type FunnelStages struct {
	Shape  Kind          `json:"_shape" firestore:"_shape"`
	Stages []FunnelStage `json:"stages" firestore:"stages"`
}

func NewFunnelStages(stages []FunnelStage) FunnelStages {
	return FunnelStages{Shape: KindFunnelStages, Stages: stages}
}

// Matrix is a dense rows x columns grid. Invariant: len(Values) == len(Rows)
// and every Values[i] has len == len(Columns).
type Matrix struct {
	Shape   Kind        `json:"_shape" firestore:"_shape"`
	Rows    []string    `json:"rows" firestore:"rows"`
	Columns []string    `json:"columns" firestore:"columns"`
	Values  [][]float64 `json:"values" firestore:"values"`
	Format  Format      `json:"format,omitempty" firestore:"format,omitempty"`
}

func NewMatrix(rows, columns []string, values [][]float64) Matrix {
	return Matrix{Shape: KindMatrix, Rows: rows, Columns: columns, Values: values}
}

// TableColumn describes one column of a tabular payload.
type TableColumn struct {
	Key    string `json:"key" firestore:"key"`
	Label  string `json:"label" firestore:"label"`
	Format Format `json:"format,omitempty" firestore:"format,omitempty"`
}

// Pagination carries page position for a truncated tabular payload.
type Pagination struct {
	Page       int `json:"page" firestore:"page"`
	TotalPages int `json:"totalPages" firestore:"totalPages"`
}

// Tabular is a raw row pass-through with column metadata.
type Tabular struct {
	Shape      Kind             `json:"_shape" firestore:"_shape"`
	Columns    []TableColumn    `json:"columns" firestore:"columns"`
	Rows       []map[string]any `json:"rows" firestore:"rows"`
	TotalRows  int              `json:"totalRows,omitempty" firestore:"totalRows,omitempty"`
	Pagination *Pagination      `json:"pagination,omitempty" firestore:"pagination,omitempty"`
}

func NewTabular(columns []TableColumn, rows []map[string]any) Tabular {
	return Tabular{Shape: KindTabular, Columns: columns, Rows: rows}
}
