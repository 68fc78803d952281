package shapes

// Shape guards narrow an unknown payload to a concrete shape. They accept
// the typed structs from this package (by value or pointer) as well as
// map[string]any payloads decoded from JSON or Firestore documents.
//
// Guards are total: they never panic and return false for any malformed or
// wrong-shape input. A failed guard means "no renderable data", not an error.
// The "_shape" discriminant is authoritative; structurally similar payloads
// from another kind (a Tabular with row data, say) never satisfy a Matrix
// guard.

// KindOf classifies a payload, returning "" when no guard accepts it.
func KindOf(payload any) Kind {
	switch {
	case IsSingleValue(payload):
		return KindSingleValue
	case IsCategorical(payload):
		return KindCategorical
	case IsTimeSeries(payload):
		return KindTimeSeries
	case IsFunnelStages(payload):
		return KindFunnelStages
	case IsMatrix(payload):
		return KindMatrix
	case IsTabular(payload):
		return KindTabular
	}
	return ""
}

// Satisfies reports whether payload passes the guard for the given kind.
func Satisfies(kind Kind, payload any) bool {
	switch kind {
	case KindSingleValue:
		return IsSingleValue(payload)
	case KindCategorical:
		return IsCategorical(payload)
	case KindTimeSeries:
		return IsTimeSeries(payload)
	case KindFunnelStages:
		return IsFunnelStages(payload)
	case KindMatrix:
		return IsMatrix(payload)
	case KindTabular:
		return IsTabular(payload)
	}
	return false
}

func IsSingleValue(payload any) bool {
	switch v := payload.(type) {
	case SingleValue:
		return v.Shape == KindSingleValue
	case *SingleValue:
		return v != nil && v.Shape == KindSingleValue
	case map[string]any:
		if mapKind(v) != KindSingleValue {
			return false
		}
		if _, ok := asString(v["label"]); !ok {
			return false
		}
		_, ok := asFloat(v["value"])
		return ok
	}
	return false
}

func IsCategorical(payload any) bool {
	switch v := payload.(type) {
	case Categorical:
		return v.Shape == KindCategorical && v.Categories != nil
	case *Categorical:
		return v != nil && v.Shape == KindCategorical && v.Categories != nil
	case map[string]any:
		if mapKind(v) != KindCategorical {
			return false
		}
		items, ok := asSlice(v["categories"])
		if !ok {
			return false
		}
		for _, item := range items {
			if !isLabeledValue(item) {
				return false
			}
		}
		return true
	}
	return false
}

func IsTimeSeries(payload any) bool {
	switch v := payload.(type) {
	case TimeSeries:
		return v.Shape == KindTimeSeries && v.Series != nil
	case *TimeSeries:
		return v != nil && v.Shape == KindTimeSeries && v.Series != nil
	case map[string]any:
		if mapKind(v) != KindTimeSeries {
			return false
		}
		lines, ok := asSlice(v["series"])
		if !ok {
			return false
		}
		for _, line := range lines {
			m, ok := line.(map[string]any)
			if !ok {
				return false
			}
			if _, ok := asString(m["name"]); !ok {
				return false
			}
			points, ok := asSlice(m["data"])
			if !ok {
				return false
			}
			for _, p := range points {
				pm, ok := p.(map[string]any)
				if !ok {
					return false
				}
				if _, ok := asString(pm["date"]); !ok {
					return false
				}
				if _, ok := asFloat(pm["value"]); !ok {
					return false
				}
			}
		}
		return true
	}
	return false
}

func IsFunnelStages(payload any) bool {
	switch v := payload.(type) {
	case FunnelStages:
		return v.Shape == KindFunnelStages && v.Stages != nil
	case *FunnelStages:
		return v != nil && v.Shape == KindFunnelStages && v.Stages != nil
	case map[string]any:
		if mapKind(v) != KindFunnelStages {
			return false
		}
		stages, ok := asSlice(v["stages"])
		if !ok {
			return false
		}
		for _, stage := range stages {
			m, ok := stage.(map[string]any)
			if !ok {
				return false
			}
			if _, ok := asString(m["label"]); !ok {
				return false
			}
			if _, ok := asFloat(m["value"]); !ok {
				return false
			}
			if _, ok := asFloat(m["order"]); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func IsMatrix(payload any) bool {
	switch v := payload.(type) {
	case Matrix:
		return validMatrix(v)
	case *Matrix:
		return v != nil && validMatrix(*v)
	case map[string]any:
		if mapKind(v) != KindMatrix {
			return false
		}
		rows, ok := asStringSlice(v["rows"])
		if !ok {
			return false
		}
		columns, ok := asStringSlice(v["columns"])
		if !ok {
			return false
		}
		values, ok := asSlice(v["values"])
		if !ok || len(values) != len(rows) {
			return false
		}
		for _, row := range values {
			cells, ok := asSlice(row)
			if !ok || len(cells) != len(columns) {
				return false
			}
			for _, cell := range cells {
				if _, ok := asFloat(cell); !ok {
					return false
				}
			}
		}
		return true
	}
	return false
}

func validMatrix(m Matrix) bool {
	if m.Shape != KindMatrix {
		return false
	}
	if len(m.Values) != len(m.Rows) {
		return false
	}
	for _, row := range m.Values {
		if len(row) != len(m.Columns) {
			return false
		}
	}
	return true
}

func IsTabular(payload any) bool {
	switch v := payload.(type) {
	case Tabular:
		return v.Shape == KindTabular && v.Columns != nil
	case *Tabular:
		return v != nil && v.Shape == KindTabular && v.Columns != nil
	case map[string]any:
		if mapKind(v) != KindTabular {
			return false
		}
		columns, ok := asSlice(v["columns"])
		if !ok {
			return false
		}
		for _, col := range columns {
			m, ok := col.(map[string]any)
			if !ok {
				return false
			}
			if _, ok := asString(m["key"]); !ok {
				return false
			}
			if _, ok := asString(m["label"]); !ok {
				return false
			}
		}
		rows, ok := asSlice(v["rows"])
		if !ok {
			return false
		}
		for _, row := range rows {
			if _, ok := row.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// --- dynamic value helpers ---

func mapKind(m map[string]any) Kind {
	s, ok := asString(m["_shape"])
	if !ok {
		return ""
	}
	return Kind(s)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asFloat accepts the numeric types JSON decoding and Firestore produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asStringSlice(v any) ([]string, bool) {
	raw, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := asString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func isLabeledValue(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := asString(m["label"]); !ok {
		return false
	}
	_, ok = asFloat(m["value"])
	return ok
}
