package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError covers generic missing resources (widgets, dashboards, profiles).
type NotFoundError struct {
	ErrorMessage
}

// AssetNotFoundError is a registry miss on a data asset key. Inactive assets
// resolve to this as well; callers must not learn whether the key ever existed.
type AssetNotFoundError struct {
	ErrorMessage
	AssetKey string
}

// UnsupportedShapeError means a query asked an asset for a shape the asset
// does not declare in its output shapes.
type UnsupportedShapeError struct {
	ErrorMessage
	AssetKey string
	Shape    string
}

// InvalidFilterError names the filter field carrying a malformed value.
type InvalidFilterError struct {
	ErrorMessage
	Field string
}

// UnknownWidgetTypeError is a widget registry miss during resolution.
type UnknownWidgetTypeError struct {
	ErrorMessage
	WidgetType string
}

// QueryExecutionError wraps a backend failure during a data asset query.
// The cause is kept for logs, never for the response body.
type QueryExecutionError struct {
	ErrorMessage
	Cause error
}

func (e *QueryExecutionError) Unwrap() error { return e.Cause }

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// DatabaseError is the store layer's failure type; Operation is one of
// create/read/update/delete.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Cause     error
}

func (e *DatabaseError) Unwrap() error { return e.Cause }

type MalformedFunctionCallError struct {
	ErrorMessage
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAssetNotFoundError(assetKey string) *AssetNotFoundError {
	return &AssetNotFoundError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("data asset %q not found", assetKey)},
		AssetKey:     assetKey,
	}
}

func NewUnsupportedShapeError(assetKey, shape string) *UnsupportedShapeError {
	return &UnsupportedShapeError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("data asset %q does not produce shape %q", assetKey, shape)},
		AssetKey:     assetKey,
		Shape:        shape,
	}
}

func NewInvalidFilterError(field, message string) *InvalidFilterError {
	return &InvalidFilterError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("invalid filter %q: %s", field, message)},
		Field:        field,
	}
}

func NewUnknownWidgetTypeError(widgetType string) *UnknownWidgetTypeError {
	return &UnknownWidgetTypeError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("unknown widget type %q", widgetType)},
		WidgetType:   widgetType,
	}
}

func NewQueryExecutionError(message string, cause error) *QueryExecutionError {
	return &QueryExecutionError{
		ErrorMessage: ErrorMessage{Message: message},
		Cause:        cause,
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, cause error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Cause:        cause,
	}
}

func NewMalformedFunctionCallError() *MalformedFunctionCallError {
	return &MalformedFunctionCallError{
		ErrorMessage: ErrorMessage{Message: "malformed function call"},
	}
}
