package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ControlNumberKey is the context key for the record being validated,
	// identified by its 001 control number.
	ControlNumberKey contextKey = "control_number"

	// RuleSourceKey is the context key for the origin of the rule table in
	// effect ("default", a file path, or "request").
	RuleSourceKey contextKey = "rule_source"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithControlNumber adds a record control number to the context.
func WithControlNumber(ctx context.Context, controlNumber string) context.Context {
	return context.WithValue(ctx, ControlNumberKey, controlNumber)
}

// GetControlNumber retrieves the record control number from the context.
func GetControlNumber(ctx context.Context) string {
	if controlNumber, ok := ctx.Value(ControlNumberKey).(string); ok {
		return controlNumber
	}
	return ""
}

// WithRuleSource adds a rule table origin to the context.
func WithRuleSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, RuleSourceKey, source)
}

// GetRuleSource retrieves the rule table origin from the context.
func GetRuleSource(ctx context.Context) string {
	if source, ok := ctx.Value(RuleSourceKey).(string); ok {
		return source
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if controlNumber := GetControlNumber(ctx); controlNumber != "" {
		fields = append(fields, "control_number", controlNumber)
	}
	if source := GetRuleSource(ctx); source != "" {
		fields = append(fields, "rule_source", source)
	}
	return fields
}
