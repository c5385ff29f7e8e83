package logging

import "context"

type contextKey string

const fieldsKey contextKey = "log_fields"

// Fields are structured attributes added to every log line written with a
// context that carries them.
type Fields struct {
	Component string // e.g. "samwise.syncer"
	RunID     string // one sync pass
	Issue     *int   // issue number
}

// WithFields returns a context carrying fields merged over any already present.
// Empty values do not overwrite.
func WithFields(ctx context.Context, fields Fields) context.Context {
	merged := GetFields(ctx)
	if fields.Component != "" {
		merged.Component = fields.Component
	}
	if fields.RunID != "" {
		merged.RunID = fields.RunID
	}
	if fields.Issue != nil {
		merged.Issue = fields.Issue
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// GetFields returns the fields carried by ctx.
func GetFields(ctx context.Context) Fields {
	if fields, ok := ctx.Value(fieldsKey).(Fields); ok {
		return fields
	}
	return Fields{}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
