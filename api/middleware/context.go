package middleware

import "context"

type contextKey string

const ctxStaffID contextKey = "staff_id"

// StaffIDFromContext returns the staff member acting on the request, if any.
func StaffIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStaffID).(string); ok {
		return v
	}
	return ""
}

// WithStaffID injects the acting staff identifier into the context.
func WithStaffID(ctx context.Context, staffID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStaffID, staffID)
}
