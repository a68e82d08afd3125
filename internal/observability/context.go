package observability

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey holds the unique request identifier.
	RequestIDKey contextKey = "request_id"

	// ProfileKey holds the job profile name the request operates on.
	ProfileKey contextKey = "profile"

	// InvoiceIDKey holds the identifier printed on a rendered invoice.
	InvoiceIDKey contextKey = "invoice_id"
)

// WithRequestID injects request ID into context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithProfile injects the profile name into context.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// WithInvoiceID injects the invoice identifier into context.
func WithInvoiceID(ctx context.Context, invoiceID string) context.Context {
	return context.WithValue(ctx, InvoiceIDKey, invoiceID)
}

// GetRequestID extracts request ID from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetProfile extracts the profile name from context.
func GetProfile(ctx context.Context) string {
	if v, ok := ctx.Value(ProfileKey).(string); ok {
		return v
	}
	return ""
}

// GetInvoiceID extracts the invoice identifier from context.
func GetInvoiceID(ctx context.Context) string {
	if v, ok := ctx.Value(InvoiceIDKey).(string); ok {
		return v
	}
	return ""
}

// GenerateRequestID generates a unique request identifier (UUID).
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateInvoiceID returns a short invoice number derived from a UUID,
// e.g. "INV-1A2B3C4D".
func GenerateInvoiceID() string {
	id := uuid.New().String()
	return "INV-" + strings.ToUpper(id[:8])
}
