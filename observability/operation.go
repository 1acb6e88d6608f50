package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/diarsplit/errors"
)

// Track runs fn inside a span named name. A returned error is recorded on
// the span, with its code when it is an AppError.
func Track(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		SetSpanError(ctx, err)
		if appErr, ok := errors.AsAppError(err); ok {
			span.SetAttributes(attribute.String(AttrErrorCode, string(appErr.Code)))
		}
	}
	return err
}
