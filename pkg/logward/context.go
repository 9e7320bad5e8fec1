package logward

import "context"

type contextFieldsKey struct{}

// Contextualize returns a derived context whose ambient fields are the
// parent's ambient fields merged with the given ones. All logging performed
// with the derived context (on any goroutine it is passed to) sees the
// merged fields; the parent context is untouched, so scope exit restores the
// prior ambient state for any nesting depth and on every exit path.
//
// Merge precedence, low to high: ambient context < bound logger fields <
// per-call fields.
func Contextualize(ctx context.Context, fields ...Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	merged := mergeFields(ambientFields(ctx), fields)
	return context.WithValue(ctx, contextFieldsKey{}, merged)
}

// ContextFields returns a copy of the ambient fields carried by ctx.
func ContextFields(ctx context.Context) []Field {
	return append([]Field(nil), ambientFields(ctx)...)
}

func ambientFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextFieldsKey{}).([]Field)
	return fields
}
