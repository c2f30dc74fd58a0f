package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer returns ctx carrying t; a nil t stores Nop so that
// FromContext never hands out nil.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, orNop(t))
}

// FromContext returns the tracer installed by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// withSpan records s as the parent for spans and points started from ctx.
func withSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, s)
}

// parentID is the id of the innermost enabled span in ctx, or 0.
func parentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s.ID()
}

func orNop(t Tracer) Tracer {
	if t == nil {
		return Nop
	}
	return t
}
