package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer provides distributed tracing capabilities
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		enabled:     enabled,
	}
}

// StartSegment starts a new trace segment
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// TraceFunction wraps a function with a trace subsegment
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, name)
	defer seg.Close(nil)

	err := fn(ctx)
	if err != nil {
		seg.AddError(err)
	}

	return err
}

// AddAnnotation adds an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key string, value string) {
	if !t.enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
