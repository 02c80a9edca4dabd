package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecordError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := GetTracer("test").Start(context.Background(), "op")
	want := errors.New("boom")
	if got := RecordError(span, want); got != want {
		t.Fatalf("RecordError should return its argument")
	}
	if RecordError(span, nil) != nil {
		t.Fatalf("nil error should pass through")
	}
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[0].Status().Code)
	}
}

func TestAttributes(t *testing.T) {
	if kv := String("k", "v"); kv.Value.AsString() != "v" {
		t.Fatalf("unexpected string attribute %v", kv)
	}
	if kv := Int("n", 3); kv.Value.AsInt64() != 3 {
		t.Fatalf("unexpected int attribute %v", kv)
	}
	if kv := Bool("b", true); !kv.Value.AsBool() {
		t.Fatalf("unexpected bool attribute %v", kv)
	}
}
