package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span as failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// End closes the span, recording err when it is not nil.
func End(span trace.Span, err error) {
	if err != nil {
		SetError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
