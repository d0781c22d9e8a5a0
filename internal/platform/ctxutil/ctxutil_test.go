package ctxutil

import (
	"context"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithRequestData(context.Background(), &RequestData{ExternalID: "user_1"})
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})

	if rd := GetRequestData(ctx); rd == nil || rd.ExternalID != "user_1" {
		t.Fatalf("request data: got %+v", rd)
	}
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r" {
		t.Fatalf("trace data: got %+v", td)
	}
}

func TestMissingValues(t *testing.T) {
	//lint:ignore SA1012 nil context is accepted on purpose
	if GetRequestData(nil) != nil {
		t.Fatalf("nil ctx should yield nil")
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("empty ctx should yield nil")
	}
}
