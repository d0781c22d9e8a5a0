package observability

import (
	"context"
	"testing"

	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , bad, =x, team=meals ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "meals" {
		t.Fatalf("unexpected headers %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for blank")
	}
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 || clampRatio(2) != 1 || clampRatio(0.25) != 0.25 {
		t.Fatalf("clampRatio out of range")
	}
}

func TestInitOTelDisabledReturnsNoopShutdown(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{Enabled: false})
	if shutdown == nil {
		t.Fatalf("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}
