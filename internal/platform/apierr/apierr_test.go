package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsFindsWrappedError(t *testing.T) {
	base := Conflict("tag_exists", "duplicate")
	wrapped := fmt.Errorf("create tag: %w", base)

	ae, ok := As(wrapped)
	if !ok || ae.Code != "tag_exists" {
		t.Fatalf("As: got %+v ok=%v", ae, ok)
	}
	if ae.Status != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, ae.Status)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no api error")
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("bucket down")
	err := Upstream("upload_failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if err.Status != http.StatusBadGateway {
		t.Fatalf("status: got %d", err.Status)
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if got := (&Error{Code: "x"}).Error(); got != "x" {
		t.Fatalf("code fallback: got %q", got)
	}
	if got := (&Error{Status: 418}).Error(); got != "api error (418)" {
		t.Fatalf("status fallback: got %q", got)
	}
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil error should render empty")
	}
}
