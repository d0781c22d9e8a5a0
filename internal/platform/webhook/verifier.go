package webhook

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	svix "github.com/svix/svix-webhooks/go"
)

var (
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verifier checks signature and freshness of an inbound event before the
// payload is decoded.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

type SvixVerifier struct {
	wh *svix.Webhook
}

// NewSvixVerifier accepts the "whsec_..." signing secret from the identity
// provider dashboard.
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("webhook signing secret is required")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("init svix webhook: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	for _, h := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
		if strings.TrimSpace(headers.Get(h)) == "" {
			return ErrMissingHeaders
		}
	}
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
