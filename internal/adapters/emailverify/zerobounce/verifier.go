// Package zerobounce checks email deliverability against the ZeroBounce validation API.
package zerobounce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const (
	DefaultBaseURL = "https://api.zerobounce.net"
	DefaultTimeout = 5 * time.Second

	statusValid = "valid"
)

type Verifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

func NewVerifier(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) ports.EmailVerifier {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type validateResponse struct {
	Status    string `json:"status"`
	SubStatus string `json:"sub_status"`
	Error     string `json:"error"`
}

func (v *Verifier) IsDeliverable(ctx context.Context, email string) (bool, error) {
	q := url.Values{}
	q.Set("api_key", v.apiKey)
	q.Set("email", email)
	endpoint := v.baseURL + "/v2/validate?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, v.unavailable(ctx, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, v.unavailable(ctx, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, v.unavailable(ctx, "request", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return false, v.unavailable(ctx, "decode response", err)
	}
	if body.Error != "" {
		return false, v.unavailable(ctx, "provider", fmt.Errorf("%s", body.Error))
	}

	v.log.Debug("email.verify", "status", body.Status, "sub_status", body.SubStatus)
	return body.Status == statusValid, nil
}

// unavailable logs the provider failure and converts it into the service-unavailable kind.
// The api key is never logged. A canceled caller is not a provider failure and is only
// logged at debug level.
func (v *Verifier) unavailable(ctx context.Context, stage string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		v.log.Debug("email.verify.canceled", "stage", stage, "err", ctxErr)
		return fmt.Errorf("%w: %s: %w", domain.ErrEmailVerifierUnavailable, stage, ctxErr)
	}

	msg := err.Error()
	if v.apiKey != "" {
		msg = strings.ReplaceAll(msg, v.apiKey, "***")
	}
	v.log.Error("email.verify.fail", "stage", stage, "err", msg)
	return fmt.Errorf("%w: %s", domain.ErrEmailVerifierUnavailable, stage)
}
