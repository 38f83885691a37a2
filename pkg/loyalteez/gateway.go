package loyalteez

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/metrics"
)

const (
	responseBodyReadLimit int64 = 1 << 20
	logBodyPreviewLimit         = 512
)

// Gateway posts payloads to the rewards endpoint. Every failure is folded
// into the returned Result; Send never reports an error of its own.
// A Gateway holds no per-call state and is safe for concurrent use.
type Gateway struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *logger.Logger
	metrics    *metrics.RewardMetrics
}

// NewGateway builds a gateway targeting DefaultEndpoint unless overridden.
func NewGateway(opts ...Option) *Gateway {
	o := applyOptions(defaultOptions(), opts)
	return newGateway(o)
}

func newGateway(o options) *Gateway {
	return &Gateway{
		httpClient: o.httpClient,
		endpoint:   o.endpoint,
		timeout:    o.timeout,
		logger:     o.logger,
		metrics:    o.metrics,
	}
}

// Endpoint returns the URL events are posted to.
func (g *Gateway) Endpoint() string {
	return g.endpoint
}

// Send performs a single POST of payload. There are no retries: sending the
// same payload twice grants the reward twice.
func (g *Gateway) Send(ctx context.Context, payload Payload) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = g.logger.WithFields(ctx, map[string]any{
		"event_type": payload.EventType,
		"brand":      redactBrand(payload.BrandID),
		"user":       maskIdentifier(payload.UserIdentifier),
	})

	start := time.Now()
	result := g.send(ctx, payload)
	g.metrics.ObserveDuration(payload.EventType, time.Since(start))
	g.record(ctx, payload.EventType, result)
	return result
}

func (g *Gateway) send(ctx context.Context, payload Payload) Result {
	if err := ValidateBrandID(payload.BrandID); err != nil {
		return Failure(err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Failure(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "metadata is not JSON serializable"))
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(pkgerrors.CodeUpstreamTransport, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	g.logger.Debug(ctx, "loyalteez.event.sending")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return g.transportFailure(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return g.transportFailure(ctx, err)
	}

	if !json.Valid(text) {
		g.logger.Warn(g.logger.WithField(ctx, "body", preview(text)), "loyalteez.response.non_json")
		return failure(pkgerrors.CodeUpstreamResponse, fmt.Sprintf("non-JSON response: %d", resp.StatusCode))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failure(pkgerrors.CodeUpstreamRejected, rejectionMessage(text, resp.StatusCode))
	}

	result, err := decodeResult(text)
	if err != nil {
		return failure(pkgerrors.CodeUpstreamResponse, fmt.Sprintf("unexpected response shape: %d", resp.StatusCode))
	}
	if !result.Success {
		if strings.TrimSpace(result.Error) == "" {
			return failure(pkgerrors.CodeUpstreamRejected, "rewards endpoint reported failure")
		}
		result.Code = pkgerrors.CodeUpstreamRejected
	}
	result.raw = json.RawMessage(text)
	return result
}

func (g *Gateway) transportFailure(ctx context.Context, err error) Result {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isNetTimeout(err):
		if g.timeout > 0 {
			return failure(pkgerrors.CodeUpstreamTimeout, fmt.Sprintf("timeout: no response within %s", g.timeout))
		}
		return failure(pkgerrors.CodeUpstreamTimeout, "timeout: no response before deadline")
	case errors.Is(err, context.Canceled):
		return failure(pkgerrors.CodeUpstreamTransport, "request canceled")
	default:
		g.logger.Debug(g.logger.WithField(ctx, "cause", err.Error()), "loyalteez.transport.error")
		return failure(pkgerrors.CodeUpstreamTransport, fmt.Sprintf("request failed: %v", err))
	}
}

func (g *Gateway) record(ctx context.Context, eventType string, result Result) {
	outcome := result.outcome()
	g.metrics.IncOutcome(eventType, outcome)
	if result.Success {
		g.metrics.AddDistributed(eventType, result.Distributed())
		g.logger.Info(g.logger.WithField(ctx, "ltz_distributed", result.Distributed()), "loyalteez.event.rewarded")
		return
	}
	ctx = g.logger.WithFields(ctx, map[string]any{
		"outcome":    outcome,
		"error_code": result.Code,
	})
	g.logger.Error(ctx, "loyalteez.event.failed", errors.New(result.Error))
}

func rejectionMessage(text []byte, status int) string {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(text, &body); err == nil {
		if msg, ok := body.Error.(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return fmt.Sprintf("API responded with status: %d", status)
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func redactBrand(brandID string) string {
	if len(brandID) <= 6 {
		return brandID
	}
	return brandID[:6] + "..."
}

func maskIdentifier(identifier string) string {
	local, domain, found := strings.Cut(identifier, "@")
	if len(local) > 2 {
		local = local[:2] + "***"
	}
	if !found {
		return local
	}
	return local + "@" + domain
}

func preview(body []byte) string {
	if len(body) > logBodyPreviewLimit {
		body = body[:logBodyPreviewLimit]
	}
	return string(body)
}
