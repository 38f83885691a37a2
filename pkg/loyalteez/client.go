package loyalteez

import (
	"context"
	"time"

	"github.com/loyalteez/saas-demo-backend/pkg/config"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
)

// Client builds and sends reward events for one configured brand.
type Client struct {
	brand   BrandContext
	gateway *Gateway
	now     func() time.Time
	logger  *logger.Logger
}

// NewClient validates the brand configuration and wires a gateway for it.
// Options override the endpoint and timeout taken from cfg.
func NewClient(cfg config.LoyalteezConfig, opts ...Option) (*Client, error) {
	brand := BrandContext{
		BrandID:   cfg.BrandID,
		Domain:    cfg.Domain,
		SourceURL: cfg.SourceURL,
	}
	if err := brand.Validate(); err != nil {
		return nil, err
	}

	base := defaultOptions()
	if cfg.APIURL != "" {
		base.endpoint = cfg.APIURL
	}
	if cfg.Timeout > 0 {
		base.timeout = cfg.Timeout
	}
	o := applyOptions(base, opts)

	return &Client{
		brand:   brand,
		gateway: newGateway(o),
		now:     o.now,
		logger:  o.logger,
	}, nil
}

// Brand returns the brand context attached to every payload.
func (c *Client) Brand() BrandContext {
	return c.brand
}

// Gateway exposes the underlying gateway.
func (c *Client) Gateway() *Gateway {
	return c.gateway
}

// Track builds the payload for event and sends it. Invalid events are
// reported as failed results without touching the network.
func (c *Client) Track(ctx context.Context, event Event) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := Build(event, c.brand, c.now())
	if err != nil {
		result := Failure(err)
		c.gateway.metrics.IncOutcome(event.Type, result.outcome())
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"event_type": event.Type,
			"error":      result.Error,
		}), "loyalteez.event.invalid")
		return result
	}
	return c.gateway.Send(ctx, payload)
}
