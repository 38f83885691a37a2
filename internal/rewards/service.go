package rewards

import (
	"context"

	"github.com/loyalteez/saas-demo-backend/pkg/config"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

// Event types granted by the rewards program.
const (
	EventNewsletterSubscribe = "newsletter_subscribe"
	EventProfileCompleted    = "profile_completed"
)

// Tracker records reward events. Implementations never fail the caller;
// problems are reported through the returned result.
type Tracker interface {
	Track(ctx context.Context, event loyalteez.Event) loyalteez.Result
}

// Service is the rewards entry point used by the HTTP layer.
type Service interface {
	Tracker
	// Configured reports whether a usable brand id was supplied.
	Configured() bool
}

type service struct {
	client    *loyalteez.Client
	configErr error
	logg      *logger.Logger
}

// NewService builds the rewards service. A missing or placeholder brand id
// does not fail construction; every Track call then reports a
// configuration error instead.
func NewService(ctx context.Context, cfg config.LoyalteezConfig, logg *logger.Logger, opts ...loyalteez.Option) Service {
	if logg == nil {
		logg = logger.Nop()
	}
	client, err := loyalteez.NewClient(cfg, append([]loyalteez.Option{loyalteez.WithLogger(logg)}, opts...)...)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "reason", loyalteez.Failure(err).Error), "rewards tracking disabled")
		return &service{configErr: err, logg: logg}
	}
	return &service{client: client, logg: logg}
}

// NewServiceWithClient wraps an already configured client.
func NewServiceWithClient(client *loyalteez.Client, logg *logger.Logger) Service {
	if logg == nil {
		logg = logger.Nop()
	}
	if client == nil {
		return &service{configErr: pkgerrors.New(pkgerrors.CodeConfiguration, "brandId is required"), logg: logg}
	}
	return &service{client: client, logg: logg}
}

func (s *service) Configured() bool {
	return s.client != nil
}

func (s *service) Track(ctx context.Context, event loyalteez.Event) loyalteez.Result {
	if s.client == nil {
		return loyalteez.Failure(s.configErr)
	}
	return s.client.Track(s.logg.WithEventType(ctx, event.Type), event)
}
