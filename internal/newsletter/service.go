package newsletter

import (
	"context"
	"strings"

	"github.com/loyalteez/saas-demo-backend/internal/rewards"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

// DefaultSource tags signups coming from the landing page hero form.
const DefaultSource = "homepage_hero"

// SubscribeRequest is the newsletter signup form.
type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Source string `json:"source" validate:"omitempty,max=64"`
}

// SubscribeResult reports the signup and the outcome of its reward.
type SubscribeResult struct {
	Email      string           `json:"email"`
	Subscribed bool             `json:"subscribed"`
	Reward     loyalteez.Result `json:"reward"`
}

// Service handles newsletter signups.
type Service interface {
	Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error)
}

type service struct {
	tracker rewards.Tracker
	logg    *logger.Logger
}

func NewService(tracker rewards.Tracker, logg *logger.Logger) Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{tracker: tracker, logg: logg}
}

// Subscribe accepts the signup and then grants the reward. A failed reward
// never fails the signup.
func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").
			WithDetails(map[string]string{"email": "is required"})
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = DefaultSource
	}

	result := &SubscribeResult{Email: email, Subscribed: true}
	if s.tracker == nil {
		return result, nil
	}

	result.Reward = s.tracker.Track(ctx, loyalteez.Event{
		Type:           rewards.EventNewsletterSubscribe,
		UserIdentifier: email,
		Metadata:       map[string]any{"source": source},
	})
	if !result.Reward.Success {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"event_type": rewards.EventNewsletterSubscribe,
			"error":      result.Reward.Error,
		}), "newsletter.reward.failed")
	}
	return result, nil
}
