package profile

import (
	"context"
	"strings"

	"github.com/loyalteez/saas-demo-backend/internal/rewards"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

// Profile holds the public profile fields.
type Profile struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// Metadata returns the profile as reward metadata.
func (p Profile) Metadata() map[string]any {
	return map[string]any{
		"name":  p.Name,
		"title": p.Title,
		"bio":   p.Bio,
	}
}

// CompleteRequest is the profile form plus the identity of its owner.
type CompleteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=120"`
	Title string `json:"title" validate:"omitempty,max=120"`
	Bio   string `json:"bio" validate:"omitempty,max=2000"`
}

// CompleteResult reports the saved profile and the outcome of its reward.
type CompleteResult struct {
	Email   string           `json:"email"`
	Profile Profile          `json:"profile"`
	Saved   bool             `json:"saved"`
	Reward  loyalteez.Result `json:"reward"`
}

// Service completes user profiles.
type Service interface {
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResult, error)
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

// Complete accepts the profile and grants the completion reward. A failed
// reward never fails the save.
func (s *service) Complete(ctx context.Context, req CompleteRequest) (*CompleteResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").
			WithDetails(map[string]string{"email": "is required"})
	}
	p := Profile{
		Name:  strings.TrimSpace(req.Name),
		Title: strings.TrimSpace(req.Title),
		Bio:   strings.TrimSpace(req.Bio),
	}
	if p.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "is required"})
	}

	result := &CompleteResult{Email: email, Profile: p, Saved: true}
	if s.tracker == nil {
		return result, nil
	}

	result.Reward = s.tracker.Track(ctx, loyalteez.Event{
		Type:           rewards.EventProfileCompleted,
		UserIdentifier: email,
		Metadata:       p.Metadata(),
	})
	if !result.Reward.Success {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"event_type": rewards.EventProfileCompleted,
			"error":      result.Reward.Error,
		}), "profile.reward.failed")
	}
	return result, nil
}
