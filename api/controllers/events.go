package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/loyalteez/saas-demo-backend/api/responses"
	"github.com/loyalteez/saas-demo-backend/api/validators"
	"github.com/loyalteez/saas-demo-backend/internal/rewards"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

// EventRequest is the body accepted by the event proxy. userIdentifier
// defaults to userEmail.
type EventRequest struct {
	EventType      string         `json:"eventType" validate:"max=64"`
	UserEmail      string         `json:"userEmail" validate:"max=254"`
	UserIdentifier string         `json:"userIdentifier" validate:"max=254"`
	Metadata       map[string]any `json:"metadata"`
}

func (r EventRequest) event() loyalteez.Event {
	identifier := r.UserIdentifier
	if strings.TrimSpace(identifier) == "" {
		identifier = r.UserEmail
	}
	return loyalteez.Event{
		Type:           strings.TrimSpace(r.EventType),
		UserIdentifier: identifier,
		Metadata:       r.Metadata,
	}
}

// TrackEvent forwards one reward event and answers with the reward result
// as-is. Caller input errors and upstream rejections are 400; every other
// failure is 500.
func TrackEvent(svc rewards.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteResult(w, loyalteez.Failure(pkgerrors.New(pkgerrors.CodeConfiguration, "rewards service unavailable")))
			return
		}

		var body EventRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			result := loyalteez.Failure(err)
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", result.Error), "events.invalid_body")
			}
			responses.WriteResult(w, result)
			return
		}

		event := body.event()
		if logg != nil {
			ctx = logg.WithEventType(ctx, event.Type)
		}
		responses.WriteResult(w, svc.Track(ctx, event))
	}
}

// ManualEventProbe answers GET on the manual event route so deployments can
// check the route is live.
func ManualEventProbe(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "manual event endpoint is live; POST an event to track it",
			"timestamp": loyalteez.FormatTimestamp(now()),
		})
	}
}
