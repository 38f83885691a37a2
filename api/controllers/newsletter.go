package controllers

import (
	"net/http"

	"github.com/loyalteez/saas-demo-backend/api/responses"
	"github.com/loyalteez/saas-demo-backend/api/validators"
	"github.com/loyalteez/saas-demo-backend/internal/newsletter"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
)

// NewsletterSubscribe signs an email up and reports the reward it earned.
func NewsletterSubscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "newsletter service unavailable"))
			return
		}

		var body newsletter.SubscribeRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Subscribe(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
