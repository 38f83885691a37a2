package controllers

import (
	"net/http"

	"github.com/loyalteez/saas-demo-backend/api/responses"
	"github.com/loyalteez/saas-demo-backend/api/validators"
	"github.com/loyalteez/saas-demo-backend/internal/profile"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
)

// ProfileComplete saves a profile and reports the completion reward.
func ProfileComplete(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var body profile.CompleteRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Complete(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
