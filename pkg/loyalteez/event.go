package loyalteez

import (
	"encoding/json"
	"strings"
	"time"

	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
)

// PlaceholderBrandID is the sample value shipped in demo configuration. It
// is never a real brand.
const PlaceholderBrandID = "DEMO_BRAND_ID"

// timestampLayout matches the millisecond ISO-8601 form the rewards API expects.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Event is a user action eligible for a reward.
type Event struct {
	Type           string
	UserIdentifier string
	Metadata       map[string]any
}

// BrandContext is the fixed tenant information attached to every payload.
type BrandContext struct {
	BrandID   string
	Domain    string
	SourceURL string
}

// Payload is the body posted to the rewards endpoint.
type Payload struct {
	BrandID        string
	EventType      string
	UserEmail      string
	UserIdentifier string
	Domain         string
	SourceURL      string
	Timestamp      string
	Metadata       map[string]any
}

var reservedFields = map[string]struct{}{
	"brandId":        {},
	"eventType":      {},
	"userEmail":      {},
	"userIdentifier": {},
	"domain":         {},
	"sourceUrl":      {},
	"timestamp":      {},
}

// MarshalJSON flattens metadata into the top level of the body. Metadata keys
// that collide with a fixed field are dropped.
func (p Payload) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(p.Metadata)+len(reservedFields))
	for k, v := range p.Metadata {
		if _, reserved := reservedFields[k]; reserved {
			continue
		}
		body[k] = v
	}
	body["brandId"] = p.BrandID
	body["eventType"] = p.EventType
	body["userEmail"] = p.UserEmail
	body["userIdentifier"] = p.UserIdentifier
	body["domain"] = p.Domain
	body["sourceUrl"] = p.SourceURL
	body["timestamp"] = p.Timestamp
	return json.Marshal(body)
}

// ValidateBrandID rejects empty and placeholder brand ids.
func ValidateBrandID(brandID string) error {
	trimmed := strings.TrimSpace(brandID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "brandId is required")
	}
	if trimmed == PlaceholderBrandID {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "brandId is a placeholder value")
	}
	return nil
}

// Validate checks every field of the brand context.
func (b BrandContext) Validate() error {
	if err := ValidateBrandID(b.BrandID); err != nil {
		return err
	}
	if strings.TrimSpace(b.Domain) == "" {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "domain is required")
	}
	if strings.TrimSpace(b.SourceURL) == "" {
		return pkgerrors.New(pkgerrors.CodeConfiguration, "sourceUrl is required")
	}
	return nil
}

// Validate checks the caller supplied fields of an event.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "eventType is required").
			WithDetails(map[string]string{"eventType": "is required"})
	}
	if strings.TrimSpace(e.UserIdentifier) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "userIdentifier is required").
			WithDetails(map[string]string{"userIdentifier": "is required"})
	}
	return nil
}

// Build assembles the outbound payload for an event. Brand configuration is
// checked first so a misconfigured deployment is reported as such regardless
// of the event.
func Build(event Event, brand BrandContext, now time.Time) (Payload, error) {
	if err := brand.Validate(); err != nil {
		return Payload{}, err
	}
	if err := event.Validate(); err != nil {
		return Payload{}, err
	}

	var metadata map[string]any
	if len(event.Metadata) > 0 {
		metadata = make(map[string]any, len(event.Metadata))
		for k, v := range event.Metadata {
			metadata[k] = v
		}
	}

	return Payload{
		BrandID:        strings.TrimSpace(brand.BrandID),
		EventType:      event.Type,
		UserEmail:      event.UserIdentifier,
		UserIdentifier: event.UserIdentifier,
		Domain:         brand.Domain,
		SourceURL:      brand.SourceURL,
		Timestamp:      FormatTimestamp(now),
		Metadata:       metadata,
	}, nil
}
