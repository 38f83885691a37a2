package loyalteez

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
)

var testBrand = BrandContext{
	BrandID:   "0xbrand1234567",
	Domain:    "saas-demo.loyalteez.app",
	SourceURL: "https://saas-demo.loyalteez.app/api/manual-event",
}

func TestBuildPreservesEventAndFillsContext(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("EST", -5*3600))
	event := Event{
		Type:           "newsletter_subscribe",
		UserIdentifier: "Jane.Doe@example.com",
		Metadata:       map[string]any{"source": "homepage_hero"},
	}

	payload, err := Build(event, testBrand, now)
	require.NoError(t, err)

	assert.Equal(t, "newsletter_subscribe", payload.EventType)
	assert.Equal(t, "Jane.Doe@example.com", payload.UserIdentifier)
	assert.Equal(t, "Jane.Doe@example.com", payload.UserEmail)
	assert.Equal(t, testBrand.BrandID, payload.BrandID)
	assert.Equal(t, testBrand.Domain, payload.Domain)
	assert.Equal(t, testBrand.SourceURL, payload.SourceURL)
	assert.Equal(t, "2026-03-14T14:26:53.589Z", payload.Timestamp)
}

func TestBuildIsDeterministicForFixedClock(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	event := Event{Type: "profile_completed", UserIdentifier: "user@example.com", Metadata: map[string]any{"name": "Ada"}}

	first, err := Build(event, testBrand, now)
	require.NoError(t, err)
	second, err := Build(event, testBrand, now)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestBuildRejectsMissingOrPlaceholderBrand(t *testing.T) {
	event := Event{Type: "newsletter_subscribe", UserIdentifier: "user@example.com"}
	for _, brandID := range []string{"", "   ", PlaceholderBrandID} {
		brand := testBrand
		brand.BrandID = brandID

		_, err := Build(event, brand, time.Now())
		require.Error(t, err, "brand %q", brandID)
		assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.CodeOf(err))
	}
}

func TestBuildRejectsMissingContextFields(t *testing.T) {
	event := Event{Type: "newsletter_subscribe", UserIdentifier: "user@example.com"}

	noDomain := testBrand
	noDomain.Domain = ""
	_, err := Build(event, noDomain, time.Now())
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.CodeOf(err))

	noSource := testBrand
	noSource.SourceURL = " "
	_, err = Build(event, noSource, time.Now())
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.CodeOf(err))
}

func TestBuildRejectsMissingEventFields(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{name: "missing type", event: Event{UserIdentifier: "user@example.com"}, want: "eventType is required"},
		{name: "blank identifier", event: Event{Type: "newsletter_subscribe", UserIdentifier: "  "}, want: "userIdentifier is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.event, testBrand, time.Now())
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tt.want, typed.Message())
		})
	}
}

func TestBuildConfigurationErrorTakesPrecedence(t *testing.T) {
	brand := testBrand
	brand.BrandID = ""
	_, err := Build(Event{}, brand, time.Now())
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.CodeOf(err))
}

func TestBuildCopiesMetadata(t *testing.T) {
	meta := map[string]any{"source": "homepage_hero"}
	payload, err := Build(Event{Type: "newsletter_subscribe", UserIdentifier: "u@example.com", Metadata: meta}, testBrand, time.Now())
	require.NoError(t, err)

	meta["source"] = "mutated"
	assert.Equal(t, "homepage_hero", payload.Metadata["source"])
}

func TestPayloadMarshalFlattensMetadata(t *testing.T) {
	payload := Payload{
		BrandID:        "0xbrand",
		EventType:      "profile_completed",
		UserEmail:      "user@example.com",
		UserIdentifier: "user@example.com",
		Domain:         "saas-demo.loyalteez.app",
		SourceURL:      "https://saas-demo.loyalteez.app/profile",
		Timestamp:      "2026-01-02T03:04:05.000Z",
		Metadata: map[string]any{
			"name":      "Ada",
			"bio":       "mathematician",
			"brandId":   "spoofed",
			"timestamp": "spoofed",
		},
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"brandId": "0xbrand",
		"eventType": "profile_completed",
		"userEmail": "user@example.com",
		"userIdentifier": "user@example.com",
		"domain": "saas-demo.loyalteez.app",
		"sourceUrl": "https://saas-demo.loyalteez.app/profile",
		"timestamp": "2026-01-02T03:04:05.000Z",
		"name": "Ada",
		"bio": "mathematician"
	}`, string(raw))
}
