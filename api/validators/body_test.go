package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=5"`
}

func decode(t *testing.T, body string) (signup, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest signup
	err := DecodeJSONBody(httptest.NewRecorder(), req, &dest)
	return dest, err
}

func TestDecodeJSONBodyValid(t *testing.T) {
	got, err := decode(t, `{"email":"a@example.com","name":"Ada"}`)
	require.NoError(t, err)
	assert.Equal(t, signup{Email: "a@example.com", Name: "Ada"}, got)
}

func TestDecodeJSONBodyRejectsMalformed(t *testing.T) {
	_, err := decode(t, `{"email":`)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, "invalid request body", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"email":"a@example.com","name":"Ada","role":"admin"}`)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDecodeJSONBodyRejectsEmptyBody(t *testing.T) {
	_, err := decode(t, ``)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	_, err := decode(t, `{"email":"nope","name":"Augusta"}`)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "email must be a valid email; name must be at most 5", typed.Message())
	assert.Equal(t, map[string]string{
		"email": "must be a valid email",
		"name":  "must be at most 5",
	}, typed.Details())
}
