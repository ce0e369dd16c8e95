package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"claims-management-api/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2026-12-31", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"2025-06-15T10:30:00Z", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), true},
		{"2025-06-15T12:30:00+02:00", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), true},
		{"15/06/2025", time.Time{}, false},
		{"", time.Time{}, false},
		{"2025-02-30", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func bindBody(t *testing.T, body string, req any, missing error) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return bind(c, req, missing)
}

func TestBindTranslatesValidationErrors(t *testing.T) {
	require.NoError(t, RegisterValidators())

	var reg RegisterRequest
	err := bindBody(t, `{"username":"a","email":"a@example.com","role":"user"}`, &reg, apperror.ErrMissingField)
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	var login LoginRequest
	err = bindBody(t, `{"email":"a@example.com"}`, &login, apperror.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	var claim CreateClaimRequest
	err = bindBody(t, `{"policy_id":"p","claim_date":"yesterday","amount":5,"description":"x"}`, &claim, apperror.ErrMissingField)
	require.Error(t, err)
	assert.Equal(t, "claim_date must be a date (YYYY-MM-DD)", apperror.Message(err))

	err = bindBody(t, `{not json`, &claim, apperror.ErrMissingField)
	assert.Equal(t, "Invalid request body", apperror.Message(err))

	claim = CreateClaimRequest{}
	require.NoError(t, bindBody(t, `{"policy_id":"p","claim_date":"2025-06-15","amount":"12.50","description":"x"}`, &claim, apperror.ErrMissingField))
	require.NotNil(t, claim.Amount)
	assert.Equal(t, "12.5", claim.Amount.String())
}
