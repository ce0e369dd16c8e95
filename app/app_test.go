package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"claims-management-api/config"
	"claims-management-api/database"
	"claims-management-api/notifier"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notifier.Message
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, msg notifier.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []notifier.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifier.Message(nil), f.sent...)
}

type testApp struct {
	t      *testing.T
	app    *App
	sender *fakeSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	sender := &fakeSender{}
	a, err := New(config.Config{
		JWTSecret:  "e2e-secret",
		JWTIssuer:  "claims-management-api",
		TokenTTL:   time.Hour,
		CORSOrigin: "http://localhost:3000",
		Notify:     config.NotifyConfig{QueueSize: 10, Timeout: time.Second},
	}, db, sender)
	require.NoError(t, err)

	t.Cleanup(func() {
		a.Close()
		_ = database.Close(db)
	})
	return &testApp{t: t, app: a, sender: sender}
}

func (ta *testApp) do(method, path, token string, body any) (int, map[string]any) {
	ta.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ta.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ta.app.Router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(ta.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func (ta *testApp) register(name, role string) (token, id string) {
	ta.t.Helper()
	code, body := ta.do(http.MethodPost, "/users", "", map[string]any{
		"username": name,
		"email":    name + "@example.com",
		"password": "password123",
		"role":     role,
	})
	require.Equal(ta.t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func (ta *testApp) createPolicy(adminToken string) string {
	ta.t.Helper()
	code, body := ta.do(http.MethodPost, "/policies", adminToken, map[string]any{
		"name":            "Home Shield",
		"description":     "Covers water damage",
		"premium_amount":  5000,
		"policy_end_date": "2026-12-31",
	})
	require.Equal(ta.t, http.StatusCreated, code, body)
	return body["id"].(string)
}

func TestClaimReviewScenario(t *testing.T) {
	ta := newTestApp(t)

	adminToken, _ := ta.register("admin", "admin")
	userToken, userID := ta.register("alice", "user")
	policyID := ta.createPolicy(adminToken)

	code, claim := ta.do(http.MethodPost, "/claims", userToken, map[string]any{
		"policy_id":   policyID,
		"claim_date":  "2025-06-15",
		"amount":      2000,
		"description": "Burst pipe",
	})
	require.Equal(t, http.StatusCreated, code, claim)
	assert.Equal(t, "pending", claim["status"])
	assert.Equal(t, userID, claim["user_id"])
	claimID := claim["id"].(string)

	code, body := ta.do(http.MethodPost, "/claims", userToken, map[string]any{
		"policy_id":   policyID,
		"claim_date":  "2025-06-15",
		"amount":      6000,
		"description": "Too much",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Claim amount exceeds policy coverage or is invalid", body["message"])

	// Only admins review claims.
	code, body = ta.do(http.MethodPut, "/claims/"+claimID+"/status", userToken, map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admins only.", body["message"])

	code, body = ta.do(http.MethodPut, "/claims/"+claimID+"/status", adminToken, map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid status", body["message"])

	code, body = ta.do(http.MethodPut, "/claims/"+claimID+"/status", adminToken, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "approved", body["status"])

	code, body = ta.do(http.MethodGet, "/claims/"+claimID, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", body["status"])

	assert.Eventually(t, func() bool {
		msgs := ta.sender.messages()
		return len(msgs) == 1 && msgs[0].To == "alice@example.com"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPurchaseTwiceScenario(t *testing.T) {
	ta := newTestApp(t)

	adminToken, _ := ta.register("admin", "admin")
	userToken, userID := ta.register("bob", "user")
	policyID := ta.createPolicy(adminToken)

	code, body := ta.do(http.MethodPost, "/policies/buy/"+policyID, userToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Policy purchased successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, []any{policyID}, user["purchased_policies"])

	code, body = ta.do(http.MethodPost, "/policies/buy/"+policyID, userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Policy already purchased", body["message"])

	code, body = ta.do(http.MethodGet, "/policies/"+policyID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{userID}, body["users"])

	code, body = ta.do(http.MethodDelete, "/policies/"+policyID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cannot delete policy. Users have purchased this policy.", body["message"])
}

func TestAuthScenarios(t *testing.T) {
	ta := newTestApp(t)
	carolToken, _ := ta.register("carol", "user")

	code, body := ta.do(http.MethodPost, "/users", "", map[string]any{
		"username": "carol2", "email": "carol@example.com", "password": "x", "role": "user",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already in use", body["message"])

	code, wrongPassword := ta.do(http.MethodPost, "/users/login", "", map[string]any{"email": "carol@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, unknownEmail := ta.do(http.MethodPost, "/users/login", "", map[string]any{"email": "ghost@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, wrongPassword, unknownEmail)

	code, body = ta.do(http.MethodPost, "/users/login", "", map[string]any{"email": "carol@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])

	code, body = ta.do(http.MethodGet, "/claims/userClaims", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access denied, token missing!", body["message"])

	code, body = ta.do(http.MethodPost, "/policies", carolToken, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admins only.", body["message"])
}

func TestOperationalEndpoints(t *testing.T) {
	ta := newTestApp(t)

	code, body := ta.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = ta.do(http.MethodGet, "/api-docs", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3.0.3", body["openapi"])

	code, body = ta.do(http.MethodGet, "/claims/statuses", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"pending", "approved", "rejected"}, body["statuses"])

	w := httptest.NewRecorder()
	ta.app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_ms")
}
