package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chocoblitz/storefront/internal/config"
)

func newClient(baseUrl string, timeout time.Duration) *AuthClient {
	return NewAuthClient(config.AuthApi{BaseUrl: baseUrl, Timeout: timeout})
}

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.EqualValues(t, http.MethodPost, r.Method)
		assert.EqualValues(t, "/auth/login", r.URL.Path)

		payload := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, "choco@blitz.test", payload["email"])
		assert.EqualValues(t, "secret", payload["password"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "token-123",
			"user":  map[string]interface{}{"id": 1, "name": "Choco", "email": "choco@blitz.test"},
		})
	}))
	defer server.Close()

	auth, err := newClient(server.URL, time.Second).
		Login(context.Background(), "choco@blitz.test", "secret")

	assert.NoError(t, err)
	assert.EqualValues(t, "token-123", auth.Token)
	assert.Contains(t, string(auth.User), "Choco")
}

func TestLoginFailureSurfacesApiMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer server.Close()

	_, err := newClient(server.URL, time.Second).
		Login(context.Background(), "choco@blitz.test", "wrong")

	assert.Error(t, err)
	assert.EqualValues(t, "Invalid credentials", err.Error())
}

func TestLoginFailureWithoutMessageFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newClient(server.URL, time.Second).
		Login(context.Background(), "choco@blitz.test", "secret")

	assert.Error(t, err)
	assert.EqualValues(t, "Login failed", err.Error())
}

func TestRegisterSendsConfirmPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.EqualValues(t, "/auth/register", r.URL.Path)

		payload := map[string]string{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, "longenough", payload["confirmPassword"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "token-456",
			"user":  map[string]interface{}{"id": 2},
		})
	}))
	defer server.Close()

	auth, err := newClient(server.URL, time.Second).
		Register(context.Background(), "Choco", "choco@blitz.test", "longenough", "longenough")

	assert.NoError(t, err)
	assert.EqualValues(t, "token-456", auth.Token)
}

func TestTimeoutCancelsRequest(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	_, err := newClient(server.URL, 50*time.Millisecond).
		Login(context.Background(), "choco@blitz.test", "secret")

	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
