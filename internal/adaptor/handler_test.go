package adaptor

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-accounts/pkg/apperror"
)

func TestLinkBase(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.Host = "accounts.local:8080"

	assert.Equal(t, "http://accounts.local:8080", linkBase("", req))
	assert.Equal(t, "https://accounts.example.com", linkBase("https://accounts.example.com/", req))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://accounts.local:8080", linkBase("", req))
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		errors  map[string]string
	}{
		{"field validation", apperror.Validation("email", "This email is already in use."), http.StatusBadRequest, "This email is already in use.", map[string]string{"email": "This email is already in use."}},
		{"plain validation", apperror.Validation("", "All fields are required"), http.StatusBadRequest, "All fields are required", nil},
		{"token", apperror.Token("Activation link expired.", nil), http.StatusBadRequest, "Activation link expired.", nil},
		{"not found", apperror.NotFound("User not found"), http.StatusNotFound, "User not found", nil},
		{"internal", apperror.Internal("failed to create account", errors.New("conn reset")), http.StatusBadRequest, "failed to create account", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.status, rec.Code)

			var body struct {
				Success bool              `json:"success"`
				Message string            `json:"message"`
				Errors  map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.errors, body.Errors)
			assert.NotContains(t, rec.Body.String(), "conn reset")
		})
	}
}
