package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourier_Send(t *testing.T) {
	var got courierRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"requestId":"1"}`))
	}))
	defer server.Close()

	c := NewCourier(server.URL+"/", "tok", time.Second)
	err := c.Send(context.Background(), Message{
		To:       "a@x.com",
		Template: "TPL",
		Data:     map[string]string{"username": "ann01", "link": "http://h/verify-user?token=t"},
	})

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Message.To.Email)
	assert.Equal(t, "TPL", got.Message.Template)
	assert.Equal(t, "ann01", got.Message.Data["username"])
}

func TestCourier_Send_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer server.Close()

	err := NewCourier(server.URL, "bad", time.Second).Send(context.Background(), Message{To: "a@x.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "courier responded 401")
}
