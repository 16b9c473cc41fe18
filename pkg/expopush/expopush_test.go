package expopush_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brickmart/pkg/expopush"

	"github.com/stretchr/testify/assert"
)

func gatewayStub(t *testing.T, tickets []expopush.Ticket) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var messages []expopush.Message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&messages))
		assert.Len(t, messages, len(tickets))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": tickets})
	}))
}

func TestClient_SendAllAccepted(t *testing.T) {
	server := gatewayStub(t, []expopush.Ticket{
		{Status: "ok", ID: "ticket-1"},
		{Status: "ok", ID: "ticket-2"},
	})
	defer server.Close()

	client := expopush.NewClient(server.URL)
	result, err := client.Send([]expopush.Message{
		{To: "ExponentPushToken[a]", Title: "Order shipped", Body: "On its way"},
		{To: "ExponentPushToken[b]", Title: "Order shipped", Body: "On its way"},
	})
	assert.NoError(t, err)
	assert.Equal(t, expopush.StatusSuccess, result.Status)
	assert.Len(t, result.Tickets, 2)
}

func TestClient_SendPartiallyAccepted(t *testing.T) {
	server := gatewayStub(t, []expopush.Ticket{
		{Status: "ok", ID: "ticket-1"},
		{Status: "error", Message: "DeviceNotRegistered"},
	})
	defer server.Close()

	client := expopush.NewClient(server.URL)
	result, err := client.Send([]expopush.Message{
		{To: "ExponentPushToken[a]", Title: "t", Body: "b"},
		{To: "ExponentPushToken[stale]", Title: "t", Body: "b"},
	})
	assert.NoError(t, err)
	assert.Equal(t, expopush.StatusPartial, result.Status)
}

func TestClient_SendAllRejected(t *testing.T) {
	server := gatewayStub(t, []expopush.Ticket{
		{Status: "error", Message: "DeviceNotRegistered"},
	})
	defer server.Close()

	client := expopush.NewClient(server.URL)
	result, err := client.Send([]expopush.Message{
		{To: "ExponentPushToken[stale]", Title: "t", Body: "b"},
	})
	assert.NoError(t, err)
	assert.Equal(t, expopush.StatusError, result.Status)
}

func TestClient_SendGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := expopush.NewClient(server.URL)
	result, err := client.Send([]expopush.Message{{To: "ExponentPushToken[a]", Title: "t", Body: "b"}})
	assert.Error(t, err)
	assert.Equal(t, expopush.StatusError, result.Status)
}

func TestClient_SendNothing(t *testing.T) {
	client := expopush.NewClient("http://127.0.0.1:0")
	result, err := client.Send(nil)
	assert.NoError(t, err)
	assert.Equal(t, expopush.StatusSuccess, result.Status)
}
