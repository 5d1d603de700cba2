package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientSend(t *testing.T) {
	var captured sendPayload
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "provider-key", "tmpl-1", 5*time.Second)

	err := client.Send(context.Background(), Message{
		Destination: "+447700900123",
		Body:        "hello there",
		SenderID:    "SND-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer provider-key", authHeader)
	assert.Equal(t, "tmpl-1", captured.TemplateID)
	assert.Equal(t, "+447700900123", captured.To)
	assert.Equal(t, "SND-1", captured.SenderID)
	assert.Equal(t, "hello there", captured.Personalization["message"])
}

func TestHTTPClientSendOmitsEmptySender(t *testing.T) {
	var raw map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "provider-key", "tmpl-1", 5*time.Second)
	require.NoError(t, client.Send(context.Background(), Message{Destination: "d", Body: "b"}))

	_, present := raw["sender_id"]
	assert.False(t, present)
}

func TestHTTPClientSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "provider-key", "tmpl-1", 5*time.Second)
	err := client.Send(context.Background(), Message{Destination: "d", Body: "b"})

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
	assert.Contains(t, provErr.Body, "upstream down")
}

func TestHTTPClientSendTransportError(t *testing.T) {
	// A closed server produces a transport-level failure
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, "provider-key", "tmpl-1", time.Second)
	err := client.Send(context.Background(), Message{Destination: "d", Body: "b"})

	var provErr *Error
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 0, provErr.StatusCode)
}

func TestHTTPClientSendNotConfigured(t *testing.T) {
	client := NewHTTPClient("https://provider.test", "", "tmpl-1", time.Second)
	err := client.Send(context.Background(), Message{Destination: "d", Body: "b"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
