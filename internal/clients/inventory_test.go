package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kasir/internal/clients"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryClient_Reserve(t *testing.T) {
	var got clients.StockMutation
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/products/decrement", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clients.NewInventoryClient(server.URL, "", time.Second)
	err := client.Reserve(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ProductID)
	assert.Equal(t, 3, got.Quantity)
}

func TestInventoryClient_Release(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/increment", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clients.NewInventoryClient(server.URL, "", time.Second)
	assert.NoError(t, client.Release(context.Background(), 7, 3))
}

func TestInventoryClient_SendsBearerToken(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := clients.NewInventoryClient(server.URL, "svc-token", time.Second)
	require.NoError(t, client.Reserve(context.Background(), 1, 1))
	require.NoError(t, client.Release(context.Background(), 1, 1))

	require.Len(t, authHeaders, 2)
	for _, h := range authHeaders {
		assert.Equal(t, "Bearer svc-token", h)
	}
}

func TestInventoryClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"insufficient stock", http.StatusBadRequest, clients.ErrInsufficientStock},
		{"product missing", http.StatusNotFound, clients.ErrProductNotFound},
		{"server fault", http.StatusInternalServerError, clients.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := clients.NewInventoryClient(server.URL, "", time.Second)
			err := client.Reserve(context.Background(), 1, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInventoryClient_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := clients.NewInventoryClient(server.URL, "", 50*time.Millisecond)
	err := client.Reserve(context.Background(), 1, 1)
	assert.ErrorIs(t, err, clients.ErrUnavailable)
}

func TestInventoryClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := clients.NewInventoryClient(server.URL, "", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Reserve(ctx, 1, 1)
	assert.ErrorIs(t, err, clients.ErrUnavailable)
}
