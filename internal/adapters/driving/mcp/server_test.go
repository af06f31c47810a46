package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/biowatch/internal/core/domain"
)

func TestNewServer_RequiresRetrieval(t *testing.T) {
	server, err := NewServer(&Ports{Watcher: &mockWatcherService{}})

	assert.Nil(t, server)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{name: "empty", ports: Ports{}, wantErr: ErrMissingRetrievalService},
		{name: "retrieval only", ports: Ports{Retrieval: &mockRetrievalService{}}},
		{
			name: "every port",
			ports: Ports{
				Retrieval: &mockRetrievalService{},
				Watcher:   &mockWatcherService{},
				Changes:   &mockChangeLog{},
				Journal:   &mockChangeJournal{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServer_Health(t *testing.T) {
	watcher := &mockWatcherService{
		status: domain.WatcherStatus{State: domain.WatcherRunning, Cycles: 3},
	}
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Watcher: watcher})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "running", body["state"])
	assert.EqualValues(t, 3, body["cycles"])
}

func TestServer_Health_WithoutWatcher(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
