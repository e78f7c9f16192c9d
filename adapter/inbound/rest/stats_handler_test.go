package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/dirtidy/domain/port/inbound"
)

func TestHandler_Stats(t *testing.T) {
	org, _ := newMockOrganizer()
	stats := &MockStatsService{}
	stats.On("GetStats", mock.Anything).Return(&inbound.OrganizerStats{
		Moved:      3,
		Categories: []inbound.CategoryStats{{Folder: "pdf", Moved: 3}},
	}, nil)
	stats.On("GetResourceHistory", mock.Anything, 2).Return([]*inbound.ResourceStats{{Goroutines: 4}, {Goroutines: 5}}, nil)

	router := setupRouter(NewHandler(org, nil, nil, &TestLogger{}).WithStats(stats))

	rec := doRequest(t, router, "GET", "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body inbound.OrganizerStats
	decode(t, rec, &body)
	assert.Equal(t, int64(3), body.Moved)
	require.Len(t, body.Categories, 1)

	rec = doRequest(t, router, "GET", "/api/resources/history?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		History []inbound.ResourceStats `json:"history"`
	}
	decode(t, rec, &history)
	assert.Len(t, history.History, 2)

	rec = doRequest(t, router, "GET", "/api/resources/history?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stats.AssertExpectations(t)
}

func TestHandler_StatsDisabled(t *testing.T) {
	org, _ := newMockOrganizer()
	rec := doRequest(t, setupRouter(NewHandler(org, nil, nil, &TestLogger{})), "GET", "/api/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
