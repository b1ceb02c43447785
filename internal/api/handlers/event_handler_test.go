package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMine(t *testing.T) {
	events := make([]models.AccountEvent, 5)
	for i := range events {
		events[i] = models.AccountEvent{ID: string(rune('a' + i)), UserID: testUser.ID, Type: models.EventUserLogin, CreatedAt: time.Now()}
	}
	svc := &fakeEventService{events: events}
	h := NewEventHandler(svc)

	rec := httptest.NewRecorder()
	h.GetMine(rec, authedRequest(http.MethodGet, "/user/events?page=2&size=2", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var page pagination.Pagination[models.AccountEvent]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "c", page.Results[0].ID)
	assert.Equal(t, testUser.ID, svc.gotUser)
}

func TestGetMine_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Paginator
	}{
		{name: "none", query: "", want: pagination.Paginator{Page: 1, Size: pagination.DefaultSize}},
		{name: "garbage", query: "?page=x&size=-3", want: pagination.Paginator{Page: 1, Size: pagination.DefaultSize}},
		{name: "capped", query: "?size=1000", want: pagination.Paginator{Page: 1, Size: MaxEventPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{}
			h := NewEventHandler(svc)

			rec := httptest.NewRecorder()
			h.GetMine(rec, authedRequest(http.MethodGet, "/user/events"+tt.query, ""))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, svc.gotPage)
		})
	}
}

func TestGetMine_Error(t *testing.T) {
	h := NewEventHandler(&fakeEventService{err: errBoom})

	rec := httptest.NewRecorder()
	h.GetMine(rec, authedRequest(http.MethodGet, "/user/events", ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
