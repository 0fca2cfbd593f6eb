package forward

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callpilot/models"
)

func testBooking() models.Booking {
	return models.Booking{
		ID:           "b-1",
		ProviderName: "Provider One",
		Date:         "2025-02-10",
		Time:         "14:00",
	}
}

func TestForward_BothSinksSucceed(t *testing.T) {
	calendarHits, webhookHits := 0, 0
	calSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calendarHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer calSrv.Close()
	whSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer whSrv.Close()

	f := &DefaultForwarder{
		Calendar: NewCalendarClient("", calSrv.URL, zap.NewNop()),
		Webhook:  NewWebhookSinkClient(whSrv.URL),
		Logger:   zap.NewNop(),
	}

	outcome := f.Forward(context.Background(), testBooking())
	assert.Equal(t, models.SinkSuccess, outcome.Calendar.Status)
	assert.Equal(t, models.SinkSuccess, outcome.Webhook.Status)
	assert.Equal(t, 1, calendarHits)
	assert.Equal(t, 1, webhookHits)
}

func TestForward_CalendarFailureDoesNotBlockWebhook(t *testing.T) {
	calSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer calSrv.Close()
	webhookHits := 0
	whSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer whSrv.Close()

	f := &DefaultForwarder{
		Calendar: NewCalendarClient("", calSrv.URL, zap.NewNop()),
		Webhook:  NewWebhookSinkClient(whSrv.URL),
		Logger:   zap.NewNop(),
	}

	outcome := f.Forward(context.Background(), testBooking())
	assert.Equal(t, models.SinkFailed, outcome.Calendar.Status)
	assert.NotEmpty(t, outcome.Calendar.Reason)
	assert.Equal(t, models.SinkSuccess, outcome.Webhook.Status)
	assert.Equal(t, 1, webhookHits)
}

func TestForward_UnconfiguredSinks(t *testing.T) {
	f := &DefaultForwarder{
		Calendar: NewCalendarClient("", "", zap.NewNop()),
		Webhook:  NewWebhookSinkClient(""),
		Logger:   zap.NewNop(),
	}

	outcome := f.Forward(context.Background(), testBooking())
	assert.Equal(t, models.SinkNotConfigured, outcome.Calendar.Status)
	assert.Equal(t, models.SinkNotConfigured, outcome.Webhook.Status)
}

func TestWebhookSink_DeliversBookingPayload(t *testing.T) {
	var received models.Booking
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewWebhookSinkClient(srv.URL)
	require.NoError(t, sink.Deliver(context.Background(), testBooking()))
	assert.Equal(t, "b-1", received.ID)
	assert.Equal(t, "Provider One", received.ProviderName)
}

func TestCalendarClient_CreateEventDefaultsTitle(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cal := NewCalendarClient("", srv.URL, zap.NewNop())
	require.NoError(t, cal.CreateEvent(context.Background(), testBooking()))
	assert.Equal(t, "Appointment with Provider One", payload["title"])
	assert.Equal(t, "2025-02-10", payload["date"])
	assert.Equal(t, "14:00", payload["time"])
}

func TestCalendarClient_FreeSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"free_slots": {"Mon 9-11"}})
	}))
	defer srv.Close()

	cal := NewCalendarClient(srv.URL, "", zap.NewNop())
	assert.Equal(t, []string{"Mon 9-11"}, cal.FreeSlots(context.Background(), "morning"))
}

func TestCalendarClient_FreeSlotsFallback(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		cal := NewCalendarClient("", "", zap.NewNop())
		assert.Equal(t, []string{"morning"}, cal.FreeSlots(context.Background(), "morning"))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		cal := NewCalendarClient(srv.URL, "", zap.NewNop())
		assert.Equal(t, []string{"afternoon"}, cal.FreeSlots(context.Background(), "afternoon"))
	})

	t.Run("empty slot lists", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string][]string{"free_slots": {}})
		}))
		defer srv.Close()
		cal := NewCalendarClient(srv.URL, "", zap.NewNop())
		assert.Equal(t, []string{"morning"}, cal.FreeSlots(context.Background(), "morning"))
	})
}
