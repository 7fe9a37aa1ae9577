package notify

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

func TestHTTPDispatcher_PostsContract(t *testing.T) {
	var got Request
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL, 2*time.Second)

	err := d.Dispatch(context.Background(), Request{
		To:      "asha@example.com",
		Subject: "Appointment booked",
		HTML:    "<p>confirmed</p>",
		Text:    "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "asha@example.com", got.To)
	assert.Equal(t, "Appointment booked", got.Subject)
	assert.Equal(t, "<p>confirmed</p>", got.HTML)
	assert.Equal(t, "confirmed", got.Text)
}

func TestHTTPDispatcher_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(srv.URL, 2*time.Second)

	err := d.Dispatch(context.Background(), Request{To: "x@example.com"})
	assert.Error(t, err)
}

func TestHTTPDispatcher_EndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewHTTPDispatcher(srv.URL, time.Second)

	err := d.Dispatch(context.Background(), Request{To: "x@example.com"})
	assert.Error(t, err)
}

func TestNopDispatcher(t *testing.T) {
	assert.NoError(t, NopDispatcher{}.Dispatch(context.Background(), Request{}))
}
