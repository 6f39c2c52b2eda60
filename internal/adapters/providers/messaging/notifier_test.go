package messaging_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/claimsflow/internal/adapters/providers/messaging"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
)

func TestHTTPNotifier_Delivered(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/messages", r.URL.Path)

		var n entities.Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		assert.Equal(t, "New Claim Submitted - Policy #P1", n.Subject)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Message received","data":{"id":1700000000000}}`))
	}))
	defer server.Close()

	notifier := messaging.NewHTTPNotifier(serviceapi.NewClient(server.URL, time.Second))
	report := notifier.Notify(context.Background(), entities.Notification{
		From: "claim-submission@example.com", Subject: "New Claim Submitted - Policy #P1", Body: "b",
	})

	assert.True(t, report.Delivered())
	assert.Equal(t, "1700000000000", report.RemoteID)
	assert.Equal(t, 1, calls)
}

func TestHTTPNotifier_FailsOnceWithoutRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := messaging.NewHTTPNotifier(serviceapi.NewClient(server.URL, time.Second))
	report := notifier.Notify(context.Background(), entities.Notification{Body: "b"})

	assert.Equal(t, entities.NotificationFailed, report.Outcome)
	assert.NotEmpty(t, report.Error)
	assert.Equal(t, 1, calls)
}

func TestHTTPNotifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	notifier := messaging.NewHTTPNotifier(serviceapi.NewClient(server.URL, 50*time.Millisecond))
	report := notifier.Notify(context.Background(), entities.Notification{Body: "b"})

	assert.Equal(t, entities.NotificationFailed, report.Outcome)
}
