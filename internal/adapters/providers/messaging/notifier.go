// Package messaging delivers notifications to the messaging service.
package messaging

import (
	"context"
	"strconv"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
)

const (
	messagesPath = "/api/messages"
	targetName   = "messaging"
)

// HTTPNotifier posts each notification once to the messaging service
type HTTPNotifier struct {
	client *serviceapi.Client
}

// NewHTTPNotifier creates a notifier backed by client
func NewHTTPNotifier(client *serviceapi.Client) providers.Notifier {
	return &HTTPNotifier{client: client}
}

type messageEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// Notify delivers n and reports the outcome. No retry is attempted.
func (n *HTTPNotifier) Notify(ctx context.Context, notification entities.Notification) entities.DeliveryReport {
	start := time.Now()
	report := entities.DeliveryReport{Target: targetName}

	var resp messageEnvelope
	err := n.client.Post(ctx, messagesPath, notification, &resp)
	report.Duration = time.Since(start)
	if err != nil {
		report.Outcome = entities.NotificationFailed
		report.Error = err.Error()
		return report
	}

	report.Outcome = entities.NotificationDelivered
	if resp.Data.ID != 0 {
		report.RemoteID = strconv.FormatInt(resp.Data.ID, 10)
	}
	return report
}
