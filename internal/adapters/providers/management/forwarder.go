// Package management forwards submitted claims to the management webhook.
package management

import (
	"context"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
)

const (
	webhookPath = "/api/webhook/claims"
	targetName  = "management"
)

// WebhookForwarder posts claims to the management service webhook
type WebhookForwarder struct {
	client *serviceapi.Client
}

// NewWebhookForwarder creates a forwarder backed by client
func NewWebhookForwarder(client *serviceapi.Client) providers.ClaimForwarder {
	return &WebhookForwarder{client: client}
}

type createdClaim struct {
	ID string `json:"id"`
}

// Forward delivers claim once. RemoteID carries the created claim id.
func (f *WebhookForwarder) Forward(ctx context.Context, claim entities.WebhookClaim) entities.DeliveryReport {
	start := time.Now()
	report := entities.DeliveryReport{Target: targetName}

	var resp createdClaim
	err := f.client.Post(ctx, webhookPath, claim, &resp)
	report.Duration = time.Since(start)
	if err != nil {
		report.Outcome = entities.NotificationFailed
		report.Error = err.Error()
		return report
	}

	report.Outcome = entities.NotificationDelivered
	report.RemoteID = resp.ID
	return report
}

// SkippingForwarder is used when no webhook URL is configured
type SkippingForwarder struct{}

// Forward reports the delivery as skipped
func (SkippingForwarder) Forward(ctx context.Context, claim entities.WebhookClaim) entities.DeliveryReport {
	return entities.DeliveryReport{Target: targetName, Outcome: entities.NotificationSkipped}
}
