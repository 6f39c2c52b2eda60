package providers

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// Notifier delivers a notification once with no retry. It never returns an
// error: the outcome is reported instead.
type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification) entities.DeliveryReport
}

// ClaimForwarder pushes a submitted claim to the management webhook, best effort.
type ClaimForwarder interface {
	Forward(ctx context.Context, claim entities.WebhookClaim) entities.DeliveryReport
}
