package services

import (
	"bytes"
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

const (
	submissionSender = "claim-submission@example.com"

	MessageNotificationSent     = "Claim submitted successfully and notification sent!"
	MessageNotificationDegraded = "Claim submitted successfully, but there was an issue sending the notification."
	MessageInvalidAmount        = "Claim amount must be a positive number"
)

var notificationBody = template.Must(template.New("claim-notification").Parse(
	`A new claim has been submitted with the following details:

Policy Number: {{.PolicyNumber}}
Description: {{.Description}}
Claim Amount: ${{.ClaimAmount}}
Claim Date: {{.ClaimDate}}

This is an automated notification.`))

// SubmissionData echoes the submitted form back to the caller
type SubmissionData struct {
	PolicyNumber string               `json:"policyNumber"`
	Description  string               `json:"description"`
	ClaimAmount  entities.AmountInput `json:"claimAmount"`
	ClaimDate    string               `json:"claimDate"`
	ClaimID      string               `json:"claimId,omitempty"`
}

// SubmissionResult is the outcome of one submission. The call itself
// succeeds whenever validation passes.
type SubmissionResult struct {
	Message      string                  `json:"message"`
	Data         SubmissionData          `json:"data"`
	Notification entities.DeliveryReport `json:"-"`
	Forward      entities.DeliveryReport `json:"-"`
}

// SubmissionService accepts claim forms and notifies reviewers
type SubmissionService struct {
	notifier  providers.Notifier
	forwarder providers.ClaimForwarder
	metrics   *observability.Metrics
}

// NewSubmissionService creates a new submission service. forwarder may be nil
// when no management webhook is configured.
func NewSubmissionService(notifier providers.Notifier, forwarder providers.ClaimForwarder, metrics *observability.Metrics) *SubmissionService {
	return &SubmissionService{
		notifier:  notifier,
		forwarder: forwarder,
		metrics:   metrics,
	}
}

// SubmitClaim validates the form, then makes one best-effort delivery to the
// messaging service and, when configured, the management webhook. Delivery
// failures change the reply text only.
func (s *SubmissionService) SubmitClaim(ctx context.Context, form entities.ClaimSubmission) (*SubmissionResult, error) {
	if missing := form.Missing(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("All fields are required")
	}
	if _, ok := form.ClaimAmount.Positive(); !ok {
		return nil, apperrors.NewValidationError(MessageInvalidAmount)
	}

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("policy_number", form.PolicyNumber).
		Str("claim_amount", string(form.ClaimAmount)).
		Str("claim_date", form.ClaimDate).
		Msg("New claim submitted")

	result := &SubmissionResult{
		Data: SubmissionData{
			PolicyNumber: form.PolicyNumber,
			Description:  form.Description,
			ClaimAmount:  form.ClaimAmount,
			ClaimDate:    form.ClaimDate,
		},
	}

	notification, err := BuildClaimNotification(form)
	if err != nil {
		result.Notification = entities.DeliveryReport{Target: "messaging", Outcome: entities.NotificationFailed, Error: err.Error()}
	} else {
		result.Notification = s.notifier.Notify(ctx, notification)
	}
	s.record(ctx, result.Notification)

	if s.forwarder != nil {
		result.Forward = s.forwarder.Forward(ctx, form)
		s.record(ctx, result.Forward)
		result.Data.ClaimID = result.Forward.RemoteID
	}

	if result.Notification.Delivered() {
		result.Message = MessageNotificationSent
	} else {
		result.Message = MessageNotificationDegraded
	}
	return result, nil
}

func (s *SubmissionService) record(ctx context.Context, report entities.DeliveryReport) {
	observability.RecordNotification(ctx, s.metrics, report)

	event := observability.LoggerFromContext(ctx).Info()
	if report.Outcome == entities.NotificationFailed {
		event = observability.LoggerFromContext(ctx).Warn().Str("error", report.Error)
	}
	event.
		Str("target", report.Target).
		Str("outcome", string(report.Outcome)).
		Dur("duration", report.Duration).
		Msg("Notification outcome")
}

// BuildClaimNotification renders the reviewer notification for form
func BuildClaimNotification(form entities.ClaimSubmission) (entities.Notification, error) {
	var body bytes.Buffer
	err := notificationBody.Execute(&body, struct {
		PolicyNumber string
		Description  string
		ClaimAmount  string
		ClaimDate    string
	}{
		PolicyNumber: form.PolicyNumber,
		Description:  form.Description,
		ClaimAmount:  string(form.ClaimAmount),
		ClaimDate:    displayDate(form.ClaimDate),
	})
	if err != nil {
		return entities.Notification{}, err
	}

	return entities.Notification{
		From:    submissionSender,
		Subject: "New Claim Submitted - Policy #" + form.PolicyNumber,
		Body:    body.String(),
	}, nil
}

// displayDate renders YYYY-MM-DD or RFC 3339 input as M/D/YYYY. Anything else
// is shown as given.
func displayDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{entities.ClaimDateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}
