// Package policy looks up policy limits from the policy service.
package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// HTTPLookup calls GET /api/policy/{policyId} on the policy service
type HTTPLookup struct {
	client *serviceapi.Client
}

// NewHTTPLookup creates a lookup backed by client
func NewHTTPLookup(client *serviceapi.Client) providers.PolicyLookup {
	return &HTTPLookup{client: client}
}

type policyEnvelope struct {
	Success bool                   `json:"success"`
	Data    entities.PolicySummary `json:"data"`
	Message string                 `json:"message"`
}

// GetPolicy fetches one policy summary
func (l *HTTPLookup) GetPolicy(ctx context.Context, policyID string) (*entities.PolicySummary, error) {
	var resp policyEnvelope
	err := l.client.Get(ctx, "/api/policy/"+url.PathEscape(strings.TrimSpace(policyID)), &resp)

	var statusErr *serviceapi.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewNotFoundError("Policy not found")
	case err != nil:
		return nil, apperrors.NewUpstreamError("Policy service unavailable", err)
	case !resp.Success:
		return nil, apperrors.NewUpstreamError("Policy service unavailable", fmt.Errorf("unexpected response: %s", resp.Message))
	}
	return &resp.Data, nil
}

// CachedLookup memoizes successful lookups. Unknown ids and upstream
// failures are never cached.
type CachedLookup struct {
	next    providers.PolicyLookup
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

const cacheName = "policy"

// NewCachedLookup wraps next with cache entries that live ttlSeconds
func NewCachedLookup(next providers.PolicyLookup, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) providers.PolicyLookup {
	return &CachedLookup{next: next, cache: cache, ttl: ttlSeconds, metrics: metrics}
}

func cacheKey(policyID string) string {
	return "policy:v1:" + strings.ToUpper(strings.TrimSpace(policyID))
}

// GetPolicy returns the cached summary or asks next
func (l *CachedLookup) GetPolicy(ctx context.Context, policyID string) (*entities.PolicySummary, error) {
	key := cacheKey(policyID)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := l.cache.Get(ctx, key); err == nil {
		var summary entities.PolicySummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			observability.RecordCacheHit(ctx, l.metrics, cacheName)
			return &summary, nil
		}
		// undecodable entries are evicted so a failed refetch leaves nothing behind
		if err := l.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Str("policy_id", policyID).Msg("Policy cache evict failed")
		}
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		logger.Warn().Err(err).Str("policy_id", policyID).Msg("Policy cache read failed")
	}
	observability.RecordCacheMiss(ctx, l.metrics, cacheName)

	start := time.Now()
	summary, err := l.next.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("policy_id", policyID).Dur("duration", time.Since(start)).Msg("Policy fetched")

	if data, err := json.Marshal(summary); err == nil {
		if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
			logger.Warn().Err(err).Str("policy_id", policyID).Msg("Policy cache write failed")
		}
	}
	return summary, nil
}
