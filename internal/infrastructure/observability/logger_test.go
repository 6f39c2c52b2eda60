package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_JSONCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "messaging", "production")

	log.Info().Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "messaging", entry["service"])
	assert.Equal(t, "hello", entry["message"])
}

func TestLoggerFromContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	initLogger(&buf, "policy-administration", "production")

	LoggerFromContext(context.Background()).Info().Msg("lookup")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestRecordHelpersTolerateNilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordCacheHit(context.Background(), nil, "policy")
		RecordStoreMetric(context.Background(), nil, "csv", "update", 0)
	})
}

func TestInitMetrics(t *testing.T) {
	m, err := InitMetrics()
	require.NoError(t, err)
	assert.NotNil(t, m.NotificationOutcomes)
}
