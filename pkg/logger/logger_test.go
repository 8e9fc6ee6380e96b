package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "info", App: "kardex-api"}, &buf)

	comp := l.Component("propagator")
	comp.Info().Str("product_id", "p1").Msg("precio de venta actualizado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kardex-api", entry["app"])
	assert.Equal(t, "propagator", entry["component"])
	assert.Equal(t, "p1", entry["product_id"])
}

func TestLogger_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "WARN"}, &buf)
	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("aparece")
	assert.NotZero(t, buf.Len())
}
