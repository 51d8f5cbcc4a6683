package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSONCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentReport, Output: &buf})

	logger.Info("report built", FieldRecords, 13)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, ComponentReport, entry[FieldComponent])
	require.Equal(t, float64(13), entry[FieldRecords])
}

func TestWithComponentReplacesName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "text", Component: ComponentApp, Output: &buf}).WithComponent(ComponentAMQP)
	require.Equal(t, ComponentAMQP, logger.Component())

	logger.With(FieldQueue, "transaction_reports").Warn("publish failed")
	out := buf.String()
	require.Contains(t, out, "component=amqp")
	require.Contains(t, out, "queue=transaction_reports")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(Config{Component: ComponentSeed, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
	require.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpLoad).
		WithSource("json", "transactions.json").
		WithSnapshot(13, 10).
		WithError(errors.New("boom"))
	require.Equal(t, OpLoad, f[FieldOperation])
	require.Equal(t, "transactions.json", f[FieldPath])
	require.Equal(t, 10, f[FieldDistinct])
	require.Equal(t, "boom", f[FieldError])
	require.Len(t, f.ToSlice(), len(f)*2)

	// empty location is omitted
	require.NotContains(t, NewFields().WithSource("sheets", ""), FieldPath)
}
