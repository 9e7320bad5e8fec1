package processors_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logward/logward-go/pkg/logward"
	"github.com/logward/logward-go/pkg/processors"
)

func fieldValue(t *testing.T, rec *logward.Record, key string) any {
	t.Helper()
	v, ok := rec.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func TestRedactor_DefaultKeys(t *testing.T) {
	rec := logward.NewRecord(context.Background(), logward.LevelInfo, "login",
		logward.String("password", "hunter2"),
		logward.String("api_key", "ak-123"),
		logward.String("user", "bob"),
	)

	out := processors.NewRedactor().Process(rec)

	require.NotNil(t, out)
	assert.Equal(t, "[REDACTED]", fieldValue(t, out, "password"))
	assert.Equal(t, "[REDACTED]", fieldValue(t, out, "api_key"))
	assert.Equal(t, "bob", fieldValue(t, out, "user"))
}

func TestRedactor_KeyMatchIsExactAndCaseSensitive(t *testing.T) {
	rec := logward.NewRecord(context.Background(), logward.LevelInfo, "m",
		logward.String("Password", "visible"),
		logward.String("password_hash", "visible"),
	)

	out := processors.NewRedactor().Process(rec)

	assert.Equal(t, "visible", fieldValue(t, out, "Password"))
	assert.Equal(t, "visible", fieldValue(t, out, "password_hash"))
}

func TestRedactor_CustomKeysReplaceDefaults(t *testing.T) {
	rec := logward.NewRecord(context.Background(), logward.LevelInfo, "m",
		logward.String("password", "hunter2"),
		logward.String("internal_id", "i-42"),
	)

	out := processors.NewRedactor(processors.WithSensitiveKeys("internal_id")).Process(rec)

	assert.Equal(t, "hunter2", fieldValue(t, out, "password"))
	assert.Equal(t, "[REDACTED]", fieldValue(t, out, "internal_id"))
}

func TestRedactor_PatternsRecurseIntoNestedValues(t *testing.T) {
	card := regexp.MustCompile(`\b\d{4}-\d{4}-\d{4}-\d{4}\b`)
	rec := logward.NewRecord(context.Background(), logward.LevelInfo, "m",
		logward.Any("payload", map[string]any{
			"note":  "card 1234-5678-9012-3456 on file",
			"cards": []any{"4444-4444-4444-4444", "none"},
			"count": 2,
		}),
	)

	out := processors.NewRedactor(processors.WithPatterns(card)).Process(rec)

	payload := fieldValue(t, out, "payload").(map[string]any)
	assert.Equal(t, "card [REDACTED] on file", payload["note"])
	assert.Equal(t, []any{"[REDACTED]", "none"}, payload["cards"])
	assert.Equal(t, 2, payload["count"])
}

func TestRedactor_CustomReplacement(t *testing.T) {
	rec := logward.NewRecord(context.Background(), logward.LevelInfo, "m",
		logward.String("token", "t-1"),
	)

	out := processors.NewRedactor(processors.WithReplacement("***")).Process(rec)

	assert.Equal(t, "***", fieldValue(t, out, "token"))
}
