package journal

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snsdedupe/internal/logging"
)

func TestEventsRangeAndType(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, db.PutEvent(ctx, now.Add(-2*time.Hour), TypeDedupe, map[string]any{"kept": 3, "duplicates": 1}))
	require.NoError(t, db.PutEvent(ctx, now.Add(-time.Minute), TypeCreated, map[string]any{"id": "p1"}))
	require.NoError(t, db.PutEvent(ctx, now, TypeFailed, map[string]any{"index": 2}))

	all, err := db.LoadEventsRange(ctx, now.Add(-3*time.Hour), now.Add(time.Second), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, TypeDedupe, all[0].Type)
	assert.JSONEq(t, `{"kept":3,"duplicates":1}`, all[0].Payload)

	recent, err := db.LoadEventsRange(ctx, now.Add(-time.Hour), now.Add(time.Second), "")
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	created, err := db.LoadEventsRange(ctx, now.Add(-3*time.Hour), now.Add(time.Second), TypeCreated)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.JSONEq(t, `{"id":"p1"}`, created[0].Payload)
}

func TestRecordStampsNowAndLogsWriteFailures(t *testing.T) {
	var logs bytes.Buffer
	logging.Setup("warn", &logs)
	defer logging.Setup("warn", os.Stderr)

	db, err := Open(":memory:")
	require.NoError(t, err)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	db.Record(ctx, TypeCheck, map[string]any{"date": "2026-01-20"})
	got, err := db.LoadEventsRange(ctx, before, time.Now().UTC().Add(time.Second), TypeCheck)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"date":"2026-01-20"}`, got[0].Payload)
	assert.Empty(t, logs.String())

	require.NoError(t, db.Close())
	db.Record(ctx, TypeDedupe, map[string]any{"kept": 1})
	assert.Contains(t, logs.String(), "journal_write_failed")
	assert.Contains(t, logs.String(), `"type":"dedupe"`)
}
