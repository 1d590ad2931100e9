package queue

import (
	"encoding/json"
	"testing"

	"pitchboard-backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSyncViewsTask(t *testing.T) {
	task, err := NewSyncViewsTask(250)
	require.NoError(t, err)

	assert.Equal(t, shared.TypeSyncPitchViews, task.Type())

	var payload shared.SyncViewsPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 250, payload.BatchSize)
}
