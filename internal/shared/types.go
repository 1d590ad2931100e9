package shared

// Task types (asynq)
const (
	TypeSyncPitchViews = "pitch:sync_views"
)

// Queue names, priority được set trong worker
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// SyncViewsPayload - payload của TypeSyncPitchViews
// BatchSize = 0 thì handler dùng default của nó
type SyncViewsPayload struct {
	BatchSize int `json:"batchSize"`
}
