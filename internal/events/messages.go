package events

import (
	"encoding/json"
	"time"

	"github.com/keithsimkin/moneymanager-sub001/internal/finance"
)

// SnapshotSynced announces that a user's snapshot reached the cloud.
type SnapshotSynced struct {
	UserID   string         `json:"userId"`
	SyncedAt time.Time      `json:"syncedAt"`
	Counts   map[string]int `json:"counts"`
}

// NewSnapshotSynced summarizes data for the event payload.
func NewSnapshotSynced(userID string, syncedAt time.Time, data finance.SyncData) *SnapshotSynced {
	return &SnapshotSynced{
		UserID:   userID,
		SyncedAt: syncedAt,
		Counts: map[string]int{
			"accounts":          len(data.Accounts),
			"transactions":      len(data.Transactions),
			"budgets":           len(data.Budgets),
			"goals":             len(data.Goals),
			"recurringPatterns": len(data.RecurringPatterns),
		},
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSynced) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSyncedFromJSON decodes a message body.
func SnapshotSyncedFromJSON(data []byte) (*SnapshotSynced, error) {
	var msg SnapshotSynced
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
