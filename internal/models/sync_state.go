package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SyncScopeCandidates     = "candidates"
	SyncScopeIngestMock     = "ingest_mock"
	SyncScopeIngestPipeline = "ingest_pipeline"
)

type SyncState struct {
	Scope         string         `gorm:"primaryKey;type:text" json:"scope"`
	LastSuccessAt *time.Time     `json:"last_success_at"`
	LastAttemptAt *time.Time     `json:"last_attempt_at"`
	LastError     *string        `gorm:"type:text" json:"last_error"`
	StatsJSON     datatypes.JSON `json:"stats"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
