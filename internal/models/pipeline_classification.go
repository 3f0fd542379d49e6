package models

import "time"

const (
	ClassificationSourcePipeline = "pipeline"
	ClassificationSourceMock     = "mock"
	ClassificationSourceExternal = "external"

	// ClassifierAggregate names the combined verdict written by the
	// pipeline results file.
	ClassifierAggregate = "aggregate"
)

// PipelineClassification is an append-only machine classification of a
// candidate. Every ingest source writes here; Source and Classifier tell
// them apart.
type PipelineClassification struct {
	ID          uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID int64    `gorm:"column:tides_target_id;not null;index" json:"tides_id"`
	Source      string   `gorm:"type:varchar(20);not null;default:'external';index" json:"source"`
	Classifier  string   `gorm:"type:varchar(100);not null;default:'';index" json:"classifier"`
	SNType      *string  `gorm:"column:sn_type;type:varchar(50)" json:"sn_type"`
	Subclass    *string  `gorm:"type:varchar(100)" json:"subclass"`
	Probability *float64 `json:"probability"`
	Version     *string  `gorm:"type:varchar(20)" json:"version"`
	Notes       *string  `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PipelineClassification) TableName() string {
	return "pipeline_classification_global"
}
