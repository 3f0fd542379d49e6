package models

import "time"

// HumanClassification is one submission from a person. Rows are never
// updated or deleted.
type HumanClassification struct {
	ID            uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID   int64    `gorm:"column:tides_id;not null;index" json:"tides_id"`
	ObservationID *int64   `gorm:"column:obs_id" json:"obs_id"`
	SubmitterID   int64    `gorm:"column:person_id;not null" json:"person_id"`
	SNType        string   `gorm:"column:sn_type;type:varchar(50);not null" json:"sn_type"`
	Redshift      *float64 `gorm:"column:sn_z" json:"sn_z"`
	Subtype       *string  `gorm:"column:sn_subtype;type:varchar(100)" json:"sn_subtype"`
	Comments      *string  `gorm:"type:text" json:"comments"`

	CreatedAt time.Time `gorm:"column:created;not null;index" json:"created"`
}

func (HumanClassification) TableName() string {
	return "human_classifications"
}
