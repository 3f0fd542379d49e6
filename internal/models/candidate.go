package models

import "time"

// Candidate is a row of the externally populated tides_cand table. It is
// read-only for this service.
type Candidate struct {
	CandidateID    int64      `gorm:"column:tides_id;primaryKey;autoIncrement:false"`
	ExternalSNID   int64      `gorm:"column:lsst_sn_id;not null;uniqueIndex"`
	HostID         *int64     `gorm:"column:lsst_host_id"`
	LastSeen       *time.Time `gorm:"column:last_date"`
	Classification *string    `gorm:"column:classification;type:varchar(50)"`
	ZBest          *float64   `gorm:"column:z_best"`
	ZSN            *float64   `gorm:"column:z_sn"`
	ZGal           *float64   `gorm:"column:z_gal"`
	ZSource        *string    `gorm:"column:z_source;type:varchar(50)"`
	Confidence     *float64   `gorm:"column:confidence"`
}

func (Candidate) TableName() string {
	return "tides_cand"
}
