package models

import (
	"strconv"
	"time"
)

const (
	TargetNamePrefix   = "TIDES_"
	TargetTypeSidereal = "SIDEREAL"
)

// Target mirrors a Candidate into the TOM target table. The primary key is
// the candidate id, so there is at most one target per candidate.
type Target struct {
	CandidateID int64   `gorm:"column:tides_id;primaryKey;autoIncrement:false" json:"tides_id"`
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Type        string  `gorm:"type:varchar(20);not null" json:"type"`
	RA          float64 `gorm:"column:ra;not null;default:0" json:"ra"`
	Dec         float64 `gorm:"column:dec;not null;default:0" json:"dec"`

	ExternalSNID   int64      `gorm:"column:lsst_sn_id;not null;uniqueIndex" json:"lsst_sn_id"`
	HostID         *int64     `gorm:"column:lsst_host_id" json:"lsst_host_id"`
	LastSeen       *time.Time `gorm:"column:last_date" json:"last_date"`
	Classification *string    `gorm:"type:varchar(50)" json:"classification"`
	ZBest          *float64   `gorm:"column:z_best" json:"z_best"`
	ZSN            *float64   `gorm:"column:z_sn" json:"z_sn"`
	ZGal           *float64   `gorm:"column:z_gal" json:"z_gal"`
	ZSource        *string    `gorm:"column:z_source;type:varchar(50)" json:"z_source"`
	Confidence     *float64   `json:"confidence"`

	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modified_at"`
}

func (Target) TableName() string {
	return "targets"
}

// TargetName is the deterministic name of the target mirroring candidateID.
func TargetName(candidateID int64) string {
	return TargetNamePrefix + strconv.FormatInt(candidateID, 10)
}
